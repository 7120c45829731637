package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimTrailingZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"20.0", "20"},
		{"20.50", "20.5"},
		{"20", "20"},
		{"100", "100"},
		{"0.0", "0"},
		{"-3.10", "-3.1"},
		{"22.25", "22.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrimTrailingZero(tt.in), "TrimTrailingZero(%q)", tt.in)
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "20.0", Number(20))
	assert.Equal(t, "22.5", Number(22.5))
	assert.Equal(t, "-0.25", Number(-0.25))
	assert.Equal(t, "NaN", Number(nan()))
}

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.Equal(t, 68.0, CelsiusToFahrenheit(20))
	assert.Equal(t, 32.0, CelsiusToFahrenheit(0))
	assert.Equal(t, 72.5, CelsiusToFahrenheit(22.5))
	assert.Equal(t, 70.07, CelsiusToFahrenheit(21.15))
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		temp float64
		unit Unit
		want string
	}{
		{20.0, Celsius, "20C"},
		{20.0, Fahrenheit, "68F"},
		{20.0, Both, "20C/68F"},
		{22.5, Celsius, "22.5C"},
		{22.5, Both, "22.5C/72.5F"},
		{-5, Fahrenheit, "23F"},
	}
	for _, tt := range tests {
		got := Temperature(tt.temp, tt.unit)
		assert.Equal(t, tt.want, got)
		assert.NotContains(t, got, "°")
	}
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{"C": Celsius, "f": Fahrenheit, " B ": Both} {
		u, err := ParseUnit(in)
		require.NoError(t, err)
		assert.Equal(t, want, u)
		assert.Equal(t, want, mustParse(t, u.String()))
	}
	_, err := ParseUnit("K")
	assert.Error(t, err)
}

func mustParse(t *testing.T, s string) Unit {
	t.Helper()
	u, err := ParseUnit(s)
	require.NoError(t, err)
	return u
}

func TestPanelText(t *testing.T) {
	assert.Equal(t, "Temp: 22.5C     Humidity: 45%", PanelText(22.5, 45, Celsius))
	// "Temp: " plus 10 columns puts "Humidity" on the second line.
	assert.Equal(t, "Temp: 22.5C/72.5Humidity: 45.5%", PanelText(22.5, 45.5, Both))

	lines := Lines(PanelText(19, 60, Celsius))
	require.Len(t, lines, Rows)
	assert.Equal(t, "Temp: 19C       ", lines[0])
	assert.Equal(t, "Humidity: 60%", lines[1])
}

func TestFitColumns(t *testing.T) {
	assert.Equal(t, "ab   ", FitColumns("ab", 5))
	assert.Equal(t, "abcde", FitColumns("abcdefg", 5))
	assert.Equal(t, "abcde", FitColumns("abcde", 5))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"", ""}, Lines(""))
	assert.Equal(t, []string{"one", "two"}, Lines("one\ntwo"))
	assert.Equal(t, []string{"0123456789abcdef", "ghij"}, Lines("0123456789abcdefghij"))
	assert.Equal(t,
		[]string{"0123456789abcdef", "0123456789abcdef"},
		Lines("0123456789abcdef0123456789abcdefXYZ"))
}
