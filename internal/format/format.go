// Package format turns raw sensor values into the text and background
// colour shown on the 16x2 RGB character display. Everything here is pure.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// Columns is the width of one display line.
	Columns = 16
	// Rows is the number of display lines.
	Rows = 2
	// TempColumns is how much of the first line the temperature may use
	// after the "Temp: " prefix.
	TempColumns = Columns - len(tempPrefix)

	tempPrefix     = "Temp: "
	humidityPrefix = "Humidity: "
)

// Unit is the user's preferred temperature unit.
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
	Both
)

// ParseUnit accepts C, F or B (case-insensitive).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C":
		return Celsius, nil
	case "F":
		return Fahrenheit, nil
	case "B":
		return Both, nil
	}
	return Celsius, fmt.Errorf("unknown unit %q (want C, F or B)", s)
}

func (u Unit) String() string {
	switch u {
	case Fahrenheit:
		return "F"
	case Both:
		return "B"
	default:
		return "C"
	}
}

// CelsiusToFahrenheit converts and rounds to two decimal places.
func CelsiusToFahrenheit(c float64) float64 {
	return math.Round((c*1.8+32)*100) / 100
}

// Number renders v with the shortest round-trip digits and always with a
// fractional part, so 20 becomes "20.0" and 22.5 stays "22.5".
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// TrimTrailingZero drops trailing zeros after the decimal point and then a
// bare trailing point. Text without a point is returned unchanged.
func TrimTrailingZero(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimRight(strings.TrimRight(s, "0"), ".")
}

// Trimmed is TrimTrailingZero(Number(v)).
func Trimmed(v float64) string {
	return TrimTrailingZero(Number(v))
}

// Temperature formats a Celsius reading in the preferred unit. The display
// cannot draw a degree sign, so none is emitted.
func Temperature(tempC float64, unit Unit) string {
	switch unit {
	case Fahrenheit:
		return Trimmed(CelsiusToFahrenheit(tempC)) + "F"
	case Both:
		return Trimmed(tempC) + "C/" + Trimmed(CelsiusToFahrenheit(tempC)) + "F"
	default:
		return Trimmed(tempC) + "C"
	}
}

// PanelText is the full display payload. The temperature is padded or cut
// to TempColumns so "Humidity: " starts on the second line.
func PanelText(tempC, humidityPct float64, unit Unit) string {
	return tempPrefix + FitColumns(Temperature(tempC, unit), TempColumns) +
		humidityPrefix + Trimmed(humidityPct) + "%"
}

// FitColumns pads s with trailing spaces or cuts it to exactly width cells.
func FitColumns(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

// Lines splits a payload into display rows the way the controller wraps
// it: a new row every Columns characters or at '\n', at most Rows rows.
func Lines(text string) []string {
	lines := make([]string, 0, Rows)
	var cur []rune
	for _, r := range text {
		if r == '\n' || len(cur) == Columns {
			lines = append(lines, string(cur))
			cur = cur[:0]
			if len(lines) == Rows {
				return lines
			}
			if r == '\n' {
				continue
			}
		}
		cur = append(cur, r)
	}
	lines = append(lines, string(cur))
	for len(lines) < Rows {
		lines = append(lines, "")
	}
	return lines
}
