package config

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luki/envmon/internal/format"
)

func noEnv(string) string { return "" }

func TestParseDefaults(t *testing.T) {
	c, err := parse("run", nil, io.Discard, noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.True(t, c.NeedsI2C())
}

func TestParseFlags(t *testing.T) {
	c, err := parse("run", []string{
		"-unit", "B",
		"-target", "21.5",
		"-light-threshold", "35",
		"-log", "/tmp/x.log",
		"-sensor", "sim",
		"-display", "terminal",
		"-min-interval", "2s",
	}, io.Discard, noEnv)
	require.NoError(t, err)
	assert.Equal(t, format.Both, c.Unit)
	assert.Equal(t, 21.5, c.TargetC)
	assert.Equal(t, 35.0, c.LightThreshold)
	assert.Equal(t, "/tmp/x.log", c.LogPath)
	assert.Equal(t, 2*time.Second, c.MinInterval)
	assert.False(t, c.NeedsI2C())
}

func TestParseEnvDefaults(t *testing.T) {
	env := map[string]string{
		"ENVMON_UNIT":   "F",
		"ENVMON_TARGET": "18",
		"ENVMON_SENSOR": "sim",
	}
	getenv := func(k string) string { return env[k] }

	c, err := parse("run", nil, io.Discard, getenv)
	require.NoError(t, err)
	assert.Equal(t, format.Fahrenheit, c.Unit)
	assert.Equal(t, 18.0, c.TargetC)
	assert.Equal(t, SensorSim, c.Sensor)

	// flags win over the environment
	c, err = parse("run", []string{"-target", "19"}, io.Discard, getenv)
	require.NoError(t, err)
	assert.Equal(t, 19.0, c.TargetC)
}

func TestParseBadEnv(t *testing.T) {
	getenv := func(k string) string {
		if k == "ENVMON_DHT_PORT" {
			return "seven"
		}
		return ""
	}
	_, err := parse("run", nil, io.Discard, getenv)
	assert.EqualError(t, err, `invalid ENVMON_DHT_PORT="seven"`)
}

func TestParseErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-unit", "K"},
		{"-sensor", "bme280"},
		{"-display", "oled"},
		{"-light-threshold", "0"},
		{"-min-interval", "-1s"},
		{"-dht-port", "300"},
		{"-log", ""},
		{"-log-level", "loud"},
		{"-no-such-flag"},
	} {
		_, err := parse("run", args, io.Discard, noEnv)
		assert.Error(t, err, "%v", args)
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "target=20C")
	assert.Contains(t, s, "log=tempHumid.log")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger("debug", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("event", "startup").Info("hello")
	assert.Contains(t, buf.String(), "event=startup")
	assert.Contains(t, buf.String(), "hello")

	_, err = NewLogger("chatty", &buf)
	assert.Error(t, err)
}
