// Package config holds the monitor's settings. A Config is built once at
// startup from flags (with environment defaults) and never changes.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/luki/envmon/internal/format"
)

// Sensor backends.
const (
	SensorGrovePi = "grovepi"
	SensorSim     = "sim"
)

// Display backends.
const (
	DisplayGrove    = "grove"
	DisplayTerminal = "terminal"
	DisplayNone     = "none"
)

// Config is the immutable monitor configuration.
type Config struct {
	Unit           format.Unit
	DHTPort        int
	DHTType        int
	LightPort      int
	TargetC        float64
	LogPath        string
	LightThreshold float64
	// MinInterval is the least time between tick starts. Zero means the
	// blocking sensor read alone sets the pace.
	MinInterval time.Duration
	Sensor      string
	Display     string
	Bus         string
	LogLevel    string
}

// Default is a DHT11 on D7, a light sensor on A0 and a 20°C target.
func Default() Config {
	return Config{
		Unit:           format.Celsius,
		DHTPort:        7,
		DHTType:        0,
		LightPort:      0,
		TargetC:        20.0,
		LogPath:        "tempHumid.log",
		LightThreshold: 50,
		Sensor:         SensorGrovePi,
		Display:        DisplayGrove,
		LogLevel:       "info",
	}
}

// Parse builds a Config from command-line args. Every flag falls back to an
// ENVMON_* variable, then to Default.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	return parse(name, args, output, os.Getenv)
}

func parse(name string, args []string, output io.Writer, getenv func(string) string) (Config, error) {
	d := Default()
	env := envDefaults{getenv: getenv}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	unit := fs.String("unit", env.str("ENVMON_UNIT", d.Unit.String()), "temperature unit: C, F or B (both)")
	dhtPort := fs.Int("dht-port", env.integer("ENVMON_DHT_PORT", d.DHTPort), "digital port of the DHT sensor")
	dhtType := fs.Int("dht-type", env.integer("ENVMON_DHT_TYPE", d.DHTType), "DHT type: 0 = DHT11, 1 = DHT22")
	lightPort := fs.Int("light-port", env.integer("ENVMON_LIGHT_PORT", d.LightPort), "analog port of the light sensor")
	target := fs.Float64("target", env.number("ENVMON_TARGET", d.TargetC), "temperature (°C) shown as pure green")
	logPath := fs.String("log", env.str("ENVMON_LOG", d.LogPath), "CSV file readings are appended to")
	threshold := fs.Float64("light-threshold", env.number("ENVMON_LIGHT_THRESHOLD", d.LightThreshold), "light sensor resistance (kΩ) below which the display is on")
	minInterval := fs.Duration("min-interval", env.duration("ENVMON_MIN_INTERVAL", d.MinInterval), "minimum time between ticks (0 = as fast as the sensor answers)")
	sensorKind := fs.String("sensor", env.str("ENVMON_SENSOR", d.Sensor), "sensor backend: grovepi or sim")
	displayKind := fs.String("display", env.str("ENVMON_DISPLAY", d.Display), "display backend: grove, terminal or none")
	bus := fs.String("bus", env.str("ENVMON_BUS", d.Bus), "I2C bus name (empty for the default bus)")
	level := fs.String("log-level", env.str("ENVMON_LOG_LEVEL", d.LogLevel), "console log level")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if env.err != nil {
		return Config{}, env.err
	}

	u, err := format.ParseUnit(*unit)
	if err != nil {
		return Config{}, err
	}
	c := Config{
		Unit:           u,
		DHTPort:        *dhtPort,
		DHTType:        *dhtType,
		LightPort:      *lightPort,
		TargetC:        *target,
		LogPath:        *logPath,
		LightThreshold: *threshold,
		MinInterval:    *minInterval,
		Sensor:         *sensorKind,
		Display:        *displayKind,
		Bus:            *bus,
		LogLevel:       *level,
	}
	return c, c.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	for name, port := range map[string]int{"dht-port": c.DHTPort, "dht-type": c.DHTType, "light-port": c.LightPort} {
		if port < 0 || port > 255 {
			return errors.Errorf("%s %d out of range 0..255", name, port)
		}
	}
	if c.LogPath == "" {
		return errors.New("log path is empty")
	}
	if c.LightThreshold <= 0 {
		return errors.Errorf("light threshold must be positive, got %v", c.LightThreshold)
	}
	if c.MinInterval < 0 {
		return errors.Errorf("min interval must not be negative, got %v", c.MinInterval)
	}
	switch c.Sensor {
	case SensorGrovePi, SensorSim:
	default:
		return errors.Errorf("unknown sensor backend %q", c.Sensor)
	}
	switch c.Display {
	case DisplayGrove, DisplayTerminal, DisplayNone:
	default:
		return errors.Errorf("unknown display backend %q", c.Display)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NeedsI2C reports whether any backend talks to real hardware.
func (c Config) NeedsI2C() bool {
	return c.Sensor == SensorGrovePi || c.Display == DisplayGrove
}

func (c Config) String() string {
	return fmt.Sprintf("unit=%s target=%s threshold=%v log=%s sensor=%s display=%s",
		c.Unit, format.Temperature(c.TargetC, c.Unit), c.LightThreshold, c.LogPath, c.Sensor, c.Display)
}

// envDefaults reads typed defaults from the environment and keeps the
// first malformed value as an error.
type envDefaults struct {
	getenv func(string) string
	err    error
}

func (e *envDefaults) str(key, def string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return def
}

func (e *envDefaults) integer(key string, def int) int {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return n
}

func (e *envDefaults) number(key string, def float64) float64 {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return f
}

func (e *envDefaults) duration(key string, def time.Duration) time.Duration {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return d
}

func (e *envDefaults) fail(key, value string) {
	if e.err == nil {
		e.err = errors.Errorf("invalid %s=%q", key, value)
	}
}
