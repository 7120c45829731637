// Package sensor reads temperature, humidity and ambient light. Sources are
// either real GrovePi hardware on an I2C bus or a simulator.
package sensor

import (
	"context"
	"math"
	"time"
)

// Reading is one temperature/humidity sample.
type Reading struct {
	TemperatureC float64
	HumidityPct  float64
	Time         time.Time
}

// Valid is false when the sensor reported not-a-number for either value.
func (r Reading) Valid() bool {
	return !math.IsNaN(r.TemperatureC) && !math.IsNaN(r.HumidityPct)
}

// Same reports bit-exact equality of both values. There is no tolerance.
func (r Reading) Same(temperatureC, humidityPct float64) bool {
	return r.TemperatureC == temperatureC && r.HumidityPct == humidityPct
}

// Source is the sensor collaborator of the poll loop. Both reads block.
type Source interface {
	// Weather reads the temperature/humidity sensor. An error means the
	// sample could not be taken at all; NaN fields mean the sensor answered
	// without data.
	Weather(ctx context.Context) (Reading, error)
	// Light returns the raw analog light value (0..1023) or NaN.
	Light(ctx context.Context) (float64, error)
	Close() error
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
