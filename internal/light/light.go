// Package light decides whether the display should be powered from the
// ambient light seen by an analog light sensor. The display sits in a
// cupboard: light means the door is open.
package light

import (
	"errors"
	"math"
)

// MaxRaw is the full-scale value of the 10-bit analog input.
const MaxRaw = 1023

// ErrNoReading is returned when the sensor produced no number.
var ErrNoReading = errors.New("light sensor returned no reading")

// Metric converts a raw analog value to the sensor's resistance in kΩ.
// Lower means brighter. A raw zero is clamped to 1 to avoid dividing by
// zero; the result is still a valid metric.
func Metric(raw float64) (float64, error) {
	if math.IsNaN(raw) {
		return 0, ErrNoReading
	}
	if raw == 0 {
		raw = 1
	}
	return (MaxRaw - raw) * 10 / raw, nil
}

// Decide compares metric against threshold with no hysteresis.
func Decide(previousOn bool, metric, threshold float64) (on, changed bool) {
	on = metric < threshold
	return on, on != previousOn
}

// Transition is the edge produced by one gate observation.
type Transition int

const (
	None Transition = iota
	TurnedOn
	TurnedOff
)

func (t Transition) String() string {
	switch t {
	case TurnedOn:
		return "on"
	case TurnedOff:
		return "off"
	default:
		return "none"
	}
}

// Gate remembers the display power state between ticks so that only state
// changes produce side effects.
type Gate struct {
	threshold float64
	on        bool
}

// NewGate starts in the given state.
func NewGate(threshold float64, on bool) *Gate {
	return &Gate{threshold: threshold, on: on}
}

// On reports the current state.
func (g *Gate) On() bool { return g.on }

// Threshold returns the configured cutoff.
func (g *Gate) Threshold() float64 { return g.threshold }

// Observe feeds one metric. When err is non-nil the gate holds its state.
func (g *Gate) Observe(metric float64, err error) Transition {
	if err != nil {
		return None
	}
	on, changed := Decide(g.on, metric, g.threshold)
	if !changed {
		return None
	}
	g.on = on
	if on {
		return TurnedOn
	}
	return TurnedOff
}
