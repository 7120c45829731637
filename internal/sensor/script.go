package sensor

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// ErrScriptDone is returned once every scripted step has been consumed.
var ErrScriptDone = errors.New("sensor script exhausted")

// Step is one scripted tick.
type Step struct {
	Reading  Reading
	Err      error
	Light    float64
	LightErr error
}

// Script replays fixed steps. Weather advances to the next step and Light
// answers for the step Weather last returned.
type Script struct {
	Steps  []Step
	next   int
	closed bool
}

// NewScript returns a Script over steps.
func NewScript(steps ...Step) *Script {
	return &Script{Steps: steps}
}

// Weather returns the next step's reading or error.
func (s *Script) Weather(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	if s.next >= len(s.Steps) {
		return Reading{}, ErrScriptDone
	}
	st := s.Steps[s.next]
	s.next++
	return st.Reading, st.Err
}

// Light returns the current step's light value.
func (s *Script) Light(context.Context) (float64, error) {
	if s.next == 0 {
		return math.NaN(), ErrScriptDone
	}
	st := s.Steps[s.next-1]
	return st.Light, st.LightErr
}

// Close marks the script closed.
func (s *Script) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Script) Closed() bool { return s.closed }
