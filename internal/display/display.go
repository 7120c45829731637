// Package display drives the 16x2 RGB character display the monitor
// writes to, or stand-ins for it: a terminal rendering, a recorder and a
// no-op sink.
package display

import (
	"github.com/luki/envmon/internal/format"
)

// Sink is the display collaborator. Calls are fire-and-forget from the
// monitor's point of view; errors are only reported.
type Sink interface {
	SetColor(c format.RGB) error
	SetText(text string) error
}

// Flusher is implemented by sinks that batch writes until the end of a tick.
type Flusher interface {
	Flush() error
}

// Blank clears the text and switches the backlight off.
func Blank(s Sink) error {
	errText := s.SetText("")
	errColor := s.SetColor(format.Off)
	if errText != nil {
		return errText
	}
	return errColor
}

// Show sets the colour and then the text.
func Show(s Sink, text string, c format.RGB) error {
	errColor := s.SetColor(c)
	errText := s.SetText(text)
	if errColor != nil {
		return errColor
	}
	return errText
}

// Flush flushes s if it batches writes.
func Flush(s Sink) error {
	if f, ok := s.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Nop discards everything.
type Nop struct{}

func (Nop) SetColor(format.RGB) error { return nil }
func (Nop) SetText(string) error      { return nil }

// Tee forwards every call to all sinks and returns the first error.
type Tee []Sink

func (t Tee) SetColor(c format.RGB) error {
	var first error
	for _, s := range t {
		if err := s.SetColor(c); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t Tee) SetText(text string) error {
	var first error
	for _, s := range t {
		if err := s.SetText(text); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t Tee) Flush() error {
	var first error
	for _, s := range t {
		if err := Flush(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}
