package display

import (
	"github.com/luki/envmon/internal/format"
)

// Call is one recorded sink operation.
type Call struct {
	Op    string // "color" or "text"
	Text  string
	Color format.RGB
}

// Recorder keeps the calls it receives and the resulting panel contents.
type Recorder struct {
	Calls []Call
	Text  string
	Color format.RGB
}

func (r *Recorder) SetColor(c format.RGB) error {
	r.Calls = append(r.Calls, Call{Op: "color", Color: c})
	r.Color = c
	return nil
}

func (r *Recorder) SetText(text string) error {
	r.Calls = append(r.Calls, Call{Op: "text", Text: text})
	r.Text = text
	return nil
}

// Blank reports whether the panel currently shows nothing.
func (r *Recorder) Blank() bool {
	return r.Text == "" && r.Color == format.Off
}

// Reset forgets recorded calls but keeps the panel contents.
func (r *Recorder) Reset() {
	r.Calls = nil
}
