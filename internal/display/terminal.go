package display

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/envmon/internal/format"
)

var (
	colorPanelBorder = lipgloss.Color("62")
	colorPanelInk    = lipgloss.Color("#101010")
	colorPanelDim    = lipgloss.Color("238")
)

// RenderPanel draws the display as a bordered box with the backlight
// colour as its background.
func RenderPanel(text string, c format.RGB) string {
	lines := format.Lines(text)
	for i, l := range lines {
		lines[i] = format.FitColumns(l, format.Columns)
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPanelBorder).
		Background(lipgloss.Color(c.Hex())).
		Foreground(colorPanelInk).
		Padding(0, 1)
	if c == format.Off {
		style = style.Foreground(colorPanelDim)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Terminal renders the panel to a writer, once per Flush and only when the
// contents changed.
type Terminal struct {
	w     io.Writer
	text  string
	color format.RGB
	last  string
}

// NewTerminal writes frames to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) SetColor(c format.RGB) error {
	t.color = c
	return nil
}

func (t *Terminal) SetText(text string) error {
	t.text = text
	return nil
}

// Flush writes the current frame if it differs from the last one written.
func (t *Terminal) Flush() error {
	frame := RenderPanel(t.text, t.color)
	if frame == t.last {
		return nil
	}
	t.last = frame
	_, err := io.WriteString(t.w, frame+"\n")
	return err
}
