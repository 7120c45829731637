package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/luki/envmon/internal/format"
	"github.com/luki/envmon/internal/history"
)

func TestSparkline(t *testing.T) {
	s := RenderSparklinePoints([]history.Point{{Temp: 18}, {Temp: 20}, {Temp: 22}}, 20, 15, 25, 20)
	assert.NotEmpty(t, s)
	assert.Equal(t, 20, lipgloss.Width(s))

	empty := RenderSparklinePoints(nil, 10, 0, 1, 20)
	assert.Equal(t, 10, lipgloss.Width(empty))
	assert.Empty(t, RenderSparklinePoints(nil, 0, 0, 1, 20))
}

func TestSparklineMinuteTicks(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 55, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 10; i++ {
		pts = append(pts, history.Point{Temp: 20, Time: base.Add(time.Duration(i) * time.Second)})
	}

	s := RenderSparklinePoints(pts, 10, 15, 25, 20)
	assert.Equal(t, 1, strings.Count(s, "│"))

	tl := RenderTimeline(pts, 10)
	assert.Contains(t, tl, "14:01")
}

func TestLightGauge(t *testing.T) {
	g := RenderLightGauge(30, 50, true, 21)
	assert.Equal(t, 21, lipgloss.Width(g))
	assert.Equal(t, 1, strings.Count(g, "◆"))
	assert.Equal(t, 1, strings.Count(g, "▪"))

	// far above the scale pins to the right edge
	g = RenderLightGauge(5000, 50, true, 21)
	assert.True(t, strings.Contains(g, "◆"))

	assert.Equal(t, strings.Repeat("?", 5), stripANSI(RenderLightGauge(0, 50, false, 5)))
}

func TestRenderTempValue(t *testing.T) {
	assert.Contains(t, RenderTempValue(20, 20, format.Both), "20C/68F")
}

func stripANSI(s string) string {
	var sb strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			in = true
		case in && r == 'm':
			in = false
		case !in:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
