// Package chart renders the dashboard's sparkline, its timeline labels and
// the light gauge. Temperatures are coloured like the display backlight.
package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/envmon/internal/format"
	"github.com/luki/envmon/internal/history"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	colorTrack = lipgloss.Color("236")
	colorTick  = lipgloss.Color("239")
	colorMark  = lipgloss.Color("220")
	colorOff   = lipgloss.Color("240")
)

// TempColor is the backlight colour for temp as a lipgloss colour.
func TempColor(temp, target float64) lipgloss.Color {
	return lipgloss.Color(format.BackgroundColor(temp, target).Hex())
}

// RenderSparklinePoints renders points as coloured blocks scaled to
// [rangeMin, rangeMax]. A subtle pipe is drawn at each minute boundary.
func RenderSparklinePoints(points []history.Point, width int, rangeMin, rangeMax, target float64) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(colorTrack)
	if len(points) == 0 {
		return dim.Render(strings.Repeat("╌", width))
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}

	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	sb.WriteString(dim.Render(strings.Repeat("╌", width-len(points))))

	tickStyle := lipgloss.NewStyle().Foreground(colorTick)
	for i, p := range points {
		if isMinuteTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}
		norm := math.Max(0, math.Min(1, (p.Temp-rangeMin)/span))
		idx := int(norm * 7)
		style := lipgloss.NewStyle().Foreground(TempColor(p.Temp, target))
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}
	return sb.String()
}

func isMinuteTick(points []history.Point, i int) bool {
	p := points[i]
	if p.Time.IsZero() {
		return false
	}
	if p.Time.Second() == 0 {
		return true
	}
	return i > 0 && !points[i-1].Time.IsZero() && p.Time.Minute() != points[i-1].Time.Minute()
}

// RenderTimeline renders HH:MM labels under the sparkline's minute ticks.
func RenderTimeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}
	padLen := width - len(points)

	line := []rune(strings.Repeat(" ", width))
	lastEnd := -1
	for i, p := range points {
		if !isMinuteTick(points, i) {
			continue
		}
		label := p.Time.Format("15:04")
		start := padLen + i - 2
		if start < 0 {
			start = 0
		}
		end := start + len(label)
		if end > width || start <= lastEnd+1 {
			continue
		}
		copy(line[start:], []rune(label))
		lastEnd = end
	}
	return lipgloss.NewStyle().Foreground(colorTick).Render(string(line))
}

// RenderLightGauge draws the light metric on a bar from 0 to twice the
// threshold, with the threshold marked. Left of the mark the display is on.
func RenderLightGauge(metric, threshold float64, ok bool, width int) string {
	if width <= 0 {
		return ""
	}
	if !ok {
		return lipgloss.NewStyle().Foreground(colorOff).Render(strings.Repeat("?", width))
	}

	scale := 2 * threshold
	pos := func(v float64) int {
		p := int(float64(width-1) * v / scale)
		if p < 0 {
			return 0
		}
		if p >= width {
			return width - 1
		}
		return p
	}
	mark, cur := pos(threshold), pos(metric)

	curColor := lipgloss.Color("78")
	if metric >= threshold {
		curColor = colorOff
	}

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch i {
		case cur:
			sb.WriteString(lipgloss.NewStyle().Foreground(curColor).Bold(true).Render("◆"))
		case mark:
			sb.WriteString(lipgloss.NewStyle().Foreground(colorMark).Render("▪"))
		default:
			sb.WriteString(lipgloss.NewStyle().Foreground(colorTrack).Render("·"))
		}
	}
	return sb.String()
}

// RenderTempValue renders the formatted temperature in its backlight colour.
func RenderTempValue(temp, target float64, unit format.Unit) string {
	return lipgloss.NewStyle().
		Foreground(TempColor(temp, target)).
		Bold(temp == target).
		Render(format.Temperature(temp, unit))
}
