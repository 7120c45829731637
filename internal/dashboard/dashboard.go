// Package dashboard is the `watch` TUI: it drives the monitor loop from a
// BubbleTea program and shows a virtual copy of the display, the light gate,
// a temperature sparkline and recent operator events.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/luki/envmon/internal/chart"
	"github.com/luki/envmon/internal/config"
	"github.com/luki/envmon/internal/display"
	"github.com/luki/envmon/internal/format"
	"github.com/luki/envmon/internal/history"
	"github.com/luki/envmon/internal/monitor"
	"github.com/luki/envmon/internal/store"
)

const (
	historySize = 600
	feedRows    = 6
)

// ── Messages ─────────────────────────────────────────────────────────

type tickDoneMsg struct {
	outcome monitor.Outcome
	err     error
	time    time.Time
	// panel contents as of the end of the tick
	lcdText  string
	lcdColor format.RGB
}

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model of the dashboard.
type Model struct {
	ctx     context.Context
	cfg     config.Config
	loop    *monitor.Loop
	panel   *display.Recorder
	feed    *Feed
	history *history.Buffer

	last       monitor.Outcome
	hasOutcome bool
	err        error
	ticks      int
	failures   int

	lcdText  string
	lcdColor format.RGB

	width     int
	height    int
	lastPoll  time.Time
	startTime time.Time
	paused    bool
	ticking   bool
}

// New builds the dashboard. panel must receive every write the loop makes
// to its display and is only touched from the tick command; feed must be hooked into the loop's logger. The sparkline
// is primed from the tail of the reading log when it can be read.
func New(ctx context.Context, cfg config.Config, loop *monitor.Loop, panel *display.Recorder, feed *Feed) Model {
	h := history.NewBuffer(historySize)
	if records, err := store.Tail(cfg.LogPath, historySize); err == nil {
		for _, r := range records {
			h.Push(r.TemperatureC, r.HumidityPct, r.Time)
		}
	}
	return Model{
		ctx:       ctx,
		cfg:       cfg,
		loop:      loop,
		panel:     panel,
		feed:      feed,
		history:   h,
		startTime: time.Now(),
		ticking:   true, // Init starts the first tick
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// ── Commands ─────────────────────────────────────────────────────────

// tick runs one loop iteration off the UI goroutine. Only one is ever in
// flight, so ticks still run strictly one after another.
func (m Model) tick() tea.Cmd {
	loop, ctx, panel := m.loop, m.ctx, m.panel
	return func() tea.Msg {
		out, err := loop.Tick(ctx)
		msg := tickDoneMsg{outcome: out, err: err, time: time.Now(), lcdText: panel.Text, lcdColor: panel.Color}
		panel.Reset()
		return msg
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
			if !m.paused && !m.ticking {
				m.ticking = true
				return m, m.tick()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickDoneMsg:
		m.ticking = false
		m.lastPoll = msg.time
		m.ticks++
		m.lcdText, m.lcdColor = msg.lcdText, msg.lcdColor
		if msg.err != nil {
			m.failures++
			m.err = msg.err
		} else {
			m.err = nil
			m.last = msg.outcome
			m.hasOutcome = true
			if msg.outcome.Changed {
				r := msg.outcome.Reading
				m.history.Push(r.TemperatureC, r.HumidityPct, r.Time)
			}
		}
		if m.paused || m.ctx.Err() != nil {
			return m, nil
		}
		m.ticking = true
		return m, m.tick()
	}

	return m, nil
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorCrit     = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 50 {
		contentWidth = 50
	}

	sections := []string{m.renderTitleBar(contentWidth)}

	if m.err != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err)))
	}

	if !m.hasOutcome {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for sensor data..."))
	} else {
		sections = append(sections, m.renderStatus(contentWidth))
		sections = append(sections, m.renderTrend(contentWidth))
	}

	sections = append(sections, m.renderFeed(contentWidth))
	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	lines := strings.Split(content, "\n")
	if m.height > 0 && len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("ENVMON")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	statusParts := []string{
		dimS.Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime)))),
		dimS.Render(fmt.Sprintf("%d ticks", m.ticks)),
	}
	if m.failures > 0 {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorWarn).
			Render(fmt.Sprintf("%d failed", m.failures)))
	}
	if !m.lastPoll.IsZero() {
		statusParts = append(statusParts, dimS.Render(m.lastPoll.Format("15:04:05")))
	}
	if m.paused {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Render("PAUSED"))
	}
	statusParts = append(statusParts,
		lipgloss.NewStyle().Foreground(colorCrit).Render("REC")+dimS.Render(" "+m.cfg.LogPath))

	right := strings.Join(statusParts, dimS.Render(" │ "))
	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderStatus(width int) string {
	out := m.last
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	labelS := lipgloss.NewStyle().Foreground(colorLabel).Width(10)

	lcd := display.RenderPanel(m.lcdText, m.lcdColor)

	power := lipgloss.NewStyle().Foreground(colorOk).Bold(true).Render("ON")
	if !out.Display.On {
		power = dimS.Render("OFF")
	}
	metric := dimS.Render("n/a")
	if out.MetricOK {
		metric = fmt.Sprintf("%.1fkΩ", out.Metric)
	}

	r := out.Reading
	temp := dimS.Render("no data")
	hum := dimS.Render("no data")
	if r.Valid() {
		temp = chart.RenderTempValue(r.TemperatureC, m.cfg.TargetC, m.cfg.Unit)
		hum = format.Trimmed(r.HumidityPct) + "%"
	}

	rows := []string{
		labelS.Render("display") + power + dimS.Render("  "+out.Transition.String()),
		labelS.Render("light") + metric + dimS.Render(fmt.Sprintf("  threshold %v", m.cfg.LightThreshold)),
		labelS.Render("") + chart.RenderLightGauge(out.Metric, m.cfg.LightThreshold, out.MetricOK, 24),
		labelS.Render("temp") + temp + dimS.Render("  target "+format.Temperature(m.cfg.TargetC, m.cfg.Unit)),
		labelS.Render("humidity") + hum,
		labelS.Render("colour") + dimS.Render(out.Display.Color.String()),
	}
	info := lipgloss.JoinVertical(lipgloss.Left, rows...)
	body := lipgloss.JoinHorizontal(lipgloss.Top, lcd, "   ", info)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(body)
}

func (m Model) renderTrend(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	chartWidth := width - 8
	if chartWidth > 240 {
		chartWidth = 240
	}

	var rows []string
	if m.history.Len() == 0 {
		rows = append(rows, chart.RenderSparklinePoints(nil, chartWidth, 0, 1, m.cfg.TargetC))
	} else {
		rangeMin := math.Min(m.history.Min, m.cfg.TargetC) - 1
		rangeMax := math.Max(m.history.Peak, m.cfg.TargetC) + 1
		pts := m.history.LastNPoints(chartWidth)
		rows = append(rows,
			chart.RenderSparklinePoints(pts, chartWidth, rangeMin, rangeMax, m.cfg.TargetC),
			chart.RenderTimeline(pts, chartWidth),
			dimS.Render("avg ")+valS.Render(format.Temperature(round1(m.history.Avg()), m.cfg.Unit))+
				dimS.Render("  lo ")+valS.Render(format.Temperature(m.history.Min, m.cfg.Unit))+
				dimS.Render("  pk ")+valS.Render(format.Temperature(m.history.Peak, m.cfg.Unit))+
				dimS.Render(fmt.Sprintf("  %d changes", m.history.Len())),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderFeed(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	entries := m.feed.Entries()
	if len(entries) > feedRows {
		entries = entries[len(entries)-feedRows:]
	}

	rows := []string{dimS.Render("events")}
	for _, e := range entries {
		color := colorLabel
		if e.Level <= logrus.ErrorLevel {
			color = colorCrit
		}
		rows = append(rows, dimS.Render(e.Time.Format("15:04:05")+" ")+
			lipgloss.NewStyle().Foreground(color).Render(truncate(e.Message, width-12)))
	}
	return lipgloss.NewStyle().Padding(0, 1).Width(width).Render(strings.Join(rows, "\n"))
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	swatch := func(c format.RGB) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
	}
	target := m.cfg.TargetC
	legend := swatch(format.BackgroundColor(target-3, target)) + dimS.Render(" cold ") +
		swatch(format.Good) + dimS.Render(" target ") +
		swatch(format.BackgroundColor(target+3, target)) + dimS.Render(" hot")

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  p") + keyS.Render(":pause")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + strings.Repeat(" ", gap) + keys)
}

func truncate(s string, w int) string {
	if w < 1 {
		return ""
	}
	if len(s) <= w {
		return s
	}
	if w <= 3 {
		return s[:w]
	}
	return s[:w-1] + "…"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, mins, s)
	}
	return fmt.Sprintf("%dm%02ds", mins, s)
}
