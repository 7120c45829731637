// Package monitor runs the sense, transform, present and persist loop.
//
// Each tick reads temperature and humidity, reads the light sensor to decide
// whether the cupboard display should be powered, and, when the reading
// changed, recolours the display and appends the reading to the log. The
// loop has no timer of its own: a tick takes as long as the blocking sensor
// reads take, optionally stretched to Config.MinInterval.
package monitor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/luki/envmon/internal/config"
	"github.com/luki/envmon/internal/display"
	"github.com/luki/envmon/internal/format"
	"github.com/luki/envmon/internal/light"
	"github.com/luki/envmon/internal/sensor"
)

// unobserved seeds LastObserved with a value no sensor reports, so the
// first valid reading always counts as a change.
const unobserved = 0.0001

// Log is where changed readings are appended.
type Log interface {
	Append(r sensor.Reading) error
}

// DisplayState is what the loop believes the display shows. When On is
// false the display was last sent empty text and a black backlight.
type DisplayState struct {
	On    bool
	Text  string
	Color format.RGB
	// HasPayload is false until the first valid reading produced a
	// Text and Color to show.
	HasPayload bool
}

// LastObserved is the most recent valid reading that counted as a change.
type LastObserved struct {
	TemperatureC float64
	HumidityPct  float64
}

// Outcome describes one tick.
type Outcome struct {
	Reading    sensor.Reading
	Metric     float64
	MetricOK   bool
	Transition light.Transition
	// Changed is true when the reading was valid and differed from the
	// last observed one, i.e. the display payload was recomputed and the
	// reading logged.
	Changed bool
	Display DisplayState
}

// Loop owns all per-tick state. It is not safe for concurrent use; ticks
// must run one after another.
type Loop struct {
	cfg     config.Config
	sensors sensor.Source
	display display.Sink
	log     Log
	logger  logrus.FieldLogger

	gate  *light.Gate
	state DisplayState
	last  LastObserved

	now   func() time.Time
	pause func(ctx context.Context, d time.Duration) error
}

// New builds a loop. log may be nil to disable the reading log.
func New(cfg config.Config, sensors sensor.Source, sink display.Sink, log Log, logger logrus.FieldLogger) *Loop {
	if sink == nil {
		sink = display.Nop{}
	}
	return &Loop{
		cfg:     cfg,
		sensors: sensors,
		display: sink,
		log:     log,
		logger:  logger,
		gate:    light.NewGate(cfg.LightThreshold, true),
		state:   DisplayState{On: true},
		last:    LastObserved{TemperatureC: unobserved, HumidityPct: unobserved},
		now:     time.Now,
		pause:   pause,
	}
}

// Display returns the current display state.
func (l *Loop) Display() DisplayState { return l.state }

// Last returns the last observed reading.
func (l *Loop) Last() LastObserved { return l.last }

// Run ticks until ctx is cancelled. Tick failures are reported and never
// stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.WithFields(logrus.Fields{
		"func":  "Run",
		"event": EventStartup,
	}).Infof("config: %s", l.cfg)

	for {
		if err := ctx.Err(); err != nil {
			l.logger.WithFields(logrus.Fields{
				"func":  "Run",
				"event": EventStopped,
			}).Info("monitor stopped")
			return err
		}
		start := l.now()
		l.Tick(ctx)
		if l.cfg.MinInterval > 0 {
			if wait := l.cfg.MinInterval - l.now().Sub(start); wait > 0 {
				l.pause(ctx, wait)
			}
		}
	}
}

// Tick runs one iteration. A returned error means no reading could be taken
// this tick; it has already been reported.
func (l *Loop) Tick(ctx context.Context) (Outcome, error) {
	reading, err := l.sensors.Weather(ctx)
	if err != nil {
		if ctx.Err() == nil {
			l.logger.WithFields(logrus.Fields{
				"func":  "Tick",
				"event": EventSensorError,
			}).Errorf("temperature/humidity read failed: %s", err)
		}
		return Outcome{Display: l.state}, errors.Wrap(err, "read temperature/humidity")
	}
	if reading.Time.IsZero() {
		reading.Time = l.now()
	}
	out := Outcome{Reading: reading}

	out.Metric, err = l.lightMetric(ctx)
	out.MetricOK = err == nil
	l.report(reading, out.Metric, err)

	out.Transition = l.gate.Observe(out.Metric, err)
	wrote := l.applyTransition(out.Transition, out.Metric)

	switch {
	case !reading.Valid():
		l.logger.WithFields(logrus.Fields{
			"func":  "Tick",
			"event": EventNoData,
		}).Debug("sensor returned NaN, skipping reading")
	case !reading.Same(l.last.TemperatureC, l.last.HumidityPct):
		out.Changed = true
		wrote = l.observe(reading) || wrote
	}

	if wrote {
		if err := display.Flush(l.display); err != nil {
			l.displayError(err)
		}
	}
	out.Display = l.state
	return out, nil
}

func (l *Loop) lightMetric(ctx context.Context) (float64, error) {
	raw, err := l.sensors.Light(ctx)
	if err != nil {
		return 0, err
	}
	return light.Metric(raw)
}

func (l *Loop) report(r sensor.Reading, metric float64, metricErr error) {
	fields := logrus.Fields{
		"func":     "Tick",
		"event":    EventTick,
		"temp_raw": r.TemperatureC,
		"temp":     format.Temperature(r.TemperatureC, l.cfg.Unit),
		"humidity": format.Trimmed(r.HumidityPct) + "%",
		"light":    metric,
	}
	if metricErr != nil {
		fields["light"] = "ERROR"
	}
	l.logger.WithFields(fields).Info("reading")

	if metricErr != nil {
		l.logger.WithFields(logrus.Fields{
			"func":  "Tick",
			"event": EventLightError,
		}).Errorf("light sensor: %s", metricErr)
	}
}

// applyTransition performs the edge-triggered display power side effects
// and reports whether the display was written.
func (l *Loop) applyTransition(t light.Transition, metric float64) bool {
	switch t {
	case light.TurnedOn:
		l.state.On = true
		l.logger.WithFields(logrus.Fields{
			"func":  "applyTransition",
			"event": EventDisplayOn,
		}).Infof("turned on display: light %.1f below threshold %v", metric, l.gate.Threshold())
		if !l.state.HasPayload {
			return false
		}
		if err := display.Show(l.display, l.state.Text, l.state.Color); err != nil {
			l.displayError(err)
		}
		return true
	case light.TurnedOff:
		if err := display.Blank(l.display); err != nil {
			l.displayError(err)
		}
		l.state.On = false
		l.logger.WithFields(logrus.Fields{
			"func":  "applyTransition",
			"event": EventDisplayOff,
		}).Infof("turned off display: light %.1f not below threshold %v", metric, l.gate.Threshold())
		return true
	}
	return false
}

// observe records a changed reading, refreshes the display payload and logs
// the reading. It reports whether the display was written.
func (l *Loop) observe(r sensor.Reading) bool {
	l.last = LastObserved{TemperatureC: r.TemperatureC, HumidityPct: r.HumidityPct}
	l.state.Color = format.BackgroundColor(r.TemperatureC, l.cfg.TargetC)
	l.state.Text = format.PanelText(r.TemperatureC, r.HumidityPct, l.cfg.Unit)
	l.state.HasPayload = true

	l.logger.WithFields(logrus.Fields{
		"func":  "observe",
		"event": EventReadingChanged,
		"color": l.state.Color.String(),
	}).Debugf("display payload %q", l.state.Text)

	wrote := false
	if l.state.On {
		if err := display.Show(l.display, l.state.Text, l.state.Color); err != nil {
			l.displayError(err)
		}
		wrote = true
	}

	if l.log != nil {
		if err := l.log.Append(r); err != nil {
			l.logger.WithFields(logrus.Fields{
				"func":  "observe",
				"event": EventLogError,
			}).Errorf("append reading: %s", err)
		}
	}
	return wrote
}

func (l *Loop) displayError(err error) {
	l.logger.WithFields(logrus.Fields{
		"func":  "Tick",
		"event": EventDisplayError,
	}).Errorf("display: %s", err)
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
