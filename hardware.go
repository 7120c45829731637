package main

import (
	"io"

	"github.com/pkg/errors"
	"periph.io/x/host/v3"

	"github.com/luki/envmon/internal/config"
	"github.com/luki/envmon/internal/display"
	"github.com/luki/envmon/internal/sensor"
)

// hardware holds the opened sensor and display backends.
type hardware struct {
	sensors sensor.Source
	display display.Sink
	closers []io.Closer
}

// openHardware opens the backends cfg selects. Terminal frames go to out.
func openHardware(cfg config.Config, out io.Writer) (*hardware, error) {
	if cfg.NeedsI2C() {
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, "periph host init")
		}
	}

	hw := &hardware{}

	switch cfg.Sensor {
	case config.SensorGrovePi:
		g, err := sensor.OpenGrovePi(cfg.Bus, sensor.GrovePiConfig{
			DHTPort:   byte(cfg.DHTPort),
			DHTType:   byte(cfg.DHTType),
			LightPort: byte(cfg.LightPort),
		})
		if err != nil {
			return nil, errors.Wrap(err, "grovepi")
		}
		hw.sensors = g
	default:
		hw.sensors = sensor.NewSim(sensor.DefaultSimConfig())
	}
	hw.closers = append(hw.closers, hw.sensors)

	switch cfg.Display {
	case config.DisplayGrove:
		lcd, err := display.OpenGroveLCD(cfg.Bus)
		if err != nil {
			hw.Close()
			return nil, errors.Wrap(err, "grove lcd")
		}
		hw.display = lcd
		hw.closers = append(hw.closers, lcd)
	case config.DisplayTerminal:
		hw.display = display.NewTerminal(out)
	default:
		hw.display = display.Nop{}
	}
	return hw, nil
}

// Close releases everything that was opened.
func (hw *hardware) Close() error {
	var first error
	for _, c := range hw.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
