package sensor

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// SimConfig shapes the simulated environment.
type SimConfig struct {
	Seed        int64
	StartTempC  float64
	StartHumPct float64
	// Delay stands in for the blocking DHT read.
	Delay time.Duration
	// DoorCycle is the number of reads in one closed+open cycle of the
	// cupboard door; DoorOpen of them have the door open.
	DoorCycle int
	DoorOpen  int
}

// DefaultSimConfig is roughly a room at 21°C with the door opened now and then.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Seed:        time.Now().UnixNano(),
		StartTempC:  21,
		StartHumPct: 45,
		Delay:       time.Second,
		DoorCycle:   60,
		DoorOpen:    20,
	}
}

// Sim is a bounded random walk with DHT11-like resolution.
type Sim struct {
	cfg   SimConfig
	rnd   *rand.Rand
	temp  float64
	hum   float64
	reads int
}

// NewSim builds a simulator.
func NewSim(cfg SimConfig) *Sim {
	if cfg.DoorCycle <= 0 {
		cfg.DoorCycle = 1
	}
	return &Sim{
		cfg:  cfg,
		rnd:  rand.New(rand.NewSource(cfg.Seed)),
		temp: cfg.StartTempC,
		hum:  cfg.StartHumPct,
	}
}

// Weather waits for the configured delay and then moves the walk one step.
// Most steps leave the values unchanged, like a real sensor in a quiet room.
func (s *Sim) Weather(ctx context.Context) (Reading, error) {
	if err := sleep(ctx, s.cfg.Delay); err != nil {
		return Reading{}, err
	}
	s.reads++
	if s.rnd.Float64() < 0.3 {
		s.temp = clamp(roundTo(s.temp+s.rnd.NormFloat64()*0.3, 0.1), 5, 40)
	}
	if s.rnd.Float64() < 0.3 {
		s.hum = clamp(math.Round(s.hum+s.rnd.NormFloat64()), 10, 95)
	}
	return Reading{TemperatureC: s.temp, HumidityPct: s.hum, Time: time.Now()}, nil
}

// Light returns a bright raw value while the door is open and a dark one
// otherwise, with a little noise.
func (s *Sim) Light(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return math.NaN(), err
	}
	phase := s.reads % s.cfg.DoorCycle
	base := 20.0
	if phase >= s.cfg.DoorCycle-s.cfg.DoorOpen {
		base = 700
	}
	return clamp(math.Round(base+s.rnd.NormFloat64()*5), 0, 1023), nil
}

// Close is a no-op.
func (s *Sim) Close() error { return nil }

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
