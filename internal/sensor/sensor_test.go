package sensor

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingValid(t *testing.T) {
	assert.True(t, Reading{TemperatureC: 20, HumidityPct: 40}.Valid())
	assert.False(t, Reading{TemperatureC: math.NaN(), HumidityPct: 40}.Valid())
	assert.False(t, Reading{TemperatureC: 20, HumidityPct: math.NaN()}.Valid())
}

func TestReadingSame(t *testing.T) {
	r := Reading{TemperatureC: 22.5, HumidityPct: 45}
	assert.True(t, r.Same(22.5, 45))
	assert.False(t, r.Same(22.5000001, 45))
	assert.False(t, r.Same(22.5, 45.1))
}

func TestScript(t *testing.T) {
	boom := errors.New("boom")
	s := NewScript(
		Step{Reading: Reading{TemperatureC: 20, HumidityPct: 40}, Light: 700},
		Step{Err: boom},
	)
	ctx := context.Background()

	r, err := s.Weather(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, r.TemperatureC)
	raw, err := s.Light(ctx)
	require.NoError(t, err)
	assert.Equal(t, 700.0, raw)

	_, err = s.Weather(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = s.Weather(ctx)
	assert.ErrorIs(t, err, ErrScriptDone)

	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
}

func TestSimStaysInRange(t *testing.T) {
	s := NewSim(SimConfig{Seed: 1, StartTempC: 21, StartHumPct: 45, DoorCycle: 10, DoorOpen: 3})
	ctx := context.Background()

	var bright, dark int
	for i := 0; i < 500; i++ {
		r, err := s.Weather(ctx)
		require.NoError(t, err)
		assert.True(t, r.Valid())
		assert.GreaterOrEqual(t, r.TemperatureC, 5.0)
		assert.LessOrEqual(t, r.TemperatureC, 40.0)
		assert.GreaterOrEqual(t, r.HumidityPct, 10.0)
		assert.LessOrEqual(t, r.HumidityPct, 95.0)

		raw, err := s.Light(ctx)
		require.NoError(t, err)
		if raw > 500 {
			bright++
		} else {
			dark++
		}
	}
	assert.Equal(t, 150, bright)
	assert.Equal(t, 350, dark)
}

func TestSimHonoursContext(t *testing.T) {
	s := NewSim(SimConfig{Seed: 1, Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Weather(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
