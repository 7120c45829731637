package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	h := NewBuffer(5)

	_, ok := h.Last()
	assert.False(t, ok)
	assert.Zero(t, h.Avg())

	now := time.Now()
	for i := 0; i < 7; i++ {
		h.Push(float64(18+i), 40, now.Add(time.Duration(i)*time.Second))
	}

	assert.Equal(t, 5, h.Len())
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 24.0, last.Temp)
	assert.Equal(t, 18.0, h.Min)
	assert.Equal(t, 24.0, h.Peak)
	assert.Equal(t, 22.0, h.Avg())
}

func TestLastNPoints(t *testing.T) {
	h := NewBuffer(100)
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)

	for i := 0; i < 120; i++ {
		h.Push(float64(20+i%5), 45, base.Add(time.Duration(i)*time.Second))
	}

	pts := h.LastNPoints(5)
	require.Len(t, pts, 5)
	assert.Equal(t, base.Add(119*time.Second), pts[4].Time)

	pts[0].Temp = -1
	assert.NotEqual(t, -1.0, h.Points[95].Temp, "returned points are a copy")

	assert.Len(t, h.LastNPoints(1000), 100)
	assert.Nil(t, h.LastNPoints(0))
}

func TestNewBufferMinimumCapacity(t *testing.T) {
	h := NewBuffer(0)
	h.Push(1, 1, time.Now())
	h.Push(2, 2, time.Now())
	assert.Equal(t, 1, h.Len())
}
