// Package history keeps a ring buffer of recent readings for the live
// dashboard, with min/peak/avg temperature statistics.
package history

import (
	"math"
	"time"
)

// Point is a single reading in the history.
type Point struct {
	Temp     float64
	Humidity float64
	Time     time.Time
}

// Buffer is a fixed-capacity ring of points.
type Buffer struct {
	Points []Point
	Max    int // capacity
	Min    float64
	Peak   float64
}

// NewBuffer creates a buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		Points: make([]Point, 0, capacity),
		Max:    capacity,
		Min:    math.MaxFloat64,
		Peak:   -math.MaxFloat64,
	}
}

// Push appends a reading, dropping the oldest one when full. Min and Peak
// cover every reading ever pushed, not only the retained ones.
func (b *Buffer) Push(temp, humidity float64, t time.Time) {
	p := Point{Temp: temp, Humidity: humidity, Time: t}
	if len(b.Points) >= b.Max {
		copy(b.Points, b.Points[1:])
		b.Points[len(b.Points)-1] = p
	} else {
		b.Points = append(b.Points, p)
	}

	if temp < b.Min {
		b.Min = temp
	}
	if temp > b.Peak {
		b.Peak = temp
	}
}

// Len is the number of retained points.
func (b *Buffer) Len() int { return len(b.Points) }

// Last returns the most recent point and false if the buffer is empty.
func (b *Buffer) Last() (Point, bool) {
	if len(b.Points) == 0 {
		return Point{}, false
	}
	return b.Points[len(b.Points)-1], true
}

// Avg returns the mean temperature of the retained points.
func (b *Buffer) Avg() float64 {
	if len(b.Points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range b.Points {
		sum += p.Temp
	}
	return sum / float64(len(b.Points))
}

// LastNPoints returns a copy of the last n points.
func (b *Buffer) LastNPoints(n int) []Point {
	if n <= 0 || len(b.Points) == 0 {
		return nil
	}
	start := len(b.Points) - n
	if start < 0 {
		start = 0
	}
	out := make([]Point, len(b.Points[start:]))
	copy(out, b.Points[start:])
	return out
}
