package dashboard

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/luki/envmon/internal/monitor"
)

// FeedEntry is one operator event shown in the dashboard.
type FeedEntry struct {
	Time    time.Time
	Level   logrus.Level
	Event   string
	Message string
}

// Feed is a logrus hook keeping the most recent entries for the event list.
// Entries are fired from the tick goroutine and read by View.
type Feed struct {
	mu      sync.Mutex
	entries []FeedEntry
	size    int
	levels  []logrus.Level
}

// NewFeed keeps size entries at or above level. Per-tick status lines
// (event "tick") are left out; the dashboard shows them itself.
func NewFeed(size int, level logrus.Level) *Feed {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}
	return &Feed{size: size, levels: levels}
}

func (f *Feed) Levels() []logrus.Level { return f.levels }

func (f *Feed) Fire(e *logrus.Entry) error {
	ev, _ := e.Data["event"].(string)
	if ev == monitor.EventTick {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, FeedEntry{Time: e.Time, Level: e.Level, Event: ev, Message: e.Message})
	if len(f.entries) > f.size {
		f.entries = f.entries[len(f.entries)-f.size:]
	}
	return nil
}

// Entries returns a copy, oldest first.
func (f *Feed) Entries() []FeedEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FeedEntry, len(f.entries))
	copy(out, f.entries)
	return out
}
