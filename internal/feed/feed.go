// Package feed keeps a rolling in-memory window of recent rounding
// events for the dashboard's live activity pane. It subscribes to the
// event bus and serves the newest entries over HTTP; history beyond the
// window lives in KurrentDB, not here.
package feed

import (
	"context"
	"sync"

	"github.com/wardwatch/platform/internal/shared/events"
)

// DefaultSize is the number of events the window retains.
const DefaultSize = 200

// Feed is a bounded, newest-first window of bus events.
type Feed struct {
	mu      sync.RWMutex
	entries []events.Event
	max     int
}

// New creates a feed retaining up to max events. A non-positive max
// falls back to DefaultSize.
func New(max int) *Feed {
	if max <= 0 {
		max = DefaultSize
	}
	return &Feed{max: max}
}

// Start subscribes the feed to all rounding events on the bus. New
// events only; the window starts empty on boot.
func (f *Feed) Start(ctx context.Context, bus *events.Bus) error {
	return bus.Subscribe(ctx, "rounds.*", func(ctx context.Context, event events.Event) error {
		f.Record(event)
		return nil
	})
}

// Record adds one event to the window, evicting the oldest entry once
// the window is full.
func (f *Feed) Record(event events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, event)
	if len(f.entries) > f.max {
		f.entries = f.entries[len(f.entries)-f.max:]
	}
}

// Recent returns the retained events, newest first.
func (f *Feed) Recent() []events.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]events.Event, len(f.entries))
	for i, e := range f.entries {
		out[len(f.entries)-1-i] = e
	}
	return out
}
