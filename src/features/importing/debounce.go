package importing

import (
	"context"
	"time"
)

// DefaultDebounce is how long an event waits before it is classified.
const DefaultDebounce = 2 * time.Second

// Debouncer holds every event for the same fixed delay so copies can settle.
// Events are not coalesced.
type Debouncer struct {
	delay time.Duration
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Wait blocks for the delay and returns the event. It returns false if ctx ends first.
func (d *Debouncer) Wait(ctx context.Context, event WatchEvent) (WatchEvent, bool) {
	if d.delay <= 0 {
		return event, ctx.Err() == nil
	}
	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return event, true
	case <-ctx.Done():
		return event, false
	}
}
