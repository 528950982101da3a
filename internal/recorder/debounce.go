package recorder

import (
	"sync"
	"time"
)

// Debouncer drops raw events that arrive within interval of the last accepted
// one. There is a single "last accepted" time for every event kind, so a fast
// key press right after a click is dropped too.
type Debouncer struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewDebouncer returns a debouncer with the given minimum spacing.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Accept reports whether an event at t should be processed. Rejected events
// do not move the window.
func (d *Debouncer) Accept(t time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.last.IsZero() && t.Sub(d.last) < d.interval {
		return false
	}
	d.last = t
	return true
}
