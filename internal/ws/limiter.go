package ws

import "time"

// UpdatesPerSecond is the maximum playerUpdate rate per connection
const UpdatesPerSecond = 60

// MinUpdateInterval is the minimum spacing between accepted updates,
// 1000/60 ms (about 16.67ms)
const MinUpdateInterval = time.Second / UpdatesPerSecond

// Limiter enforces a minimum interval between events. Excess events are
// dropped, never queued: the most recent state always wins, and a dropped
// frame is superseded by the next one within one interval.
//
// Limiter is not safe for concurrent use; each connection owns one and
// calls it from a single goroutine.
type Limiter struct {
	interval time.Duration
	last     time.Time
}

// NewLimiter creates a Limiter with the given minimum interval
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Allow reports whether an event occurring at now should be let through,
// and if so arms the interval
func (l *Limiter) Allow(now time.Time) bool {
	if !l.last.IsZero() && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	return true
}
