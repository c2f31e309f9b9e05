// Package ratelimit enforces a minimum delay between actions shared across
// callers. Useful for web scraping and not going to jail.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter spaces out action starts so that, across every caller sharing the
// instance, successive starts are separated by at least the configured delay.
type Limiter struct {
	mu    sync.Mutex
	delay time.Duration
	last  time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Limiter with the given minimum delay between action starts.
func New(delay time.Duration) *Limiter {
	return &Limiter{
		delay: delay,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Do waits until at least the configured delay has elapsed since the previous
// caller's start, then runs action. The elapsed-time check, the sleep and the
// timestamp update happen under one lock so concurrent callers cannot both
// observe a stale last-start time. The action itself runs outside the lock.
func (l *Limiter) Do(action func() error) error {
	l.wait()
	return action()
}

func (l *Limiter) wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.now()
	target := l.last.Add(l.delay)
	if wait := target.Sub(current); wait > 0 {
		l.sleep(wait)
		// Record the wake-up target, not whenever sleep happened to return,
		// so repeated contention does not accumulate drift.
		l.last = target
	} else {
		l.last = current
	}
}
