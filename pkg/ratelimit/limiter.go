package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for pacing outgoing requests.
type Limiter interface {
	// Wait blocks until the next request may be sent.
	Wait()
	// Reset clears the limiter state.
	Reset()
}

// NewLimiter returns a fixed-interval pacer for positive delays and a no-op
// limiter otherwise.
func NewLimiter(delay time.Duration) Limiter {
	if delay > 0 {
		return NewInterval(delay)
	}
	return Nop{}
}

// Interval enforces a fixed minimum spacing between consecutive requests.
// This is a static politeness delay, not adaptive backoff.
type Interval struct {
	delay time.Duration
	last  time.Time
	mu    sync.Mutex
}

// NewInterval creates a fixed-interval limiter.
func NewInterval(delay time.Duration) *Interval {
	return &Interval{delay: delay}
}

// Wait sleeps until at least the configured delay has passed since the
// previous request. The first call returns immediately.
func (i *Interval) Wait() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.last.IsZero() {
		if remaining := i.delay - time.Since(i.last); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	i.last = time.Now()
}

// Reset forgets the last request time.
func (i *Interval) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.last = time.Time{}
}

// Nop is a limiter that never waits, used when no delay is configured.
type Nop struct{}

func (Nop) Wait()  {}
func (Nop) Reset() {}
