package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source for tests. Construct one with
// NewClock; the zero value starts at the zero time.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock starting at the given instant, or at the shared
// ReferenceTime when start is the zero value.
func NewClock(start time.Time) *Clock {
	c := &Clock{current: start}
	if start.IsZero() {
		c.current = ReferenceTime()
	}
	return c
}

// Now reports the instant the clock currently points at.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc adapts the clock to the func() time.Time shape services take as a
// dependency. A nil clock yields the real time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set jumps the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance moves the clock forward by d and reports the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
