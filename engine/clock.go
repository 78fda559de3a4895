package engine

import (
	"sync"
	"time"
)

// Clock is the time source injected into the ritual machine and the driver.
// Production uses MonotonicClock; tests use MockClock to simulate arbitrary
// time without real delays.
type Clock interface {
	Now() time.Time
}

// MonotonicClock reads the process monotonic clock.
type MonotonicClock struct{}

func (MonotonicClock) Now() time.Time {
	return time.Now()
}

// MockClock is a controllable time source for testing.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMockClock starts the mock at the given time.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

// Now returns the current mocked time.
func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the mocked time forward.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
