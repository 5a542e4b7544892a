package world

import (
	"sync"

	"github.com/ufoai/geoscape/pkg/core"
)

// Clock is the campaign world clock. Reads may come from other goroutines
// (status reports), so it is guarded.
type Clock struct {
	mu      sync.RWMutex
	now     core.Date
	stopped bool
}

// NewClock returns a running clock set to start.
func NewClock(start core.Date) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() core.Date {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves time forward and returns the new date.
func (c *Clock) Advance(seconds int) core.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddSeconds(seconds)
	return c.now
}

// Set jumps to d (loading a save).
func (c *Clock) Set(d core.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = d
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

// Start resumes time after a stop.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = false
}

func (c *Clock) Stopped() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stopped
}
