// Package clock provides the kernel's monotonic tick counter.
//
// A single Clock instance is shared by the timer path (the only writer)
// and every reader that needs an arrival timestamp or an uptime value.
// The Clock pointer itself doubles as the sleep channel for tick-based
// sleeps, mirroring how the original uses the address of the counter.
package clock

import "sync"

// Clock is a monotonically increasing tick counter guarded by its own
// short lock. Only the timer interrupt advances it.
type Clock struct {
	mu    sync.Mutex
	ticks uint64
}

// New returns a clock starting at tick zero.
func New() *Clock {
	return &Clock{}
}

// Ticks returns the number of timer interrupts observed since boot.
func (c *Clock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Advance records one timer interrupt and returns the new tick value.
func (c *Clock) Advance() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	return c.ticks
}
