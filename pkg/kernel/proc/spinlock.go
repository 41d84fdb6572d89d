package proc

import "sync"

// SpinLock guards kernel state shared between CPUs. Acquire with a non-nil
// CPU disables that CPU's interrupts for the critical section; callers
// outside any CPU context (the timer driver, tests) pass nil.
//
// Unlike sync.Mutex alone, a SpinLock may be released by a goroutine other
// than its acquirer: the scheduler hands the table lock across a context
// switch and the dispatched process releases it.
type SpinLock struct {
	name string
	mu   sync.Mutex
	cpu  *CPU
	held bool
}

// NewSpinLock returns a named, unlocked SpinLock.
func NewSpinLock(name string) *SpinLock {
	return &SpinLock{name: name}
}

// Acquire blocks until the lock is held by the caller.
func (l *SpinLock) Acquire(c *CPU) {
	if c != nil {
		c.PushCLI()
	}
	l.mu.Lock()
	l.cpu = c
	l.held = true
}

// Release unlocks. Releasing an unheld SpinLock panics.
func (l *SpinLock) Release() {
	if !l.held {
		panic("release: " + l.name)
	}
	c := l.cpu
	l.cpu = nil
	l.held = false
	l.mu.Unlock()
	if c != nil {
		c.PopCLI()
	}
}

// Holding reports whether the lock is held on behalf of CPU c.
func (l *SpinLock) Holding(c *CPU) bool {
	return l.held && c != nil && l.cpu == c
}
