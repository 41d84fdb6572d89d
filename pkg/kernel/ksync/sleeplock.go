// Package ksync provides the blocking lock primitives layered on the
// process table's sleep/wakeup machinery: a sleep lock that suspends
// contenders instead of spinning, and a reentrant lock nestable by its
// owner.
package ksync

import "github.com/babakhm83/UT-OS/pkg/kernel/proc"

// SleepLock is a long-term mutual-exclusion lock. A contender is put to
// sleep on the lock itself rather than spinning, so it is safe to hold
// across operations that block.
type SleepLock struct {
	lk     *proc.SpinLock // protects locked/pid
	locked bool
	pid    int
	name   string
	t      *proc.Table
}

// NewSleepLock returns a named, unlocked sleep lock bound to t.
func NewSleepLock(t *proc.Table, name string) *SleepLock {
	return &SleepLock{
		lk:   proc.NewSpinLock("sleep lock"),
		name: name,
		t:    t,
	}
}

// Acquire blocks cur until the lock is free, then takes it.
func (l *SleepLock) Acquire(cur *proc.Proc) {
	l.lk.Acquire(cur.CPU())
	for l.locked {
		l.t.Sleep(cur, l, l.lk)
	}
	l.locked = true
	l.pid = cur.PID()
	l.lk.Release()
}

// Release frees the lock and wakes every contender.
func (l *SleepLock) Release(cur *proc.Proc) {
	l.lk.Acquire(cur.CPU())
	l.locked = false
	l.pid = 0
	l.t.Wakeup(l)
	l.lk.Release()
}

// Holding reports whether cur owns the lock.
func (l *SleepLock) Holding(cur *proc.Proc) bool {
	l.lk.Acquire(cur.CPU())
	r := l.locked && l.pid == cur.PID()
	l.lk.Release()
	return r
}
