package ksync

import "github.com/babakhm83/UT-OS/pkg/kernel/proc"

// ReentrantLock is a mutual-exclusion lock the holder may re-acquire.
// The inner sleep lock is taken once regardless of nesting depth;
// cross-process contention queues on it.
type ReentrantLock struct {
	inner     *SleepLock
	locked    bool
	ownerPID  int
	recursion int
	name      string
}

// NewReentrantLock returns a named, unlocked reentrant lock bound to t.
func NewReentrantLock(t *proc.Table, name string) *ReentrantLock {
	return &ReentrantLock{
		inner: NewSleepLock(t, "reentrant lock"),
		name:  name,
	}
}

// Acquire takes the lock for cur, sleeping if another process holds it.
// A process that already holds the lock only deepens the recursion.
func (l *ReentrantLock) Acquire(cur *proc.Proc) {
	if !l.Holding(cur) {
		l.inner.Acquire(cur)
		l.locked = true
		l.ownerPID = cur.PID()
	}
	l.recursion++
}

// Release undoes one Acquire. The inner lock is released, and contenders
// woken, only when the recursion count returns to zero. Releasing a lock
// cur does not hold is a silent no-op.
func (l *ReentrantLock) Release(cur *proc.Proc) {
	if !l.Holding(cur) {
		return
	}
	l.recursion--
	if l.recursion == 0 {
		l.locked = false
		l.ownerPID = 0
		l.inner.Release(cur)
	}
}

// Holding reports whether cur is the current owner. The held flag is read
// before the owner id so a just-released lock cannot be misattributed.
func (l *ReentrantLock) Holding(cur *proc.Proc) bool {
	return l.locked && l.ownerPID == cur.PID()
}

// Depth returns the current recursion count.
func (l *ReentrantLock) Depth() int { return l.recursion }
