package proc

import (
	"context"
	"runtime"
)

// Run is the per-CPU scheduler. It loops forever choosing a RUNNABLE
// process by the current queue's discipline and switching into it; ctx
// cancellation is the simulation's power-off.
//
// The queue level rotates whenever the previous dispatch consumed zero
// quanta at the current level. A pass over the table ends when the FCFS
// level, last in the rotation, reports empty or a dispatch from it returns
// with the level's quantum count at zero; the pass does not wait for the
// other levels to report empty. The next pass resumes the rotation at
// queue 0.
func (t *Table) Run(ctx context.Context, c *CPU) {
	c.proc = nil
	queue := NQueue - 1
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Interrupt window, then a full pass under the table lock.
		t.lock.Acquire(c)
		for {
			if c.consecutiveRunsQueue == 0 {
				queue = (queue + 1) % NQueue
			}

			var idx int
			switch queue {
			case 0:
				idx = t.pickRR(c)
			case 1:
				idx = t.pickSJF(c)
			case 2:
				idx = t.pickFCFS(c)
			default:
				idx = t.pickRR(c)
			}

			if idx < 0 {
				c.lastPIDQueue[queue] = -1
				c.consecutiveRunsQueue = 0
				if queue == NQueue-1 {
					break
				}
				continue
			}

			p := &t.procs[idx]
			c.lastPIDQueue[queue] = p.pid
			p.waitTime = 0
			p.consecutiveRuns = 1
			c.proc = p
			p.space.Activate()
			p.state = Running

			t.switchTo(c, p)

			// Process is done running for now; it changed its own state
			// before switching back.
			c.proc = nil

			if c.consecutiveRunsQueue == 0 && queue == NQueue-1 {
				break
			}
		}
		t.lock.Release()
		runtime.Gosched()
	}
}

// switchTo transfers control to p, starting its goroutine on first
// dispatch, and blocks until p switches back. The table lock is handed
// across: p releases it on the way out to user mode and reacquires it
// before returning here.
func (t *Table) switchTo(c *CPU, p *Proc) {
	p.cpu = c
	if !p.started {
		p.started = true
		go t.bootstrap(p)
	}
	p.toProc <- struct{}{}
	<-p.toSched
}

// bootstrap is a new process's first scheduling: release the table lock
// still held from the scheduler, run the body, and exit if it returns.
func (t *Table) bootstrap(p *Proc) {
	<-p.toProc
	t.lock.Release()
	p.program(p)
	t.Exit(p)
}

// checkSched enforces the entry conditions of a context switch back to
// the scheduler.
func (t *Table) checkSched(cur *Proc) {
	if !t.lock.Holding(cur.cpu) {
		panic("sched ptable.lock")
	}
	if cur.cpu.ncli == 0 {
		panic("sched interruptible")
	}
	if cur.cpu.ncli != 1 {
		panic("sched locks")
	}
	if cur.state == Running {
		panic("sched running")
	}
}

// sched switches back to the per-CPU scheduler. Caller holds only the
// table lock and has already changed cur.state.
func (t *Table) sched(cur *Proc) {
	t.checkSched(cur)
	intena := cur.cpu.intena
	cur.toSched <- struct{}{}
	<-cur.toProc
	cur.cpu.intena = intena
}

// shouldYield is the quantum decision: serve out the queue slice, then
// rotate; within the slice only round-robin processes are forced off,
// at the per-process cap. Caller holds the table lock.
func (t *Table) shouldYield(cur *Proc) bool {
	c := cur.cpu
	queueSlice := t.cfg.TimeSlice * t.cfg.QueueWeights[cur.queue]
	c.consecutiveRunsQueue++
	if c.consecutiveRunsQueue == queueSlice {
		c.consecutiveRunsQueue = 0
		return true
	}
	switch cur.queue {
	case 0:
		return cur.consecutiveRuns == t.cfg.RRCap
	case 1, 2:
		return false
	default:
		return true
	}
}

// Yield is the timer boundary of a running process: observe a pending
// kill, give up the CPU if the quantum policy says so, otherwise account
// one more consecutive quantum.
func (t *Table) Yield(cur *Proc) {
	t.lock.Acquire(cur.cpu)
	if cur.killed {
		t.lock.Release()
		t.Exit(cur)
	}
	if t.shouldYield(cur) {
		cur.state = Runnable
		t.sched(cur)
	} else {
		cur.consecutiveRuns++
	}
	t.lock.Release()
}

// Aging promotes every RUNNABLE process that has waited the configured
// threshold, one level per expiry. Promotion restamps the arrival tick.
func (t *Table) Aging(now uint64) {
	t.lock.Acquire(nil)
	for i := range t.procs {
		p := &t.procs[i]
		if p.state != Runnable {
			continue
		}
		p.waitTime++
		if p.waitTime >= t.cfg.AgingThreshold && p.queue > 0 {
			p.queue--
			p.arrival = now
			p.waitTime = 0
		}
	}
	t.lock.Release()
}

// pickRR selects from queue 0: prefer this CPU's affinity pid unless it
// has hit the consecutive-run cap, else advance the linear cursor.
func (t *Table) pickRR(c *CPU) int {
	last := c.lastPIDQueue[0]
	if last > 0 {
		for i := range t.procs {
			p := &t.procs[i]
			if p.pid != last {
				continue
			}
			if p.state != Runnable || p.queue != 0 || p.consecutiveRuns == t.cfg.RRCap {
				if p.consecutiveRuns == t.cfg.RRCap {
					p.consecutiveRuns = 0
					t.rrCursor = i
				}
				break
			}
			return i
		}
	}
	for n := 0; n < NPROC; n++ {
		t.rrCursor = (t.rrCursor + 1) % NPROC
		p := &t.procs[t.rrCursor]
		if p.state == Runnable && p.queue == 0 {
			return t.rrCursor
		}
	}
	return -1
}

// pickSJF selects from queue 1: affinity first, otherwise draw among the
// minimum-burst candidates with per-process confidence; the last
// candidate of the tie group backstops a run of failed draws.
func (t *Table) pickSJF(c *CPU) int {
	minBurst := -1
	for i := range t.procs {
		p := &t.procs[i]
		if p.state != Runnable || p.queue != 1 {
			continue
		}
		if p.pid == c.lastPIDQueue[1] && p.pid > 0 {
			return i
		}
		if minBurst < 0 || p.burstTime < minBurst {
			minBurst = p.burstTime
		}
	}
	if minBurst < 0 {
		return -1
	}

	var ties []int
	for i := range t.procs {
		p := &t.procs[i]
		if p.state == Runnable && p.queue == 1 && p.burstTime == minBurst {
			ties = append(ties, i)
		}
	}
	for _, i := range ties {
		if t.nextRand() < t.procs[i].confidence {
			return i
		}
	}
	return ties[len(ties)-1]
}

// pickFCFS selects from queue 2: affinity first, otherwise the earliest
// arrival; ties go to the lowest slot index.
func (t *Table) pickFCFS(c *CPU) int {
	minIdx := -1
	var minArrival uint64
	for i := range t.procs {
		p := &t.procs[i]
		if p.state != Runnable || p.queue != 2 {
			continue
		}
		if p.pid == c.lastPIDQueue[2] && p.pid > 0 {
			return i
		}
		if minIdx < 0 || p.arrival < minArrival {
			minArrival = p.arrival
			minIdx = i
		}
	}
	return minIdx
}
