package proc

import (
	"runtime"

	"github.com/babakhm83/UT-OS/pkg/kernel/clock"
)

// Printer is the console-backed sink process listings print through.
type Printer interface {
	Printf(format string, args ...any)
}

type discardPrinter struct{}

func (discardPrinter) Printf(string, ...any) {}

// Table is the shared process table: the PCB arena, its lock, and the
// per-CPU scheduler state.
type Table struct {
	lock  SpinLock
	clk   *clock.Clock
	cfg   Config
	procs [NPROC]Proc
	cpus  []*CPU

	nextPID  int
	initIdx  int
	rrCursor int
	seed     uint64

	printer Printer
}

// New returns a table with ncpu CPUs, all slots UNUSED.
func New(clk *clock.Clock, cfg Config, ncpu int) *Table {
	cfg = cfg.withDefaults()
	t := &Table{
		lock:    SpinLock{name: "ptable"},
		clk:     clk,
		cfg:     cfg,
		nextPID: 1,
		initIdx: -1,
		seed:    cfg.Seed,
		printer: discardPrinter{},
	}
	for i := 0; i < ncpu; i++ {
		t.cpus = append(t.cpus, newCPU(i))
	}
	for i := range t.procs {
		t.procs[i].t = t
		t.procs[i].idx = i
		t.procs[i].parent = -1
	}
	return t
}

// SetPrinter routes process listings to pr, normally the console.
func (t *Table) SetPrinter(pr Printer) { t.printer = pr }

// Clock returns the tick source the table timestamps with.
func (t *Table) Clock() *clock.Clock { return t.clk }

// Config returns the scheduling parameters in effect.
func (t *Table) Config() Config { return t.cfg }

// CPUs returns the per-CPU state slice.
func (t *Table) CPUs() []*CPU { return t.cpus }

// CPUByAPIC resolves a CPU by its APIC id. An unknown id is a fatal
// configuration error.
func (t *Table) CPUByAPIC(apicID int) *CPU {
	for _, c := range t.cpus {
		if c.APICID == apicID {
			return c
		}
	}
	panic("unknown apicid")
}

// Lock exposes the table lock for collaborators that must follow the
// sleep protocol (the console, the sleep lock).
func (t *Table) Lock() *SpinLock { return &t.lock }

// alloc finds an UNUSED slot, moves it to EMBRYO, assigns the next pid and
// resets the scheduling fields to their defaults.
func (t *Table) alloc() (*Proc, error) {
	t.lock.Acquire(nil)
	var p *Proc
	for i := range t.procs {
		if t.procs[i].state == Unused {
			p = &t.procs[i]
			break
		}
	}
	if p == nil {
		t.lock.Release()
		return nil, ErrNoFreeSlot
	}
	p.state = Embryo
	p.pid = t.nextPID
	t.nextPID++
	t.lock.Release()

	p.kstack = make([]byte, KStackSize)
	p.toProc = make(chan struct{})
	p.toSched = make(chan struct{})
	p.started = false
	p.killed = false
	p.waitChan = nil
	p.TF = TrapFrame{}

	for i := range p.sc {
		p.sc[i] = 0
	}
	p.queue = 0
	p.waitTime = 0
	p.confidence = 50
	p.burstTime = 2
	p.consecutiveRuns = 0
	p.arrival = t.clk.Ticks()
	return p, nil
}

// UserInit sets up the very first process. Its slot becomes the reparent
// target for orphans.
func (t *Table) UserInit(name string, body Program) *Proc {
	p, err := t.alloc()
	if err != nil {
		panic("userinit: " + err.Error())
	}
	t.initIdx = p.idx
	p.space = NewMemImage(PageSize)
	p.name = name
	p.program = body
	p.parent = -1

	// The RUNNABLE assignment is published under the lock so another CPU
	// may dispatch the process immediately.
	t.lock.Acquire(nil)
	p.state = Runnable
	t.lock.Release()
	return p
}

// Spawn creates a ready process running body. It follows fork's queue
// rule: the first two pids stay on the round-robin queue, later ones
// start on FCFS.
func (t *Table) Spawn(name string, body Program) (*Proc, error) {
	p, err := t.alloc()
	if err != nil {
		return nil, err
	}
	p.space = NewMemImage(PageSize)
	p.name = name
	p.program = body
	p.parent = t.initIdx

	t.lock.Acquire(nil)
	p.state = Runnable
	if p.pid > 2 {
		p.queue = 2
	}
	t.lock.Release()
	return p, nil
}

// Fork clones cur into a new RUNNABLE child. The child runs the same
// program body with TF.AX forced to 0; it inherits name, open files and
// cwd. Returns the child pid.
func (t *Table) Fork(cur *Proc) (int, error) {
	np, err := t.alloc()
	if err != nil {
		return 0, err
	}
	space, err := cur.space.Clone()
	if err != nil {
		np.kstack = nil
		np.state = Unused
		return 0, ErrOutOfMemory
	}
	np.space = space
	np.parent = cur.idx
	np.TF = TrapFrame{AX: 0, Args: append([]int(nil), cur.TF.Args...)}
	np.ofile = cur.ofile
	np.cwd = cur.cwd
	np.name = cur.name
	np.program = cur.program

	pid := np.pid
	t.lock.Acquire(cur.cpu)
	np.state = Runnable
	if pid > 2 {
		np.queue = 2
	}
	t.lock.Release()
	return pid, nil
}

// Grow adjusts the current process's memory by n bytes.
func (t *Table) Grow(cur *Proc, n int) error {
	if _, err := cur.space.Grow(n); err != nil {
		return err
	}
	cur.space.Activate()
	return nil
}

// Exit terminates the current process: files closed, children reparented
// to init, parent woken, state set to ZOMBIE. It never returns.
func (t *Table) Exit(cur *Proc) {
	if cur.idx == t.initIdx {
		panic("init exiting")
	}

	for fd := range cur.ofile {
		if cur.ofile[fd] != nil {
			cur.ofile[fd].Close()
			cur.ofile[fd] = nil
		}
	}
	if cur.cwd != nil {
		cur.cwd.Close()
		cur.cwd = nil
	}

	t.lock.Acquire(cur.cpu)

	// Parent might be sleeping in Wait.
	if cur.parent >= 0 {
		t.wakeup1(&t.procs[cur.parent])
	}

	// Pass abandoned children to init.
	for i := range t.procs {
		if t.procs[i].parent == cur.idx {
			t.procs[i].parent = t.initIdx
			if t.procs[i].state == Zombie && t.initIdx >= 0 {
				t.wakeup1(&t.procs[t.initIdx])
			}
		}
	}

	cur.state = Zombie
	t.checkSched(cur)
	cur.toSched <- struct{}{}
	runtime.Goexit()
}

// Wait blocks until a child of cur exits, reaps it and returns its pid.
func (t *Table) Wait(cur *Proc) (int, error) {
	t.lock.Acquire(cur.cpu)
	for {
		havekids := false
		for i := range t.procs {
			p := &t.procs[i]
			if p.parent != cur.idx {
				continue
			}
			havekids = true
			if p.state == Zombie {
				pid := p.pid
				t.reap(p)
				t.lock.Release()
				return pid, nil
			}
		}

		if !havekids {
			t.lock.Release()
			return 0, ErrNoChildren
		}
		if cur.killed {
			t.lock.Release()
			return 0, ErrKilled
		}

		// Wait for children to exit; Exit wakes us on our own PCB.
		t.Sleep(cur, cur, &t.lock)
	}
}

// reap returns a ZOMBIE slot to UNUSED with all scheduling state reset.
// Caller holds the table lock.
func (t *Table) reap(p *Proc) {
	p.kstack = nil
	if p.space != nil {
		p.space.Free()
		p.space = nil
	}
	p.pid = 0
	p.parent = -1
	p.name = ""
	for i := range p.sc {
		p.sc[i] = 0
	}
	p.queue = 2
	p.waitTime = 0
	p.confidence = 50
	p.burstTime = 2
	p.consecutiveRuns = 0
	p.arrival = t.clk.Ticks()
	p.killed = false
	p.program = nil
	p.toProc = nil
	p.toSched = nil
	p.started = false
	p.waitChan = nil
	p.state = Unused
}

// Kill marks pid and makes it RUNNABLE if it sleeps, so the flag is
// observed at the next kernel boundary.
func (t *Table) Kill(pid int) error {
	t.lock.Acquire(nil)
	for i := range t.procs {
		p := &t.procs[i]
		if p.pid == pid {
			p.killed = true
			if p.state == Sleeping {
				p.state = Runnable
			}
			t.lock.Release()
			return nil
		}
	}
	t.lock.Release()
	return ErrNoSuchProcess
}

// Sleep atomically releases lk and suspends cur on channel ch; it holds
// the table lock across the state change so a concurrent Wakeup cannot be
// lost. lk is reacquired before Sleep returns.
func (t *Table) Sleep(cur *Proc, ch any, lk *SpinLock) {
	if cur == nil {
		panic("sleep")
	}
	if lk == nil {
		panic("sleep without lk")
	}

	if lk != &t.lock {
		t.lock.Acquire(cur.cpu)
		lk.Release()
	}

	cur.waitChan = ch
	cur.state = Sleeping
	t.sched(cur)

	cur.waitChan = nil

	if lk != &t.lock {
		t.lock.Release()
		lk.Acquire(cur.cpu)
	}
}

// wakeup1 makes every process sleeping on ch RUNNABLE. Caller holds the
// table lock.
func (t *Table) wakeup1(ch any) {
	for i := range t.procs {
		p := &t.procs[i]
		if p.state == Sleeping && p.waitChan == ch {
			p.state = Runnable
		}
	}
}

// Wakeup makes every process sleeping on ch RUNNABLE.
func (t *Table) Wakeup(ch any) {
	t.lock.Acquire(nil)
	t.wakeup1(ch)
	t.lock.Release()
}

// SleepTicks suspends cur for at least n timer ticks, failing if the
// process is killed while waiting.
func (t *Table) SleepTicks(cur *Proc, n uint64) error {
	t.lock.Acquire(cur.cpu)
	start := t.clk.Ticks()
	for t.clk.Ticks()-start < n {
		if cur.killed {
			t.lock.Release()
			return ErrKilled
		}
		t.Sleep(cur, t.clk, &t.lock)
	}
	t.lock.Release()
	return nil
}

// Tick is the timer interrupt: advance the clock, wake tick sleepers and
// age the RUNNABLE processes.
func (t *Table) Tick() {
	now := t.clk.Advance()
	t.Wakeup(t.clk)
	t.Aging(now)
}
