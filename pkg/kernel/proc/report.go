package proc

// ProcInfo is one row of a process-table snapshot.
type ProcInfo struct {
	Name            string
	PID             int
	State           State
	Queue           int
	WaitTime        int
	Confidence      int
	BurstTime       int
	ConsecutiveRuns int
	Arrival         uint64
	Syscalls        int
}

// Snapshot returns one ProcInfo per non-UNUSED slot, in slot order.
func (t *Table) Snapshot() []ProcInfo {
	t.lock.Acquire(nil)
	defer t.lock.Release()

	var out []ProcInfo
	for i := range t.procs {
		p := &t.procs[i]
		if p.pid == 0 {
			continue
		}
		total := 0
		for _, n := range p.sc {
			total += n
		}
		out = append(out, ProcInfo{
			Name:            p.name,
			PID:             p.pid,
			State:           p.state,
			Queue:           p.queue,
			WaitTime:        p.waitTime,
			Confidence:      p.confidence,
			BurstTime:       p.burstTime,
			ConsecutiveRuns: p.consecutiveRuns,
			Arrival:         p.arrival,
			Syscalls:        total,
		})
	}
	return out
}

// Dump prints a terse process listing. It takes no lock so a wedged
// machine can still be inspected from the console.
func (t *Table) Dump() {
	for i := range t.procs {
		p := &t.procs[i]
		if p.state == Unused {
			continue
		}
		t.printer.Printf("%d %s %s\n", p.pid, p.state.String(), p.name)
	}
}

// ReportAll prints the full scheduling view of every live slot.
func (t *Table) ReportAll() {
	t.lock.Acquire(nil)
	t.printer.Printf("Name\tPid\tState\tQueue\tWait time\tConfidence\tBurst time\tConsecutive runs\tArrival\n")
	for i := range t.procs {
		p := &t.procs[i]
		if p.pid == 0 {
			continue
		}
		t.printer.Printf("%s\t%d\t%s\t%d\t%d\t\t%d\t\t%d\t\t%d\t\t\t%d\n",
			p.name, p.pid, p.state.String(), p.queue, p.waitTime,
			p.confidence, p.burstTime, p.consecutiveRuns, int(p.arrival))
	}
	t.lock.Release()
}

// SetSJFInfo updates a process's declared burst and confidence atomically.
func (t *Table) SetSJFInfo(pid, burst, confidence int) error {
	t.lock.Acquire(nil)
	defer t.lock.Release()
	for i := range t.procs {
		p := &t.procs[i]
		if p.pid == pid {
			p.burstTime = burst
			p.confidence = confidence
			return nil
		}
	}
	return ErrNoSuchProcess
}

// SetQueue moves a process to another scheduling queue, restamping its
// arrival. Moving to the queue it is already on fails.
func (t *Table) SetQueue(pid, queue int) error {
	if pid <= 0 {
		return ErrBadPID
	}
	if queue < 0 || queue >= NQueue {
		return ErrBadQueue
	}
	t.lock.Acquire(nil)
	defer t.lock.Release()
	for i := range t.procs {
		p := &t.procs[i]
		if p.pid == pid {
			if p.queue == queue {
				return ErrSameQueue
			}
			p.queue = queue
			p.arrival = t.clk.Ticks()
			return nil
		}
	}
	return ErrNoSuchProcess
}

// RecordSyscall counts one invocation of syscall num (1-based) against p.
func (t *Table) RecordSyscall(p *Proc, num int) {
	if num < 1 || num > NSyscall {
		return
	}
	p.sc[num-1]++
}

// SortSyscalls prints the invocation counters of pid, one row per
// syscall that was called at least once.
func (t *Table) SortSyscalls(pid int) error {
	t.lock.Acquire(nil)
	for i := range t.procs {
		p := &t.procs[i]
		if p.pid == pid {
			for s := range p.sc {
				if p.sc[s] != 0 {
					t.printer.Printf("%d %s: %d times\n", s+1, SyscallNames[s], p.sc[s])
				}
			}
			t.lock.Release()
			return nil
		}
	}
	t.lock.Release()
	t.printer.Printf("No process with id = %d!\n", pid)
	return ErrNoSuchProcess
}

// GetMostInvoked prints pid's most frequently invoked syscall.
func (t *Table) GetMostInvoked(pid int) error {
	t.lock.Acquire(nil)
	for i := range t.procs {
		p := &t.procs[i]
		if p.pid == pid {
			max, maxIdx := 0, -1
			for s := range p.sc {
				if p.sc[s] > max {
					max = p.sc[s]
					maxIdx = s
				}
			}
			if max == 0 {
				t.printer.Printf("No system call in process %d!\n", pid)
			} else {
				t.printer.Printf("Most invoked system call in process %d %s: %d times\n",
					pid, SyscallNames[maxIdx], max)
			}
			t.lock.Release()
			return nil
		}
	}
	t.lock.Release()
	t.printer.Printf("No process with id = %d!\n", pid)
	return ErrNoSuchProcess
}

// ListAll prints a numbered line per live process with its total syscall
// count.
func (t *Table) ListAll() error {
	t.lock.Acquire(nil)
	count := 1
	found := false
	for i := range t.procs {
		p := &t.procs[i]
		if p.pid == 0 {
			continue
		}
		found = true
		sum := 0
		for _, n := range p.sc {
			sum += n
		}
		t.printer.Printf("%d. %s (id = %d): %d syscalls called\n", count, p.name, p.pid, sum)
		count++
	}
	t.lock.Release()
	if found {
		return nil
	}
	t.printer.Printf("No processes to show\n")
	return ErrNoProcesses
}

// TotalSyscalls returns the number of syscalls invoked table-wide.
func (t *Table) TotalSyscalls() int {
	t.lock.Acquire(nil)
	defer t.lock.Release()
	sum := 0
	for i := range t.procs {
		for _, n := range t.procs[i].sc {
			sum += n
		}
	}
	return sum
}

// CreatePalindrome prints num followed by its digits mirrored.
func (t *Table) CreatePalindrome(num int) {
	pal := num
	for n := num; n != 0; n /= 10 {
		pal = pal*10 + n%10
	}
	t.printer.Printf("Palindrome of %d is: %d\n", num, pal)
}
