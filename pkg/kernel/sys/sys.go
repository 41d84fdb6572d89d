package sys

import (
	"github.com/babakhm83/UT-OS/pkg/kernel/console"
	"github.com/babakhm83/UT-OS/pkg/kernel/ksync"
	"github.com/babakhm83/UT-OS/pkg/kernel/proc"
)

// Syscall numbers, 1-based, matching proc.SyscallNames.
const (
	SysFork = iota + 1
	SysExit
	SysWait
	SysPipe
	SysRead
	SysKill
	SysExec
	SysFstat
	SysChdir
	SysDup
	SysGetpid
	SysSbrk
	SysSleep
	SysUptime
	SysOpen
	SysWrite
	SysMknod
	SysUnlink
	SysLink
	SysMkdir
	SysClose
	SysCreatePalindrome
	SysMoveFile
	SysSortSyscalls
	SysGetMostInvoked
	SysListAllProcesses
	SysSetSJFInfo
	SysSetQueue
	SysReportAllProcesses
)

// ArgInt decodes the n-th integer argument from the frame.
func ArgInt(tf *proc.TrapFrame, n int) (int, error) {
	if n < 0 || n >= len(tf.Args) {
		return 0, ErrBadArg
	}
	return tf.Args[n], nil
}

// Facade exposes the scheduler-visible syscalls to userland, counting
// each invocation against the caller.
type Facade struct {
	table  *proc.Table
	cons   *console.Console
	fiblk  *ksync.ReentrantLock
	counts int
}

// New wires a facade over the table and console. The reentrant lock
// guards the recursive fibonacci exerciser.
func New(t *proc.Table, cons *console.Console) *Facade {
	return &Facade{
		table: t,
		cons:  cons,
		fiblk: ksync.NewReentrantLock(t, "fibonacci"),
	}
}

// count records one invocation of num by p.
func (f *Facade) count(p *proc.Proc, num int) {
	f.table.RecordSyscall(p, num)
	f.counts++
}

// Fork clones the calling process; the child observes TF.AX == 0.
func (f *Facade) Fork(p *proc.Proc) int {
	f.count(p, SysFork)
	pid, err := f.table.Fork(p)
	if err != nil {
		return -1
	}
	return pid
}

// Exit terminates the caller. It does not return.
func (f *Facade) Exit(p *proc.Proc) {
	f.count(p, SysExit)
	f.table.Exit(p)
}

// Wait blocks for a child exit and returns its pid, -1 on failure.
func (f *Facade) Wait(p *proc.Proc) int {
	f.count(p, SysWait)
	pid, err := f.table.Wait(p)
	if err != nil {
		return -1
	}
	return pid
}

// Kill marks the pid in the frame's first argument.
func (f *Facade) Kill(p *proc.Proc) int {
	f.count(p, SysKill)
	pid, err := ArgInt(&p.TF, 0)
	if err != nil {
		return -1
	}
	if f.table.Kill(pid) != nil {
		return -1
	}
	return 0
}

// Getpid returns the caller's pid.
func (f *Facade) Getpid(p *proc.Proc) int {
	f.count(p, SysGetpid)
	return p.PID()
}

// Sbrk grows the caller's memory by the first argument, returning the
// old size.
func (f *Facade) Sbrk(p *proc.Proc) int {
	f.count(p, SysSbrk)
	n, err := ArgInt(&p.TF, 0)
	if err != nil {
		return -1
	}
	addr := p.Space().Size()
	if f.table.Grow(p, n) != nil {
		return -1
	}
	return addr
}

// Sleep suspends the caller for the argument's worth of ticks; a kill
// during the wait fails the call.
func (f *Facade) Sleep(p *proc.Proc) int {
	f.count(p, SysSleep)
	n, err := ArgInt(&p.TF, 0)
	if err != nil || n < 0 {
		return -1
	}
	if f.table.SleepTicks(p, uint64(n)) != nil {
		return -1
	}
	return 0
}

// Uptime returns how many timer ticks have occurred since boot.
func (f *Facade) Uptime(p *proc.Proc) int {
	f.count(p, SysUptime)
	return int(f.table.Clock().Ticks())
}

// CreatePalindrome prints the palindrome of the first argument.
func (f *Facade) CreatePalindrome(p *proc.Proc) int {
	f.count(p, SysCreatePalindrome)
	n, err := ArgInt(&p.TF, 0)
	if err != nil {
		return -1
	}
	f.table.CreatePalindrome(n)
	return 0
}

// SortSyscalls prints the invocation counters of the pid argument.
func (f *Facade) SortSyscalls(p *proc.Proc) int {
	f.count(p, SysSortSyscalls)
	pid, err := ArgInt(&p.TF, 0)
	if err != nil {
		return -1
	}
	if f.table.SortSyscalls(pid) != nil {
		return -1
	}
	return 0
}

// GetMostInvoked prints the pid argument's most frequent syscall.
func (f *Facade) GetMostInvoked(p *proc.Proc) int {
	f.count(p, SysGetMostInvoked)
	pid, err := ArgInt(&p.TF, 0)
	if err != nil {
		return -1
	}
	if f.table.GetMostInvoked(pid) != nil {
		return -1
	}
	return 0
}

// ListAllProcesses prints every live process with its syscall total.
func (f *Facade) ListAllProcesses(p *proc.Proc) int {
	f.count(p, SysListAllProcesses)
	if f.table.ListAll() != nil {
		return -1
	}
	return 0
}

// SetSJFInfo updates burst and confidence for the pid argument.
func (f *Facade) SetSJFInfo(p *proc.Proc) int {
	f.count(p, SysSetSJFInfo)
	pid, err := ArgInt(&p.TF, 0)
	if err != nil {
		return -1
	}
	burst, err := ArgInt(&p.TF, 1)
	if err != nil {
		return -1
	}
	confidence, err := ArgInt(&p.TF, 2)
	if err != nil {
		return -1
	}
	if f.table.SetSJFInfo(pid, burst, confidence) != nil {
		return -1
	}
	return 0
}

// SetQueue moves the pid argument to another scheduling queue.
func (f *Facade) SetQueue(p *proc.Proc) int {
	f.count(p, SysSetQueue)
	pid, err := ArgInt(&p.TF, 0)
	if err != nil {
		return -1
	}
	queue, err := ArgInt(&p.TF, 1)
	if err != nil {
		return -1
	}
	if f.table.SetQueue(pid, queue) != nil {
		return -1
	}
	return 0
}

// ReportAllProcesses prints the scheduling view of the whole table.
func (f *Facade) ReportAllProcesses(p *proc.Proc) int {
	f.count(p, SysReportAllProcesses)
	f.table.ReportAll()
	return 0
}

// ReportSyscallsCount returns the total syscalls invoked on all CPUs.
func (f *Facade) ReportSyscallsCount(p *proc.Proc) int {
	return f.table.TotalSyscalls()
}

// FibonacciNumber returns the n-th fibonacci number, recursing under the
// reentrant lock at every level; this is the lock's original exerciser.
func (f *Facade) FibonacciNumber(p *proc.Proc) int {
	n, err := ArgInt(&p.TF, 0)
	if err != nil || n < 0 {
		return -1
	}
	return f.fib(p, n)
}

func (f *Facade) fib(p *proc.Proc, n int) int {
	f.fiblk.Acquire(p)
	defer f.fiblk.Release(p)
	if n < 2 {
		return n
	}
	return f.fib(p, n-1) + f.fib(p, n-2)
}
