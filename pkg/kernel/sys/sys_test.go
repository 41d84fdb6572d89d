package sys

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babakhm83/UT-OS/pkg/kernel/clock"
	"github.com/babakhm83/UT-OS/pkg/kernel/console"
	"github.com/babakhm83/UT-OS/pkg/kernel/proc"
)

func newFacade(t *testing.T) (*Facade, *proc.Table, *bytes.Buffer) {
	t.Helper()
	tbl := proc.New(clock.New(), proc.DefaultConfig(), 1)
	uart := &bytes.Buffer{}
	cons := console.New(tbl, console.NewScreen(), uart)
	tbl.SetPrinter(cons)
	return New(tbl, cons), tbl, uart
}

func spawn(t *testing.T, tbl *proc.Table, name string) *proc.Proc {
	t.Helper()
	p, err := tbl.Spawn(name, func(p *proc.Proc) {})
	require.NoError(t, err)
	return p
}

func TestArgInt(t *testing.T) {
	tf := &proc.TrapFrame{Args: []int{7, 8}}

	v, err := ArgInt(tf, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = ArgInt(tf, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	_, err = ArgInt(tf, 2)
	assert.ErrorIs(t, err, ErrBadArg)
	_, err = ArgInt(tf, -1)
	assert.ErrorIs(t, err, ErrBadArg)
}

func TestSyscallNumbersMatchNameTable(t *testing.T) {
	assert.Equal(t, proc.NSyscall, SysReportAllProcesses)
	assert.Equal(t, "fork", proc.SyscallNames[SysFork-1])
	assert.Equal(t, "kill", proc.SyscallNames[SysKill-1])
	assert.Equal(t, "set_sjf_info", proc.SyscallNames[SysSetSJFInfo-1])
	assert.Equal(t, "set_queue", proc.SyscallNames[SysSetQueue-1])
	assert.Equal(t, "report_all_processes", proc.SyscallNames[SysReportAllProcesses-1])
}

func TestGetpid_CountsInvocation(t *testing.T) {
	f, tbl, _ := newFacade(t)
	p := spawn(t, tbl, "p")

	assert.Equal(t, p.PID(), f.Getpid(p))
	assert.Equal(t, p.PID(), f.Getpid(p))

	infos := tbl.Snapshot()
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].Syscalls)
	assert.Equal(t, 2, f.ReportSyscallsCount(p))
}

func TestFork_ChildInheritsNameAndIsRunnable(t *testing.T) {
	f, tbl, _ := newFacade(t)
	p := spawn(t, tbl, "parent")
	p.TF.AX = 99

	pid := f.Fork(p)
	require.Greater(t, pid, 0)
	assert.NotEqual(t, p.PID(), pid)

	infos := tbl.Snapshot()
	require.Len(t, infos, 2)
	assert.Equal(t, "parent", infos[1].Name, "child inherits the name")
	assert.Equal(t, proc.Runnable, infos[1].State)
}

func TestKill_ArgDecoding(t *testing.T) {
	f, tbl, _ := newFacade(t)
	p := spawn(t, tbl, "killer")
	victim := spawn(t, tbl, "victim")

	p.TF.Args = nil
	assert.Equal(t, -1, f.Kill(p), "missing argument fails the call")

	p.TF.Args = []int{victim.PID()}
	assert.Equal(t, 0, f.Kill(p))
	assert.True(t, victim.Killed())

	p.TF.Args = []int{12345}
	assert.Equal(t, -1, f.Kill(p))
}

func TestSbrk(t *testing.T) {
	f, tbl, _ := newFacade(t)
	p := spawn(t, tbl, "grower")

	old := p.Space().Size()
	p.TF.Args = []int{64}
	assert.Equal(t, old, f.Sbrk(p), "sbrk returns the old break")
	assert.Equal(t, old+64, p.Space().Size())

	p.TF.Args = []int{-(old + 65)}
	assert.Equal(t, -1, f.Sbrk(p), "shrinking below zero fails")
	assert.Equal(t, old+64, p.Space().Size())
}

func TestSetQueueAndSJFInfo(t *testing.T) {
	f, tbl, _ := newFacade(t)
	caller := spawn(t, tbl, "caller") // pid 1, queue 0
	target := spawn(t, tbl, "target") // pid 2, queue 0

	caller.TF.Args = []int{target.PID(), 1}
	assert.Equal(t, 0, f.SetQueue(caller))
	assert.Equal(t, 1, target.Queue())

	caller.TF.Args = []int{target.PID(), 1}
	assert.Equal(t, -1, f.SetQueue(caller), "same queue fails")

	caller.TF.Args = []int{target.PID(), 3}
	assert.Equal(t, -1, f.SetQueue(caller), "queue 3 is invalid")

	caller.TF.Args = []int{target.PID(), 4, 80}
	assert.Equal(t, 0, f.SetSJFInfo(caller))

	caller.TF.Args = []int{9999, 4, 80}
	assert.Equal(t, -1, f.SetSJFInfo(caller))
}

func TestReportingCalls(t *testing.T) {
	f, tbl, uart := newFacade(t)
	p := spawn(t, tbl, "rep")
	f.Getpid(p)

	p.TF.Args = []int{p.PID()}
	assert.Equal(t, 0, f.SortSyscalls(p))
	assert.Contains(t, uart.String(), "getpid")

	uart.Reset()
	assert.Equal(t, 0, f.GetMostInvoked(p))
	assert.Contains(t, uart.String(), "Most invoked system call")

	uart.Reset()
	assert.Equal(t, 0, f.ListAllProcesses(p))
	assert.Contains(t, uart.String(), "rep (id = 1)")

	uart.Reset()
	assert.Equal(t, 0, f.ReportAllProcesses(p))
	assert.Contains(t, uart.String(), "Name\tPid\tState")

	p.TF.Args = []int{424242}
	assert.Equal(t, -1, f.SortSyscalls(p))
	assert.Equal(t, -1, f.GetMostInvoked(p))
}

func TestCreatePalindrome(t *testing.T) {
	f, tbl, uart := newFacade(t)
	p := spawn(t, tbl, "pal")

	p.TF.Args = []int{69}
	assert.Equal(t, 0, f.CreatePalindrome(p))
	assert.Contains(t, uart.String(), "Palindrome of 69 is: 6996")
}

func TestFibonacciNumber_UnderReentrantLock(t *testing.T) {
	f, tbl, _ := newFacade(t)
	p := spawn(t, tbl, "fib")

	cases := map[int]int{0: 0, 1: 1, 2: 1, 7: 13, 10: 55}
	for n, want := range cases {
		p.TF.Args = []int{n}
		assert.Equal(t, want, f.FibonacciNumber(p), "fib(%d)", n)
	}

	p.TF.Args = []int{-1}
	assert.Equal(t, -1, f.FibonacciNumber(p))
	p.TF.Args = nil
	assert.Equal(t, -1, f.FibonacciNumber(p))
}

func TestUptime(t *testing.T) {
	f, tbl, _ := newFacade(t)
	p := spawn(t, tbl, "up")

	assert.Equal(t, 0, f.Uptime(p))
	tbl.Clock().Advance()
	tbl.Clock().Advance()
	assert.Equal(t, 2, f.Uptime(p))
}

func TestSleep_BadArgument(t *testing.T) {
	f, tbl, _ := newFacade(t)
	p := spawn(t, tbl, "zz")

	p.TF.Args = []int{-5}
	assert.Equal(t, -1, f.Sleep(p))
	p.TF.Args = nil
	assert.Equal(t, -1, f.Sleep(p))
}
