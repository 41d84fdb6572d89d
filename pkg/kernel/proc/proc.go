package proc

import "io"

// Table and arena sizes. NPROC and NOFILE follow the original layout;
// KStackSize is the simulated kernel stack reserved per process.
const (
	NPROC      = 64
	NOFILE     = 16
	NQueue     = 3
	KStackSize = 4096
	PageSize   = 4096
)

// State is the PCB lifecycle state.
type State int

const (
	Unused State = iota
	Embryo
	Sleeping
	Runnable
	Running
	Zombie
)

// stateNames are the fixed-width labels used by process listings.
var stateNames = [...]string{
	Unused:   "unused",
	Embryo:   "embryo",
	Sleeping: "sleep ",
	Runnable: "runble",
	Running:  "run   ",
	Zombie:   "zombie",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "???"
}

// SyscallNames maps syscall number - 1 to its name. Its length fixes the
// size of the per-process invocation counter array.
var SyscallNames = [...]string{
	"fork", "exit", "wait", "pipe", "read", "kill", "exec", "fstat",
	"chdir", "dup", "getpid", "sbrk", "sleep", "uptime", "open", "write",
	"mknod", "unlink", "link", "mkdir", "close", "create_palindrome",
	"move_file", "sort_syscalls", "get_most_invoked_syscall",
	"list_all_processes", "set_sjf_info", "set_queue",
	"report_all_processes",
}

// NSyscall is the number of tracked system calls.
const NSyscall = len(SyscallNames)

// TrapFrame is the slice of the saved user register frame the core cares
// about: the return register and the positional syscall arguments.
type TrapFrame struct {
	AX   int
	Args []int
}

// Program is the body a process executes once dispatched. A forked child
// runs the same body as its parent with TF.AX forced to 0. Returning from
// the body is equivalent to calling Exit.
type Program func(p *Proc)

// AddressSpace is the opaque virtual-memory collaborator. Activate stands
// in for the user page-table switch performed at dispatch.
type AddressSpace interface {
	Size() int
	Grow(n int) (int, error)
	Clone() (AddressSpace, error)
	Activate()
	Free()
}

// MemImage is the simulation-grade AddressSpace: a byte count with a hard
// ceiling, no backing pages.
type MemImage struct {
	size int
}

// MaxMemImage bounds a simulated address space.
const MaxMemImage = 1 << 24

func NewMemImage(size int) *MemImage { return &MemImage{size: size} }

func (m *MemImage) Size() int { return m.size }

func (m *MemImage) Grow(n int) (int, error) {
	sz := m.size + n
	if sz < 0 || sz > MaxMemImage {
		return 0, ErrOutOfMemory
	}
	m.size = sz
	return sz, nil
}

func (m *MemImage) Clone() (AddressSpace, error) {
	return &MemImage{size: m.size}, nil
}

func (m *MemImage) Activate() {}

func (m *MemImage) Free() { m.size = 0 }

// Proc is one process control block. Every field except TF is guarded by
// the table lock; TF is only touched by the owning process and fork.
type Proc struct {
	t      *Table
	idx    int
	state  State
	pid    int
	parent int // slot index, -1 for none
	name   string
	killed bool

	waitChan any
	space    AddressSpace
	kstack   []byte
	ofile    [NOFILE]io.Closer
	cwd      io.Closer

	sc [NSyscall]int

	queue           int
	waitTime        int
	burstTime       int
	confidence      int
	consecutiveRuns int
	arrival         uint64

	// TF is the saved register frame consumed by the syscall facade.
	TF TrapFrame

	program Program
	cpu     *CPU
	started bool
	toProc  chan struct{}
	toSched chan struct{}
}

// PID returns the process identifier, 0 for a free slot.
func (p *Proc) PID() int { return p.pid }

// Name returns the debugging name.
func (p *Proc) Name() string { return p.name }

// State returns the lifecycle state at the time of the call.
func (p *Proc) State() State { return p.state }

// Queue returns the scheduling queue the process is on.
func (p *Proc) Queue() int { return p.queue }

// Killed reports whether Kill has marked this process.
func (p *Proc) Killed() bool { return p.killed }

// CPU returns the CPU the process was last dispatched on.
func (p *Proc) CPU() *CPU { return p.cpu }

// Space returns the process address space.
func (p *Proc) Space() AddressSpace { return p.space }

// SetFile installs an open-file reference; the core treats it as opaque
// and only closes it on exit.
func (p *Proc) SetFile(fd int, f io.Closer) {
	if fd >= 0 && fd < NOFILE {
		p.ofile[fd] = f
	}
}

// SetCwd installs the current-directory reference.
func (p *Proc) SetCwd(c io.Closer) { p.cwd = c }
