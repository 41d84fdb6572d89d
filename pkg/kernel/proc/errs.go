package proc

import "errors"

var (
	// ErrNoFreeSlot indicates that every PCB slot is in use.
	ErrNoFreeSlot = errors.New("proc: no free slot")

	// ErrOutOfMemory indicates an address-space grow or clone failure.
	// The slot involved is rolled back to UNUSED before this is returned.
	ErrOutOfMemory = errors.New("proc: out of memory")

	// ErrNoChildren means Wait was called by a process with no children.
	ErrNoChildren = errors.New("proc: no children")

	// ErrNoSuchProcess means a pid lookup found no matching PCB.
	ErrNoSuchProcess = errors.New("proc: no such process")

	// ErrKilled is returned from blocking operations when the caller was
	// killed while suspended.
	ErrKilled = errors.New("proc: killed")

	// ErrBadPID means a caller passed a non-positive pid.
	ErrBadPID = errors.New("proc: invalid pid")

	// ErrBadQueue means a queue number outside {0, 1, 2}.
	ErrBadQueue = errors.New("proc: invalid queue")

	// ErrSameQueue means SetQueue targeted the queue the process is
	// already on.
	ErrSameQueue = errors.New("proc: already on queue")

	// ErrNoProcesses means a listing found no live slot to report.
	ErrNoProcesses = errors.New("proc: no processes")
)
