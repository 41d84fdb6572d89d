package sys

import "errors"

var (
	// ErrBadArg means a positional argument was missing from the frame.
	ErrBadArg = errors.New("sys: bad argument")

	// ErrBadSyscall means the syscall number has no handler.
	ErrBadSyscall = errors.New("sys: unknown syscall")
)
