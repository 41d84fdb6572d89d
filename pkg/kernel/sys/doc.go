// Package sys is the thin syscall facade: it unpacks positional integer
// arguments from the saved trap frame, counts the invocation against the
// calling process, and forwards to the scheduler, console and lock
// subsystems. Only the scheduler-facing subset of the call table is
// implemented; everything else belongs to the out-of-scope collaborators.
//
// Package import path: github.com/babakhm83/UT-OS/pkg/kernel/sys
package sys
