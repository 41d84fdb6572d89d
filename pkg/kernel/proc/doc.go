// Package proc implements the process table and the per-CPU scheduler core
// of the simulated kernel.
//
// Overview
//
//   - Table:
//     A fixed arena of NPROC process control blocks guarded by one spinlock.
//     All state transitions (UNUSED → EMBRYO → RUNNABLE/SLEEPING/RUNNING →
//     ZOMBIE → UNUSED) happen under that lock, as do sleep, wakeup, kill,
//     wait and every queue-field mutation the scheduler reads.
//
//   - Scheduler:
//     One Run loop per CPU over three fixed priority queues:
//
//   - queue 0, Round-Robin: affinity toward the CPU's last pid, a per-process
//     cap of Config.RRCap consecutive quanta, then a linear cursor.
//
//   - queue 1, Stochastic SJF: minimum declared burst wins; ties are drawn
//     with probability confidence/100 from a table-wide LCG.
//
//   - queue 2, FCFS: minimum arrival tick wins; ties go to the lowest slot.
//
//     A queue level is served for TimeSlice × QueueWeights[queue] quanta
//     before the loop rotates to the next level. Timer-driven aging promotes
//     any process that has waited Config.AgingThreshold ticks while RUNNABLE.
//
//   - Context switch:
//     Each PCB owns a pair of handoff channels standing in for swtch. The
//     table lock is handed across the switch: the scheduler acquires it,
//     dispatches, and the process releases it on its way out to "user mode"
//     (and reacquires it before switching back). sync.Mutex permits the
//     cross-goroutine unlock this protocol needs.
//
//   - Collaborators:
//     The address space (page-table switch, clone, free) is an interface;
//     MemImage is the simulation-grade implementation. Reports print through
//     a Printer, normally backed by the console.
//
//   - Errors (errs.go):
//     ErrNoFreeSlot, ErrOutOfMemory, ErrNoChildren, ErrNoSuchProcess,
//     ErrKilled, ErrBadPID, ErrBadQueue, ErrSameQueue, ErrNoProcesses.
//     Invariant violations (sched without the table lock, sched while
//     RUNNING, unbalanced popcli, ...) panic; there is no recovery tier.
//
// Suspension is possible only in Sleep, which atomically trades the
// caller's lock for the table lock so that a wakeup issued after the
// sleeper reached SLEEPING is never lost. Kill marks the victim and makes
// a sleeper RUNNABLE; the flag is observed at the next kernel boundary
// (Yield, SleepTicks, console reads) and turns into ErrKilled or an exit.
//
// Package import path: github.com/babakhm83/UT-OS/pkg/kernel/proc
package proc
