// Package console implements the shared interrupt-driven console: the
// editable input line, its history ring, the inline expression evaluator,
// and the screen/serial output path.
//
// Overview
//
//   - Input:
//     Keystrokes arrive one at a time through a pluggable getc producer
//     (Intr). The line being edited lives in a circular buffer with three
//     indices r ≤ w ≤ e: [r,w) is committed to readers, [w,e) is the open
//     line. A non-positive cursor offset (arrow) addresses in-line edits;
//     left/right arrows move it, printables insert at it, backspace
//     deletes before it.
//
//   - History:
//     Every consumed line is pushed onto a ring of NHistory entries.
//     Up/Down arrows browse the ring, saving the in-progress line at the
//     head so browsing away and back is lossless. The "history" command
//     prints the ring in reverse chronological order.
//
//   - Expressions:
//     A small DFA scans the line after every keystroke for INT OP INT =?
//     and splices the computed result over the match in place. Control-S
//     enters a modal sub-editor in which the same evaluation runs but is
//     transparent: Control-F restores the outer line and replays only the
//     keystrokes that were not consumed by an evaluated expression.
//
//   - Output:
//     Write and Printf forward bytes to both the CGA screen model (25×80
//     cells, hardware cursor programmed through the CRT index/data ports,
//     scrolling at the last row) and the UART writer. Printf understands
//     exactly %d, %x, %p, %s and %%.
//
//   - Blocking reads:
//     Read sleeps on the input channel until a line is committed, returns
//     at most one line, and honors ^D end-of-file by returning a zero
//     count on the following call. A reader killed while asleep gets
//     proc.ErrKilled.
//
// The console owns one spinlock covering the buffer, the history ring,
// the cursor state and the whole interrupt handler; it is released around
// sleeps per the table's sleep protocol, and Panic drops it permanently
// so a dying system can still emit its last words.
//
// Package import path: github.com/babakhm83/UT-OS/pkg/kernel/console
package console
