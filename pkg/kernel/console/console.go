package console

import (
	"io"

	"github.com/babakhm83/UT-OS/pkg/kernel/proc"
)

// InputBuf is the line buffer capacity; NHistory the history ring size.
const (
	InputBuf = 128
	NHistory = 11
)

// Backspace is the internal erase token emitted toward the output path.
const Backspace = 0x100

// Arrow keys as delivered by the keyboard wire.
const (
	KeyUp    = 0xE2
	KeyDown  = 0xE3
	KeyLeft  = 0xE4
	KeyRight = 0xE5
)

const asciiBackspace = 8

// Ctrl maps a letter to its control code ('S' → 0x13).
func Ctrl(r byte) int { return int(r - '@') }

// Editor modes. ExprMode is the ^S..^F sub-editor.
const (
	modeNormal = iota
	modeExpr
)

// lineBuffer is the circular input buffer: [r,w) is committed to readers,
// [w,e) is the line being edited. Value assignment copies the whole
// buffer, which is what the history ring relies on.
type lineBuffer struct {
	buf     [InputBuf]byte
	r, w, e int
}

// Console is the single shared console device.
type Console struct {
	lock    *proc.SpinLock
	locking bool

	panicked bool

	screen *Screen
	uart   io.Writer
	table  *proc.Table
	dump   func()

	input          lineBuffer
	history        [NHistory]lineBuffer
	currentHistory int
	lastHistory    int
	arrow          int

	mode     int
	inserted [InputBuf]bool
	snap     struct {
		input lineBuffer
		arrow int
	}

	// readSig is the sleep channel identity for blocked readers.
	readSig *int
}

// New wires a console over the given screen and UART, bound to the
// process table for sleep/wakeup and kill observation.
func New(t *proc.Table, screen *Screen, uart io.Writer) *Console {
	return &Console{
		lock:    proc.NewSpinLock("console"),
		locking: true,
		screen:  screen,
		uart:    uart,
		table:   t,
		readSig: new(int),
	}
}

// SetDumper installs the process-listing callback run on ^P.
func (c *Console) SetDumper(f func()) { c.dump = f }

// Screen returns the CGA model, mainly for inspection.
func (c *Console) Screen() *Screen { return c.screen }

func mod(a, n int) int { return (a%n + n) % n }

// putc pushes one byte to both sinks. Output freezes once the system has
// panicked.
func (c *Console) putc(ch int) {
	if c.panicked {
		return
	}
	if ch == Backspace {
		io.WriteString(c.uart, "\b \b")
	} else {
		c.uart.Write([]byte{byte(ch)})
	}
	c.screen.putc(ch)
}

// writeFromBuffer redraws the current line from the start of the buffer,
// stopping at the first newline or NUL, and resets the committed region.
func (c *Console) writeFromBuffer() {
	for i := 0; i < InputBuf; i++ {
		if c.input.buf[i] == '\n' || c.input.buf[i] == 0 {
			break
		}
		c.putc(int(c.input.buf[i]))
	}
	c.input.w = 0
	c.input.r = 0
}

// clearCmd erases the displayed line back to its start: reposition the
// cursor past any in-line offset, then rub out end-w cells.
func (c *Console) clearCmd(end int) {
	pos := c.screen.getCursor()
	c.screen.setCursor(pos-c.arrow, 0)
	for i := 0; i < end-c.input.w; i++ {
		c.putc(Backspace)
	}
}

// shiftBuf opens (right) or closes (left) a one-byte gap at idx,
// adjusting the edit index.
func (c *Console) shiftBuf(right bool, idx int) {
	if right {
		for i := c.input.e; i > idx; i-- {
			c.input.buf[mod(i, InputBuf)] = c.input.buf[mod(i-1, InputBuf)]
		}
		c.input.e++
	} else {
		for i := idx - 1; i < c.input.e; i++ {
			c.input.buf[mod(i, InputBuf)] = c.input.buf[mod(i+1, InputBuf)]
		}
		c.input.e--
	}
}

// updateBuffer applies one edit at idx: backspace closes the gap, any
// other byte is inserted. Non-positive bytes are ignored.
func (c *Console) updateBuffer(ch, idx int) {
	if ch <= 0 {
		return
	}
	if ch == Backspace || ch == asciiBackspace {
		c.shiftBuf(false, idx)
	} else {
		c.shiftBuf(true, idx)
		c.input.buf[mod(idx, InputBuf)] = byte(ch)
	}
}

// inputInMid applies an edit at the cursor offset inside the line and
// repaints the suffix.
func (c *Console) inputInMid(ch int) {
	pos := c.screen.getCursor()
	changeIdx := c.input.e + c.arrow
	if ch == Backspace || ch == asciiBackspace {
		if c.arrow <= -(c.input.e - c.input.w) { // nothing left of the cursor
			return
		}
		c.updateBuffer(ch, changeIdx)
		c.clearCmd(c.input.e + 1)
		c.writeFromBuffer()
		c.screen.setCursor(pos-1, 0)
	} else {
		c.updateBuffer(ch, changeIdx)
		c.clearCmd(c.input.e - 1)
		c.writeFromBuffer()
		c.screen.setCursor(pos+1, 0)
	}
}

// arrowKey handles cursor motion and history browsing.
func (c *Console) arrowKey(ch int) {
	pos := c.screen.getCursor()
	switch ch {
	case KeyLeft:
		if -c.arrow < c.input.e-c.input.w {
			pos--
			c.arrow--
			c.screen.setCursor(pos, 0)
		}
	case KeyRight:
		if c.arrow != 0 {
			pos++
			c.arrow++
			c.screen.setCursor(pos, 0)
		}
	default:
		c.browseHistory(ch)
	}
}

// Intr is the keyboard interrupt handler: drain the producer, dispatch
// each keystroke by the current mode, and run the expression pass.
func (c *Console) Intr(getc func() int) {
	doDump := false
	c.lock.Acquire(nil)
	for {
		ch := getc()
		if ch < 0 {
			break
		}

		if c.mode == modeExpr {
			c.exprModeKey(ch)
			continue
		}

		switch ch {
		case Ctrl('P'): // Process listing; deferred past the lock.
			doDump = true
		case Ctrl('U'): // Kill line.
			for c.input.e != c.input.w &&
				c.input.buf[mod(c.input.e-1, InputBuf)] != '\n' {
				c.input.e--
				c.putc(Backspace)
			}
		case Ctrl('H'), 0x7F: // Backspace
			if c.input.e != c.input.w {
				if c.arrow == 0 {
					c.input.e--
					c.input.buf[mod(c.input.e, InputBuf)] = 0
					c.putc(Backspace)
				} else {
					c.inputInMid(Backspace)
				}
			}
		case KeyLeft, KeyRight, KeyUp, KeyDown:
			c.arrowKey(ch)
		case Ctrl('S'):
			c.enterExprMode()
		default:
			if ch != 0 && c.input.e-c.input.r < InputBuf {
				if ch == '\r' {
					ch = '\n'
				}
				if ch == '\n' {
					c.arrow = 0
				}
				if c.arrow == 0 {
					c.input.buf[mod(c.input.e, InputBuf)] = byte(ch)
					c.input.e++
					c.putc(ch)
				} else {
					c.inputInMid(ch)
				}
				if ch == '\n' || ch == Ctrl('D') || c.input.e == c.input.r+InputBuf {
					c.input.w = c.input.e
					c.table.Wakeup(c.readSig)
					c.handleCustomCommands()
				}
			}
		}

		c.exprPass(false)
	}
	c.lock.Release()
	if doDump && c.dump != nil {
		c.dump() // without cons.lock held
	}
}

// Read blocks until input is committed and copies out at most one line.
// ^D stops the copy; if bytes were already delivered it is left in place
// so the next call returns 0. A killed reader fails with proc.ErrKilled.
func (c *Console) Read(cur *proc.Proc, dst []byte) (int, error) {
	target := len(dst)
	n := len(dst)

	c.lock.Acquire(cur.CPU())
	for n > 0 {
		for c.input.r == c.input.w {
			if cur.Killed() {
				c.lock.Release()
				return 0, proc.ErrKilled
			}
			c.table.Sleep(cur, c.readSig, c.lock)
		}
		ch := c.input.buf[mod(c.input.r, InputBuf)]
		c.input.r++
		if int(ch) == Ctrl('D') { // EOF
			if n < target {
				// Save ^D for next time, so the caller gets a 0-byte
				// result then.
				c.input.r--
			}
			break
		}
		dst[target-n] = ch
		n--
		if ch == '\n' {
			c.history[mod(c.lastHistory, NHistory)] = c.input
			c.lastHistory++
			c.currentHistory = c.lastHistory
			c.input = lineBuffer{}
			break
		}
	}
	c.lock.Release()

	return target - n, nil
}

// Write forwards every byte to the screen and the UART.
func (c *Console) Write(cur *proc.Proc, b []byte) (int, error) {
	var cpu *proc.CPU
	if cur != nil {
		cpu = cur.CPU()
	}
	c.lock.Acquire(cpu)
	for _, ch := range b {
		c.putc(int(ch))
	}
	c.lock.Release()
	return len(b), nil
}

// handleCustomCommands intercepts console-resident commands on commit.
func (c *Console) handleCustomCommands() {
	if c.lineIs("history\n") {
		c.historyCommand()
		c.input.e = 0
		c.input.w = 0
		c.input.r = 0
	}
}

// lineIs reports whether the just-committed line equals target.
func (c *Console) lineIs(target string) bool {
	start := c.input.e - len(target)
	if start < 0 {
		return false
	}
	if start > 0 && c.input.buf[mod(start-1, InputBuf)] != '\n' {
		return false
	}
	for i := 0; i < len(target); i++ {
		if c.input.buf[mod(start+i, InputBuf)] != target[i] {
			return false
		}
	}
	return true
}

// Panic reports a fatal kernel error: console locking is abandoned, the
// message printed, further output frozen, and the failure propagated.
func (c *Console) Panic(msg string) {
	c.locking = false
	c.Printf("panic: %s\n", msg)
	c.panicked = true // freeze console output
	panic(msg)
}
