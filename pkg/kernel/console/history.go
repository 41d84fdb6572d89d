package console

// browseHistory loads the previous (Up) or next (Down) history entry into
// the edit buffer. Moves that would land on an empty slot or run past the
// write head are ignored. When leaving the head, the in-progress line is
// saved there first so browsing is lossless.
func (c *Console) browseHistory(ch int) {
	if ch == KeyUp {
		prev := mod(c.currentHistory-1, NHistory)
		if c.history[prev].buf[0] == 0 || prev == mod(c.lastHistory, NHistory) {
			return
		}
	}
	if ch == KeyDown {
		if mod(c.currentHistory+1, NHistory) == mod(c.lastHistory+1, NHistory) {
			return
		}
	}

	c.input.buf[mod(c.input.e, InputBuf)] = '\n'
	c.clearCmd(c.input.e)
	c.arrow = 0
	c.input.e++
	c.input.w = c.input.e

	if mod(c.currentHistory, NHistory) == mod(c.lastHistory, NHistory) {
		c.history[mod(c.currentHistory, NHistory)] = c.input
	}
	if ch == KeyUp {
		c.currentHistory--
	} else {
		c.currentHistory++
	}
	c.input = c.history[mod(c.currentHistory, NHistory)]
	c.input.e--
	c.writeFromBuffer()
}

// historyCommand prints the saved ring, newest first. The console lock is
// dropped around the printing because Printf takes it itself.
func (c *Console) historyCommand() {
	c.lock.Release()
	c.Printf("Command history:\n")
	c.Printf("-------------------------------------------------------------------------------\n")
	for i := 0; i < NHistory-1; i++ {
		entry := &c.history[mod(c.currentHistory-i-1, NHistory)]
		if entry.buf[0] == 0 {
			break
		}
		c.Printf("*%d: %s", i+1, string(lineBytes(entry)))
	}
	c.Printf("\n$ ")
	c.lock.Acquire(nil)
}

// lineBytes returns the entry's bytes up to and including its newline.
func lineBytes(b *lineBuffer) []byte {
	for i := 0; i < InputBuf; i++ {
		if b.buf[i] == '\n' {
			return b.buf[:i+1]
		}
		if b.buf[i] == 0 {
			return b.buf[:i]
		}
	}
	return b.buf[:]
}
