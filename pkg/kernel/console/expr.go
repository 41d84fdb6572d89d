package console

import "strconv"

// exprMatch describes one recognized INT OP INT =? occurrence and its
// formatted result.
type exprMatch struct {
	result []byte
	start  int // buffer index of the first digit
	size   int // length of the matched text, "=?" included
}

// findExpression scans the edit buffer for the first INT OP INT =?
// pattern. The recognizer is a five-state DFA over digits, the four
// operators, '=' and '?'; any other byte resets it.
func (c *Console) findExpression() (exprMatch, bool) {
	var num1Start, num1End, num2End int
	s := 0
	for i := 0; i < InputBuf; i++ {
		ch := c.input.buf[i]
		if ch == 0 {
			break
		}
		digit := ch >= '0' && ch <= '9'
		op := ch == '+' || ch == '-' || ch == '*' || ch == '/'

		switch s {
		case 0:
			if digit {
				num1Start, num1End = i, i
				s = 1
			}
		case 1:
			switch {
			case digit:
				num1End = i
			case op:
				s = 2
			default:
				s = 0
			}
		case 2:
			if digit {
				num2End = i
				s = 3
			} else {
				s = 0
			}
		case 3:
			switch {
			case digit:
				num2End = i
			case ch == '=':
				s = 4
			default:
				s = 0
			}
		case 4:
			if ch == '?' {
				return c.solveExpression(num1Start, num1End, num2End)
			}
			s = 0
		}
	}
	return exprMatch{}, false
}

// solveExpression evaluates the matched operands. Integer arithmetic for
// + - *, one decimal place for /. Division by zero leaves the text alone.
func (c *Console) solveExpression(num1Start, num1End, num2End int) (exprMatch, bool) {
	num1 := atoiRange(&c.input, num1Start, num1End)
	num2 := atoiRange(&c.input, num1End+2, num2End)
	op := c.input.buf[num1End+1]

	m := exprMatch{
		start: num1Start,
		size:  num2End - num1Start + 3, // operands, operator, "=?"
	}
	switch op {
	case '+':
		m.result = []byte(strconv.Itoa(num1 + num2))
	case '-':
		m.result = []byte(strconv.Itoa(num1 - num2))
	case '*':
		m.result = []byte(strconv.Itoa(num1 * num2))
	case '/':
		if num2 == 0 {
			return exprMatch{}, false
		}
		m.result = formatFixed1(float32(num1) / float32(num2))
	}
	return m, true
}

func atoiRange(b *lineBuffer, from, to int) int {
	n := 0
	for i := from; i <= to; i++ {
		n = n*10 + int(b.buf[i]-'0')
	}
	return n
}

// formatFixed1 renders r with exactly one decimal place, truncating
// toward zero.
func formatFixed1(r float32) []byte {
	t := int(r * 10)
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	return []byte(sign + strconv.Itoa(t/10) + "." + strconv.Itoa(t%10))
}

// exprPass rewrites the first recognized expression in place with its
// result, repaints the shortened line and parks the cursor right after
// the spliced text. In the ^S sub-editor it also retires the insertion
// marks the evaluated text carried.
func (c *Console) exprPass(inMode bool) {
	m, ok := c.findExpression()
	if !ok {
		return
	}

	prevE := c.input.e
	initCursor := c.screen.getCursor()
	lineStart := initCursor - c.arrow - prevE

	for i := m.start; i < m.start+m.size; i++ {
		c.input.buf[mod(i, InputBuf)] = 0
	}
	for i, b := range m.result {
		c.input.buf[mod(m.start+i, InputBuf)] = b
	}
	shiftCount := m.size - len(m.result)
	changeIdx := m.start + m.size
	for i := 0; i < shiftCount; i++ {
		c.shiftBuf(false, changeIdx-i)
	}
	c.arrow = m.start + len(m.result) - c.input.e

	// Park the cursor past the old text so clearCmd erases the full line.
	c.screen.setCursor(lineStart+m.start+m.size, 0)
	c.clearCmd(prevE)
	c.writeFromBuffer()
	c.screen.setCursor(lineStart+m.start+len(m.result), 0)

	if inMode {
		// The expression's keystrokes are spent; marks beyond it slide
		// left with their bytes.
		var shifted [InputBuf]bool
		copy(shifted[:m.start], c.inserted[:m.start])
		for i := m.start + m.size; i < InputBuf; i++ {
			if j := i - shiftCount; j < InputBuf {
				shifted[j] = c.inserted[i]
			}
		}
		c.inserted = shifted
	}
}

// enterExprMode starts the ^S sub-editor: snapshot the outer line and
// begin tracking which bytes the mode inserts.
func (c *Console) enterExprMode() {
	c.mode = modeExpr
	c.inserted = [InputBuf]bool{}
	c.snap.input = c.input
	c.snap.arrow = c.arrow
}

// exprModeKey dispatches one keystroke inside the ^S sub-editor. Editing
// works as outside, with every insertion marked; the expression pass runs
// after each edit so results appear as they are completed.
func (c *Console) exprModeKey(ch int) {
	switch {
	case ch == Ctrl('F'):
		c.exitExprMode()
		return
	case ch == KeyUp || ch == KeyDown || ch == Ctrl('S'):
		return
	case ch == KeyLeft || ch == KeyRight:
		c.arrowKey(ch)
	case ch == Ctrl('H') || ch == 0x7F || ch == asciiBackspace:
		if c.arrow == 0 {
			if c.input.e != c.input.w {
				c.input.e--
				c.input.buf[mod(c.input.e, InputBuf)] = 0
				c.putc(Backspace)
				c.inserted[mod(c.input.e, InputBuf)] = false
			}
		} else {
			before := c.input.e
			c.inputInMid(Backspace)
			if c.input.e < before {
				for i := c.input.e + c.arrow; i >= 0 && i < InputBuf-1; i++ {
					c.inserted[i] = c.inserted[i+1]
				}
				c.inserted[InputBuf-1] = false
			}
		}
	default:
		if ch > 0 && c.input.e-c.input.r < InputBuf {
			if ch == '\r' {
				ch = '\n'
			}
			if c.arrow == 0 {
				c.inserted[mod(c.input.e, InputBuf)] = true
				c.input.buf[mod(c.input.e, InputBuf)] = byte(ch)
				c.input.e++
				c.putc(ch)
			} else {
				c.inputInMid(ch)
				for i := InputBuf - 1; i > c.input.e+c.arrow-1 && i > 0; i-- {
					c.inserted[i] = c.inserted[i-1]
				}
				if idx := c.input.e + c.arrow - 1; idx >= 0 && idx < InputBuf {
					c.inserted[idx] = true
				}
			}
		}
	}
	c.exprPass(true)
}

// exitExprMode leaves the sub-editor transparently: the outer line is
// restored and only the mode's keystrokes that were not consumed by an
// evaluated expression are replayed at the outer cursor.
func (c *Console) exitExprMode() {
	var survivors []byte
	for i := 0; i < InputBuf; i++ {
		if c.inserted[i] && c.input.buf[i] != 0 {
			survivors = append(survivors, c.input.buf[i])
		}
	}

	c.clearCmd(c.input.e)

	c.input = c.snap.input
	c.arrow = c.snap.arrow

	changeIdx := c.input.e + c.arrow
	for _, b := range survivors {
		c.updateBuffer(int(b), changeIdx)
		changeIdx++
	}

	c.writeFromBuffer()
	c.screen.setCursor(c.screen.getCursor()+c.arrow, 0)

	c.mode = modeNormal
	c.inserted = [InputBuf]bool{}
}
