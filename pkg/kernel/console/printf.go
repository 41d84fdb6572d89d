package console

const digits = "0123456789abcdef"

// printInt renders x in the given base, signed or not, straight to the
// output path.
func (c *Console) printInt(x int, base int, sign bool) {
	var buf [16]byte
	u := uint(x)
	if sign && x < 0 {
		u = uint(-x)
	} else {
		sign = false
	}

	i := 0
	for {
		buf[i] = digits[u%uint(base)]
		i++
		u /= uint(base)
		if u == 0 {
			break
		}
	}
	if sign {
		buf[i] = '-'
		i++
	}
	for i--; i >= 0; i-- {
		c.putc(int(buf[i]))
	}
}

// Printf prints to the console. It understands only %d, %x, %p, %s and
// %%; unknown directives are echoed literally to draw attention.
func (c *Console) Printf(format string, args ...any) {
	locking := c.locking
	if locking {
		c.lock.Acquire(nil)
	}

	if format == "" {
		panic("null fmt")
	}

	arg := 0
	next := func() any {
		if arg >= len(args) {
			return nil
		}
		v := args[arg]
		arg++
		return v
	}

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			c.putc(int(ch))
			continue
		}
		i++
		if i >= len(format) {
			break
		}
		switch format[i] {
		case 'd':
			c.printInt(toInt(next()), 10, true)
		case 'x', 'p':
			c.printInt(toInt(next()), 16, false)
		case 's':
			s, _ := next().(string)
			if s == "" {
				s = "(null)"
			}
			for j := 0; j < len(s); j++ {
				c.putc(int(s[j]))
			}
		case '%':
			c.putc('%')
		default:
			// Print unknown % sequence to draw attention.
			c.putc('%')
			c.putc(int(format[i]))
		}
	}

	if locking {
		c.lock.Release()
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint64:
		return int(n)
	case byte:
		return int(n)
	}
	return 0
}
