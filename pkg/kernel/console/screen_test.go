package console

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreen_CursorPortProtocol(t *testing.T) {
	s := NewScreen()

	// Program position 0x1234 through the index/data registers.
	s.Outb(crtPort, cursorHigh)
	s.Outb(crtPort+1, 0x12)
	s.Outb(crtPort, cursorLow)
	s.Outb(crtPort+1, 0x34)

	s.Outb(crtPort, cursorHigh)
	hi := s.Inb(crtPort + 1)
	s.Outb(crtPort, cursorLow)
	lo := s.Inb(crtPort + 1)
	assert.Equal(t, byte(0x12), hi)
	assert.Equal(t, byte(0x34), lo)
	assert.Equal(t, 0x1234, s.getCursor())
}

func TestScreen_PutcAdvances(t *testing.T) {
	s := NewScreen()
	s.putc('h')
	s.putc('i')
	assert.Equal(t, "hi", s.Line(0))
	assert.Equal(t, 2, s.Cursor())

	// Attribute byte is light grey on black.
	assert.Equal(t, uint16('h')|0x0700, s.cells[0])
}

func TestScreen_NewlineAdvancesRow(t *testing.T) {
	s := NewScreen()
	s.putc('a')
	s.putc('\n')
	assert.Equal(t, Cols, s.Cursor())
	s.putc('b')
	assert.Equal(t, "a", s.Line(0))
	assert.Equal(t, "b", s.Line(1))
}

func TestScreen_BackspaceStopsAtOrigin(t *testing.T) {
	s := NewScreen()
	s.putc(Backspace)
	assert.Equal(t, 0, s.Cursor())

	s.putc('x')
	s.putc(Backspace)
	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, "", s.Line(0), "the erased cell is blanked")
}

func TestScreen_ScrollAtLastRow(t *testing.T) {
	s := NewScreen()
	for r := 0; r < Rows-1; r++ {
		for _, ch := range "row" + strconv.Itoa(r) {
			s.putc(int(ch))
		}
		s.putc('\n')
	}

	// Writing row 24 scrolled everything up by one.
	assert.Equal(t, "row1", s.Line(0))
	assert.Equal(t, "row23", s.Line(22))
	assert.Equal(t, "", s.Line(23))
	require.Less(t, s.Cursor(), Rows*Cols)
}

func TestScreen_OutOfRangePanics(t *testing.T) {
	s := NewScreen()
	s.setCursor(Rows*Cols+40, 0)
	assert.PanicsWithValue(t, "pos under/overflow", func() { s.putc('x') })
}
