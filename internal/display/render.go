// render.go - ANSI cursor-addressed rendering of the four panes, at the
// exact row/column coordinates of the reference ncurses layout. No
// curses library is used: plain cursor-position escapes onto a raw-mode
// terminal cover the same ground with one fewer native dependency, the
// way the corpus favours x/term raw mode over a full TUI framework.
package display

import (
	"fmt"
	"io"
)

// moveTo emits the ANSI cursor-position escape for 0-indexed row/col.
func moveTo(w io.Writer, row, col int) {
	fmt.Fprintf(w, "\x1b[%d;%dH", row+1, col+1)
}

func clearToEOL(w io.Writer) {
	fmt.Fprint(w, "\x1b[K")
}

// RegisterSource supplies the values the register pane displays.
type RegisterSource interface {
	Reg(i int) uint32
	PC() uint32
}

func renderRegisters(w io.Writer, regs RegisterSource) {
	moveTo(w, 0, 0)
	fmt.Fprint(w, "Registers:")
	for i := 0; i < 16; i++ {
		moveTo(w, 1+i, 0)
		fmt.Fprintf(w, "r%02d %08X r%02d %08X", i, regs.Reg(i), i+16, regs.Reg(i+16))
		clearToEOL(w)
	}
	moveTo(w, 17, 0)
	fmt.Fprintf(w, "       pc %08X       ", regs.PC())
	clearToEOL(w)
}

func renderTrace(w io.Writer, cycle uint64, ring *lineRing) {
	moveTo(w, 0, 28)
	fmt.Fprintf(w, "Trace:                     Cycle: %6d", cycle)
	clearToEOL(w)
	lines := ring.tail(traceShow)
	for i, line := range lines {
		moveTo(w, 1+i, 28)
		fmt.Fprintf(w, "%-*s", traceWidth, line)
	}
}

func renderLog(w io.Writer, ring *lineRing) {
	moveTo(w, 18, 0)
	fmt.Fprint(w, "Log:")
	clearToEOL(w)
	lines := ring.tail(logShow)
	for i, line := range lines {
		moveTo(w, 19+i, 0)
		fmt.Fprintf(w, "%-80s", line)
	}
}

func renderUART(w io.Writer, pane *uartPane) {
	moveTo(w, 25, 0)
	fmt.Fprint(w, "UART data:")
	clearToEOL(w)
	for i, line := range pane.Lines() {
		moveTo(w, 26+i, 0)
		fmt.Fprint(w, line)
	}
}
