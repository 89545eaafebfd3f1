// tty.go - the terminal front end: wires a CPU and its UART into the
// four-pane ANSI dashboard, drives free-run/single-step/reset from
// single keystrokes, and mirrors every log line to events.log.

package display

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rv32emu/fe310emu/internal/cpu"
	"github.com/rv32emu/fe310emu/internal/monitor"
)

// runMode mirrors the reference's three-valued run state: stopped,
// single-step-then-stop (legacy "run=1" from a space press), and
// free-run ("run=2" from toggling 'r').
type runMode int

const (
	modeStopped runMode = iota
	modeSingleStep
	modeFreeRun
)

type cpuAdapter struct{ c *cpu.CPU }

func (a cpuAdapter) Reg(i int) uint32 { return a.c.Reg(i) }
func (a cpuAdapter) PC() uint32       { return a.c.PC }

// TTY is the terminal dashboard: owns the render loop, the keystroke
// reader, and the scrolling panes. Construct with New, call Run to take
// over the terminal until the user quits (a CPU halt stops execution
// but leaves the dashboard running).
type TTY struct {
	cpu  *cpu.CPU
	out  io.Writer
	logf *os.File

	mu    sync.Mutex
	log   *lineRing
	trace *lineRing
	uart  *uartPane

	mode      runMode
	traceOn   bool
	resetReq  bool
	quitReq   bool
	keyReader keyReader

	mon         *monitor.Monitor
	console     *monitor.Console
	consoleMode bool
	consoleBuf  []byte
}

// New builds a dashboard writing ANSI output to out (normally
// os.Stdout) and appending one line per log event to events.log in
// dir. The CPU it drives is attached afterward via SetCPU — TTY itself
// is built first so it can serve as the SoC's logger/UART sink while
// the CPU and memory map are still being constructed around it.
func New(out io.Writer, dir string) (*TTY, error) {
	f, err := os.Create(joinPath(dir, "events.log"))
	if err != nil {
		return nil, fmt.Errorf("display: open events.log: %w", err)
	}
	t := &TTY{
		out:     out,
		logf:    f,
		log:     newLineRing(nLog),
		trace:   newLineRing(nTrace),
		uart:    newUARTPane(),
		traceOn: true,
	}
	return t, nil
}

// SetCPU attaches the CPU the dashboard drives. Must be called before Run.
func (t *TTY) SetCPU(c *cpu.CPU) { t.cpu = c }

// SetConsole attaches the breakpoint monitor and scripting console the
// 'c' key drives. Optional — a dashboard with neither set simply has no
// console key and never checks breakpoints during free-run.
func (t *TTY) SetConsole(mon *monitor.Monitor, con *monitor.Console) {
	t.mon = mon
	t.console = con
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + string(os.PathSeparator) + name
}

// Logf implements memmap.Logger / loader.Logger / soc loggers: one line
// goes to events.log and feeds the scrolling log pane.
func (t *TTY) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	t.mu.Lock()
	t.log.push(line)
	t.mu.Unlock()
	fmt.Fprintln(t.logf, line)
}

// Trace implements cpu.TraceSink.
func (t *TTY) Trace(line string) {
	t.mu.Lock()
	t.trace.push(line)
	t.mu.Unlock()
}

// WriteByte implements soc.Sink: bytes transmitted by the guest land in
// the UART pane.
func (t *TTY) WriteByte(b byte) {
	t.mu.Lock()
	t.uart.Write(b)
	t.mu.Unlock()
}

// Close closes events.log.
func (t *TTY) Close() error { return t.logf.Close() }

// Run drives the dashboard: raw-mode keystrokes control single-step,
// free-run, trace toggling, reset, and quit, while a fixed-rate ticker
// redraws the four panes. Blocks until the user quits.
func (t *TTY) Run() error {
	if err := checkTerminalSize(); err != nil {
		return err
	}

	kr, err := newKeyReader()
	if err != nil {
		return err
	}
	t.keyReader = kr
	defer kr.Close()

	resizeStop := make(chan struct{})
	defer close(resizeStop)
	go watchResize(resizeStop, func(err error) { t.Logf("%v", err) })

	render(t.out, cpuAdapter{t.cpu}, t.cpu.CSR[cpu.CSRRDCycle], t.log, t.trace, t.uart)

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case b := <-kr.C():
			t.handleKey(b)
		case <-ticker.C:
			t.tick()
		}
		if t.quitReq {
			return nil
		}
	}
}

func (t *TTY) handleKey(b byte) {
	if t.consoleMode {
		t.handleConsoleKey(b)
		return
	}
	switch b {
	case 'R':
		t.resetReq = true
	case 'r':
		if t.mode == modeFreeRun {
			t.mode = modeStopped
		} else {
			t.mode = modeFreeRun
		}
	case 't':
		t.traceOn = !t.traceOn
		t.cpu.TraceActive = t.traceOn
	case 'q':
		t.quitReq = true
	case ' ':
		t.mode = modeSingleStep
	case 'c':
		if t.console != nil {
			t.consoleMode = true
			t.consoleBuf = t.consoleBuf[:0]
			t.Logf("console: type a Lua command, Enter to run, Esc to exit")
		}
	}
}

// handleConsoleKey accumulates keystrokes into a line buffer while the
// console is active, running the line through the Lua console on
// Enter and leaving console mode on Esc — the raw-mode keyReader hands
// us one byte at a time, so the dashboard does its own minimal line
// editing instead of reading through a buffered terminal line discipline.
func (t *TTY) handleConsoleKey(b byte) {
	switch b {
	case 27: // Esc
		t.consoleMode = false
		t.consoleBuf = t.consoleBuf[:0]
	case '\r', '\n':
		line := string(t.consoleBuf)
		t.consoleBuf = t.consoleBuf[:0]
		if line != "" {
			t.console.Exec(line)
		}
	case 127, 8: // Backspace/Delete
		if len(t.consoleBuf) > 0 {
			t.consoleBuf = t.consoleBuf[:len(t.consoleBuf)-1]
		}
	default:
		t.consoleBuf = append(t.consoleBuf, b)
	}
}

func (t *TTY) tick() {
	if t.resetReq {
		t.cpu.Reset()
		t.resetReq = false
	}

	switch t.mode {
	case modeSingleStep:
		// One instruction spans several cycles (fetch request, fetch
		// retire plus execute, any load/store stall), so step until the
		// PC moves or the CPU halts. An instruction that jumps to its own
		// address never moves the PC and ends after 32 cycles.
		start := t.cpu.PC
		for i := 0; i < 32 && t.cpu.PC == start; i++ {
			if !t.cpu.Step() {
				break
			}
		}
		t.mode = modeStopped
	case modeFreeRun:
		for i := 0; i < 2000 && t.mode == modeFreeRun; i++ {
			if !t.cpu.Step() {
				t.mode = modeStopped
				break
			}
			if t.mon != nil {
				if bp, ok := t.mon.CheckBreakpoint(); ok {
					t.mode = modeStopped
					t.Logf("breakpoint hit at %#08x (cond %q, hit #%d)", bp.Addr, monitor.FormatCondition(bp.Cond), bp.HitCount)
					break
				}
			}
		}
	}

	render(t.out, cpuAdapter{t.cpu}, t.cpu.CSR[cpu.CSRRDCycle], t.log, t.trace, t.uart)
}

func render(w io.Writer, regs RegisterSource, cycle uint32, log, trace *lineRing, uart *uartPane) {
	renderRegisters(w, regs)
	renderLog(w, log)
	renderTrace(w, uint64(cycle), trace)
	renderUART(w, uart)
}
