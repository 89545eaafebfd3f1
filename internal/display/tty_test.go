package display

import (
	"strings"
	"testing"

	"github.com/rv32emu/fe310emu/internal/cpu"
	"github.com/rv32emu/fe310emu/internal/memmap"
	"github.com/rv32emu/fe310emu/internal/monitor"
	"github.com/rv32emu/fe310emu/internal/soc"
)

func encodeI(imm uint32, rs1, funct3, rd, opcode uint32) uint32 {
	return (imm&0xFFF)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// newTTYRig builds a dashboard with a CPU preloaded with an addi
// immediately followed by a jump back to itself, so tick()'s free-run
// path always has somewhere to step without the CPU ever halting on
// its own.
func newTTYRig(t *testing.T) (*TTY, *cpu.CPU, *memmap.Map) {
	t.Helper()
	tty, err := New(&strings.Builder{}, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { tty.Close() })

	m := memmap.NewMap(nil)
	ram := soc.NewRAM("RAM", cpu.ResetPC, 0x1000, "", nil)
	if err := m.Install(ram); err != nil {
		t.Fatalf("install ram: %v", err)
	}
	for i, instr := range []uint32{
		encodeI(1, 1, 0b000, 1, 0b0010011), // addi x1,x1,1
		encodeI(0, 0, 0b000, 0, 0b1101111), // jal x0,0 (spins in place)
	} {
		if err := ram.Set(uint32(i)*4, 0xF, instr); err != nil {
			t.Fatalf("preload: %v", err)
		}
	}
	fe := memmap.NewFrontEnd(m, nil)
	c, err := cpu.New(fe, tty, nil)
	if err != nil {
		t.Fatalf("cpu.New: %v", err)
	}
	tty.SetCPU(c)
	return tty, c, m
}

func TestHandleKeySingleStepAdvancesOneInstruction(t *testing.T) {
	tty, c, _ := newTTYRig(t)
	tty.handleKey(' ')
	tty.tick()
	if c.PC != cpu.ResetPC+4 {
		t.Fatalf("pc = %#x, want %#x after one single-step tick", c.PC, cpu.ResetPC+4)
	}
	if tty.mode != modeStopped {
		t.Fatalf("mode = %v, want modeStopped after a single step completes", tty.mode)
	}
}

func TestHandleKeyToggleFreeRun(t *testing.T) {
	tty, _, _ := newTTYRig(t)
	tty.handleKey('r')
	if tty.mode != modeFreeRun {
		t.Fatalf("mode = %v, want modeFreeRun after pressing r", tty.mode)
	}
	tty.handleKey('r')
	if tty.mode != modeStopped {
		t.Fatalf("mode = %v, want modeStopped after pressing r again", tty.mode)
	}
}

func TestHandleKeyResetAndQuit(t *testing.T) {
	tty, _, _ := newTTYRig(t)
	tty.handleKey('R')
	if !tty.resetReq {
		t.Fatal("expected R to request a reset")
	}
	tty.tick()
	if tty.resetReq {
		t.Fatal("expected tick to clear the reset request after honoring it")
	}
	tty.handleKey('q')
	if !tty.quitReq {
		t.Fatal("expected q to request quit")
	}
}

func TestHandleKeyTraceToggle(t *testing.T) {
	tty, c, _ := newTTYRig(t)
	want := !tty.traceOn
	tty.handleKey('t')
	if tty.traceOn != want || c.TraceActive != want {
		t.Fatalf("traceOn = %v, TraceActive = %v, want both %v", tty.traceOn, c.TraceActive, want)
	}
}

func TestConsoleKeyEntersAndRunsCommands(t *testing.T) {
	tty, c, m := newTTYRig(t)
	mon := monitor.New(c, m)
	con := monitor.NewConsole(c, m, mon, func(string) {})
	defer con.Close()
	tty.SetConsole(mon, con)

	tty.handleKey('c')
	if !tty.consoleMode {
		t.Fatal("expected c to enter console mode")
	}

	// Console step() is one CPU cycle; the addi retires on the second.
	for _, b := range []byte("step() step()") {
		tty.handleConsoleKey(b)
	}
	tty.handleConsoleKey('\r')
	if c.PC != cpu.ResetPC+4 {
		t.Fatalf("pc = %#x, want %#x after running step() twice through the console key handler", c.PC, cpu.ResetPC+4)
	}
	if !tty.consoleMode {
		t.Fatal("expected console mode to remain active after Enter, awaiting the next command")
	}

	tty.handleConsoleKey(27) // Esc
	if tty.consoleMode {
		t.Fatal("expected Esc to leave console mode")
	}
}

func TestConsoleKeyBackspaceEditsBuffer(t *testing.T) {
	tty, c, m := newTTYRig(t)
	mon := monitor.New(c, m)
	con := monitor.NewConsole(c, m, mon, func(string) {})
	defer con.Close()
	tty.SetConsole(mon, con)

	tty.handleKey('c')
	for _, b := range []byte("stepp") {
		tty.handleConsoleKey(b)
	}
	tty.handleConsoleKey(127) // backspace the stray 'p'
	if string(tty.consoleBuf) != "step" {
		t.Fatalf("consoleBuf = %q, want %q", tty.consoleBuf, "step")
	}
}

func TestTickStopsFreeRunOnBreakpoint(t *testing.T) {
	tty, c, m := newTTYRig(t)
	mon := monitor.New(c, m)
	if _, err := mon.SetBreakpoint(cpu.ResetPC+4, ""); err != nil {
		t.Fatalf("SetBreakpoint: %v", err)
	}
	con := monitor.NewConsole(c, m, mon, func(string) {})
	defer con.Close()
	tty.SetConsole(mon, con)

	tty.handleKey('r')
	tty.tick()
	if tty.mode != modeStopped {
		t.Fatalf("mode = %v, want modeStopped once the free-run loop hits the breakpoint", tty.mode)
	}
	if c.PC != cpu.ResetPC+4 {
		t.Fatalf("pc = %#x, want %#x at the breakpoint", c.PC, cpu.ResetPC+4)
	}
}

func TestTickFreeRunWithoutConsoleIgnoresBreakpoints(t *testing.T) {
	tty, c, _ := newTTYRig(t)
	tty.handleKey('r')
	tty.tick()
	if tty.mode != modeFreeRun {
		t.Fatalf("mode = %v, want modeFreeRun to keep going with no monitor attached", tty.mode)
	}
	if c.PC == cpu.ResetPC {
		t.Fatal("expected the CPU to have advanced during free-run")
	}
}
