// breakpoints.go - address and conditional breakpoints layered on top
// of the single-step CPU core, plus the run-until-condition driver used
// by the dashboard's scripting console.

package monitor

import "github.com/rv32emu/fe310emu/internal/cpu"

// Breakpoint is one registered stop condition: a PC address, an
// optional extra condition, and the number of times it has fired.
type Breakpoint struct {
	Addr     uint32
	Cond     *Condition
	HitCount uint64
	Enabled  bool
}

// cpuRegisters adapts *cpu.CPU to RegisterReader: x0..x31 and pc.
type cpuRegisters struct{ c *cpu.CPU }

func (r cpuRegisters) GetRegister(name string) (uint64, bool) {
	if name == "pc" {
		return uint64(r.c.PC), true
	}
	idx, ok := regIndex(name)
	if !ok {
		return 0, false
	}
	return uint64(r.c.Reg(idx)), true
}

func regIndex(name string) (int, bool) {
	if len(name) < 2 || name[0] != 'x' {
		return 0, false
	}
	n := 0
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n < 0 || n > 31 {
		return 0, false
	}
	return n, true
}

// memReader reads one byte directly through the memory map, bypassing
// the front-end's FIFOs — the monitor's view is a peek, not a bus cycle.
type memReader struct{ m MapPeeker }

// MapPeeker is the minimal read surface the monitor needs from the
// memory map, satisfied by *memmap.Map.
type MapPeeker interface {
	Read(addr uint32, width uint32) (uint32, error)
}

func (r memReader) ReadByte(addr uint32) (byte, bool) {
	v, err := r.m.Read(addr, 1)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

// Monitor tracks breakpoints over a CPU/memory pair and drives
// run-until-stop execution for the console's "run" command.
type Monitor struct {
	c   *cpu.CPU
	mem MapPeeker
	bps []*Breakpoint
}

// New builds a monitor over the given CPU and a peek-only view of its
// memory map.
func New(c *cpu.CPU, mem MapPeeker) *Monitor {
	return &Monitor{c: c, mem: mem}
}

// SetBreakpoint registers a breakpoint at addr, optionally gated by a
// condition string (parsed via ParseCondition); empty condition means
// unconditional.
func (m *Monitor) SetBreakpoint(addr uint32, condText string) (*Breakpoint, error) {
	var cond *Condition
	if condText != "" {
		c, err := ParseCondition(condText)
		if err != nil {
			return nil, err
		}
		cond = c
	}
	bp := &Breakpoint{Addr: addr, Cond: cond, Enabled: true}
	m.bps = append(m.bps, bp)
	return bp, nil
}

// ClearBreakpoint removes every breakpoint at addr.
func (m *Monitor) ClearBreakpoint(addr uint32) {
	kept := m.bps[:0]
	for _, bp := range m.bps {
		if bp.Addr != addr {
			kept = append(kept, bp)
		}
	}
	m.bps = kept
}

// Breakpoints returns the registered breakpoints in registration order.
func (m *Monitor) Breakpoints() []*Breakpoint { return m.bps }

// CheckBreakpoint reports whether any enabled breakpoint at the CPU's
// current PC fires right now, incrementing its hit count as a side
// effect. Exported for callers (the TTY dashboard's free-run loop) that
// drive CPU.Step themselves instead of going through Run.
func (m *Monitor) CheckBreakpoint() (*Breakpoint, bool) { return m.hit() }

// hit reports whether any enabled breakpoint at the current PC fires,
// incrementing its hit count as a side effect.
func (m *Monitor) hit() (*Breakpoint, bool) {
	for _, bp := range m.bps {
		if !bp.Enabled || bp.Addr != m.c.PC {
			continue
		}
		bp.HitCount++
		if Evaluate(bp.Cond, cpuRegisters{m.c}, memReader{m.mem}, bp.HitCount) {
			return bp, true
		}
	}
	return nil, false
}

// Run steps the CPU until a breakpoint fires, the CPU halts, or
// maxSteps is exhausted (0 means unbounded). Returns the breakpoint
// that stopped it, or nil if it halted or exhausted the step budget.
func (m *Monitor) Run(maxSteps uint64) *Breakpoint {
	for steps := uint64(0); maxSteps == 0 || steps < maxSteps; steps++ {
		if !m.c.Step() {
			return nil
		}
		if bp, ok := m.hit(); ok {
			return bp
		}
	}
	return nil
}
