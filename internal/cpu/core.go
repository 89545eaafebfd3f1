// core.go - CPU state: register file, CSR array, PC, and pipeline flags.

package cpu

import "github.com/rv32emu/fe310emu/internal/memmap"

// ResetPC is the reset vector: the base of the ROM region.
const ResetPC = 0x20400000

// CPU groups the register file, CSR array, program counter and pipeline
// control flags into one owned aggregate, threaded explicitly through
// Step rather than kept as process-wide globals.
type CPU struct {
	Regs [32]uint32
	CSR  [csrCount]uint32
	PC   uint32

	stalled         bool
	fetchInProgress bool
	readDispatched  bool
	StalledCount    uint64

	TraceActive bool

	cur     Decoded
	row     *OpcodeRow
	table   *Table
	mem     *memmap.FrontEnd
	log     memmap.Logger
	trace   TraceSink
	halted  bool
	lastErr error
}

// TraceSink receives one formatted trace line per retired (or stalled)
// instruction, mirroring the reference implementation's display_trace.
type TraceSink interface {
	Trace(line string)
}

type discardTrace struct{}

func (discardTrace) Trace(string) {}

// New builds a CPU bound to the given memory front-end. A nil Logger or
// TraceSink is replaced with a no-op.
func New(mem *memmap.FrontEnd, log memmap.Logger, trace TraceSink) (*CPU, error) {
	t, err := NewTable()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = memmap.DiscardLogger{}
	}
	if trace == nil {
		trace = discardTrace{}
	}
	c := &CPU{table: t, mem: mem, log: log, trace: trace, TraceActive: true}
	c.Reset()
	return c, nil
}

// Reset re-initialises registers (x0 stays zero, x1..x31 become
// all-ones), PC to the reset vector, CSRs to zero, and clears pipeline
// flags plus the memory front-end's FIFOs. reset∘reset ≡ reset.
func (c *CPU) Reset() {
	for i := range c.Regs {
		c.Regs[i] = 0xFFFFFFFF
	}
	c.Regs[0] = 0
	for i := range c.CSR {
		c.CSR[i] = 0
	}
	c.PC = ResetPC
	c.stalled = false
	c.fetchInProgress = false
	c.readDispatched = false
	c.StalledCount = 0
	c.halted = false
	c.lastErr = nil
	c.mem.Reset()
	c.log.Logf("RISC-V reset")
}

// Reg returns register i, or 0 if i is out of range (mirrors riscv_reg).
func (c *CPU) Reg(i int) uint32 {
	if i < 0 || i > 31 {
		return 0
	}
	return c.Regs[i]
}

// Halted reports whether the run has stopped on an unknown opcode,
// misaligned fetch, or region miss.
func (c *CPU) Halted() bool { return c.halted }

// LastError returns the error that halted the run, if any.
func (c *CPU) LastError() error { return c.lastErr }

// LoadState overwrites the register file, CSR array, and PC directly,
// for the monitor's snapshot restore. Pipeline flags and the memory
// front-end are left untouched — callers that need a clean front-end
// should Reset it separately before restoring.
func (c *CPU) LoadState(regs [32]uint32, csr []uint32, pc uint32) {
	c.Regs = regs
	n := copy(c.CSR[:], csr)
	for i := n; i < len(c.CSR); i++ {
		c.CSR[i] = 0
	}
	c.PC = pc
}

func (c *CPU) setReg(i uint32, v uint32) {
	if i != 0 {
		c.Regs[i] = v
	}
}
