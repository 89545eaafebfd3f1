// dump.go - human-readable state dump: CPU registers/PC/cycle count
// plus every installed region's own Dump hook, for the "-dump-on-exit"
// flag and the console's "dump" command. This is a report for a human
// reading events.log/the log pane, not a save state — DumpAll and Take
// serve different purposes even though they walk the same CPU and map.

package monitor

import (
	"github.com/rv32emu/fe310emu/internal/cpu"
	"github.com/rv32emu/fe310emu/internal/memmap"
)

// DumpAll writes the CPU's register file, PC, and cycle count, then
// calls every installed region's Dump hook, all through log.
func DumpAll(c *cpu.CPU, m *memmap.Map, log memmap.Logger) {
	log.Logf("--- cpu ---")
	for i := 0; i < 32; i += 4 {
		log.Logf("  x%-2d=%08x x%-2d=%08x x%-2d=%08x x%-2d=%08x",
			i, c.Reg(i), i+1, c.Reg(i+1), i+2, c.Reg(i+2), i+3, c.Reg(i+3))
	}
	log.Logf("  pc=%08x cycle=%08x", c.PC, c.CSR[cpu.CSRRDCycle])
	for _, r := range m.Regions() {
		r.Dump(log)
	}
}
