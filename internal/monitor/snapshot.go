// snapshot.go - full machine state capture/restore: registers, CSRs,
// and the mutable RAM/AON regions, gzip-compressed on disk. ROM and the
// other MMIO register blocks are not persisted — ROM never changes
// after load and the peripheral blocks are left as they are on restore.

package monitor

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/rv32emu/fe310emu/internal/cpu"
	"github.com/rv32emu/fe310emu/internal/memmap"
)

// Snapshot captures the general registers, CSRs, PC and the RAM/AON
// contents. The CPU's pipeline flags, the memory front-end's FIFOs and
// the peripheral registers are not captured.
type Snapshot struct {
	Regs [32]uint32
	CSR  []uint32
	PC   uint32

	RAM []byte
	AON []byte
}

// Take captures the CPU's registers/CSRs and the RAM/AON regions' raw
// bytes from m.
func Take(c *cpu.CPU, m *memmap.Map) *Snapshot {
	snap := &Snapshot{PC: c.PC, CSR: append([]uint32(nil), c.CSR[:]...)}
	for i := range snap.Regs {
		snap.Regs[i] = c.Reg(i)
	}
	for _, r := range m.Regions() {
		switch r.Name() {
		case "RAM":
			snap.RAM = regionBytes(r)
		case "AON":
			snap.AON = regionBytes(r)
		}
	}
	return snap
}

// byteBacked is satisfied by any region that exposes its raw backing
// array, which every concrete SoC region does via embedded
// memmap.BaseRegion.
type byteBacked interface {
	RawBytes() []byte
}

func regionBytes(r memmap.Region) []byte {
	if b, ok := r.(byteBacked); ok {
		return append([]byte(nil), b.RawBytes()...)
	}
	return nil
}

// Restore writes a snapshot's registers, CSRs, and RAM/AON contents
// back into c and m.
func Restore(c *cpu.CPU, m *memmap.Map, snap *Snapshot) {
	c.LoadState(snap.Regs, snap.CSR, snap.PC)
	for _, r := range m.Regions() {
		var src []byte
		switch r.Name() {
		case "RAM":
			src = snap.RAM
		case "AON":
			src = snap.AON
		default:
			continue
		}
		if b, ok := r.(byteBacked); ok {
			copy(b.RawBytes(), src)
		}
	}
}

// Save gzip-compresses a gob-encoded snapshot to path.
func Save(snap *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("monitor: create snapshot %s: %w", path, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := gob.NewEncoder(gz).Encode(snap); err != nil {
		return fmt.Errorf("monitor: encode snapshot: %w", err)
	}
	return gz.Close()
}

// Load reads and decompresses a snapshot previously written by Save.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("monitor: open snapshot %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("monitor: open gzip reader: %w", err)
	}
	defer gz.Close()

	var snap Snapshot
	if err := gob.NewDecoder(gz).Decode(&snap); err != nil {
		return nil, fmt.Errorf("monitor: decode snapshot: %w", err)
	}
	return &snap, nil
}
