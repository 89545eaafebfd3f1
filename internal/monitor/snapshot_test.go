package monitor

import (
	"path/filepath"
	"testing"

	"github.com/rv32emu/fe310emu/internal/cpu"
	"github.com/rv32emu/fe310emu/internal/memmap"
	"github.com/rv32emu/fe310emu/internal/soc"
)

func TestTakeRestoreRoundTrip(t *testing.T) {
	built, err := soc.BuildStandardMap(soc.Config{})
	if err != nil {
		t.Fatalf("BuildStandardMap: %v", err)
	}
	fe := memmap.NewFrontEnd(built.Map, nil)
	c, err := cpu.New(fe, nil, nil)
	if err != nil {
		t.Fatalf("cpu.New: %v", err)
	}
	c.LoadState([32]uint32{1: 0xAAAAAAAA, 2: 0xBBBBBBBB}, c.CSR[:], 0x20400010)
	if err := built.Map.AlignedWrite(soc.RAMBase, 0xF, 0xDEADBEEF); err != nil {
		t.Fatalf("write RAM: %v", err)
	}

	snap := Take(c, built.Map)

	// Mutate the live state so Restore has something to actually undo.
	c.LoadState([32]uint32{}, c.CSR[:], cpu.ResetPC)
	built.Map.AlignedWrite(soc.RAMBase, 0xF, 0)

	Restore(c, built.Map, snap)

	if c.Reg(1) != 0xAAAAAAAA || c.Reg(2) != 0xBBBBBBBB {
		t.Fatalf("registers not restored: x1=%#x x2=%#x", c.Reg(1), c.Reg(2))
	}
	if c.PC != 0x20400010 {
		t.Fatalf("PC not restored: %#x", c.PC)
	}
	got, err := built.Map.AlignedRead(soc.RAMBase)
	if err != nil {
		t.Fatalf("read back RAM: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Fatalf("RAM not restored: %#x", got)
	}
}

func TestSaveLoadFileRoundTrip(t *testing.T) {
	built, err := soc.BuildStandardMap(soc.Config{})
	if err != nil {
		t.Fatalf("BuildStandardMap: %v", err)
	}
	fe := memmap.NewFrontEnd(built.Map, nil)
	c, err := cpu.New(fe, nil, nil)
	if err != nil {
		t.Fatalf("cpu.New: %v", err)
	}
	c.LoadState([32]uint32{5: 0x12345678}, c.CSR[:], cpu.ResetPC+4)
	snap := Take(c, built.Map)

	path := filepath.Join(t.TempDir(), "snap.gob.gz")
	if err := Save(snap, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.PC != cpu.ResetPC+4 {
		t.Fatalf("PC = %#x, want %#x", loaded.PC, cpu.ResetPC+4)
	}
	if loaded.Regs[5] != 0x12345678 {
		t.Fatalf("x5 = %#x, want 0x12345678", loaded.Regs[5])
	}
	if len(loaded.RAM) != soc.RAMSize {
		t.Fatalf("RAM snapshot length = %d, want %d", len(loaded.RAM), soc.RAMSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.gob.gz")); err == nil {
		t.Fatal("expected an error loading a nonexistent snapshot file")
	}
}
