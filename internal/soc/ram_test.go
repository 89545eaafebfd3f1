package soc

import "testing"

func TestRAMGetRequiresAlignmentSetTolerates(t *testing.T) {
	r := NewRAM("RAM", 0, 0x100, "", nil)
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := r.Set(1, 0xF, 0x11223344); err != nil {
		t.Fatalf("Set at an unaligned offset should succeed: %v", err)
	}
	if _, err := r.Get(1); err == nil {
		t.Fatal("Get at an unaligned offset should fail even after a tolerant Set")
	}
	if _, err := r.Get(0); err != nil {
		t.Fatalf("Get at the enclosing aligned word should succeed: %v", err)
	}
}

func TestRAMReadWriteRoundTrip(t *testing.T) {
	r := NewRAM("RAM", 0, 0x100, "", nil)
	r.Init()
	if err := r.Set(4, 0xF, 0xCAFEBABE); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := r.Get(4)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 0xCAFEBABE {
		t.Fatalf("got %#x, want 0xCAFEBABE", got)
	}
}

func TestAONBehavesLikeRAM(t *testing.T) {
	a := NewRAM("AON", 0, AONSize, "", nil)
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if a.Name() != "AON" {
		t.Fatalf("Name() = %q, want AON", a.Name())
	}
	if err := a.Set(0, 0xF, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := a.Get(0)
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}
