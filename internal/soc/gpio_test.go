package soc

import "testing"

func TestGPIOPassthrough(t *testing.T) {
	g := NewGPIO(0x1000, 0xFFF, nil)
	if err := g.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := g.Set(0, 0xF, 0xFFFFFFFF); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := g.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 0xFFFFFFFF {
		t.Fatalf("GPIO should be a pure pass-through, got %#x", got)
	}
}
