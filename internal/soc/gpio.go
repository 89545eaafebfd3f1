// gpio.go - GPIO register block: pure pass-through storage, no overlay
// bits. The reference switches on address in both directions but every
// case is a no-op, so this is functionally a RAM region under a
// different name for the monitor's ioview.

package soc

import "github.com/rv32emu/fe310emu/internal/memmap"

type GPIO struct {
	memmap.BaseRegion
	log memmap.Logger
}

func NewGPIO(base, size uint32, log memmap.Logger) *GPIO {
	if log == nil {
		log = memmap.DiscardLogger{}
	}
	return &GPIO{BaseRegion: memmap.NewBaseRegion("GPIO", base, size), log: log}
}

func (g *GPIO) Init() error { return g.InitBytes() }

func (g *GPIO) Get(offset uint32) (uint32, error) {
	if err := g.CheckOffset(offset); err != nil {
		return 0, err
	}
	return g.GetWord(offset), nil
}

func (g *GPIO) Set(offset uint32, mask4 uint8, value uint32) error {
	if err := g.CheckSetOffset(offset, g.log); err != nil {
		return err
	}
	g.SetWord(offset, mask4, value)
	return nil
}

func (g *GPIO) Dump(log memmap.Logger) {
	log.Logf("GPIO %#08x length %#x", g.Base(), g.Size())
}
