// prci.go - power/reset/clock/interrupt register block. A plain RAM-shaped
// store with two read-only lock bits synthesized on Get, since nothing
// in this emulator ever makes the PLL or HFROSC unlock.

package soc

import "github.com/rv32emu/fe310emu/internal/memmap"

const (
	prciHFROSCCfg = 0x00 // bit 31: HF-Lock
	prciPLLCfg    = 0x08 // bit 31: PLL-Lock
)

// PRCI is RAM-shaped storage with the lock bit of the two config
// registers forced high on every read.
type PRCI struct {
	memmap.BaseRegion
	log memmap.Logger
}

func NewPRCI(base, size uint32, log memmap.Logger) *PRCI {
	if log == nil {
		log = memmap.DiscardLogger{}
	}
	return &PRCI{BaseRegion: memmap.NewBaseRegion("PRCI", base, size), log: log}
}

func (p *PRCI) Init() error { return p.InitBytes() }

func (p *PRCI) Get(offset uint32) (uint32, error) {
	if err := p.CheckOffset(offset); err != nil {
		return 0, err
	}
	v := p.GetWord(offset)
	switch offset {
	case prciHFROSCCfg, prciPLLCfg:
		v |= 1 << 31
	}
	p.log.Logf("PRCI rd offset %#x: %#08x", offset, v)
	return v, nil
}

func (p *PRCI) Set(offset uint32, mask4 uint8, value uint32) error {
	if err := p.CheckSetOffset(offset, p.log); err != nil {
		return err
	}
	p.log.Logf("PRCI wr offset %#x: %#08x", offset, value)
	p.SetWord(offset, mask4, value)
	return nil
}

func (p *PRCI) Dump(log memmap.Logger) {
	log.Logf("PRCI %#08x length %#x", p.Base(), p.Size())
}
