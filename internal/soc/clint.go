// clint.go - core-local interruptor: MSIP and mtimecmp are plain
// pass-through storage; reading the mtime registers instead returns the
// processor's live cycle counter, so guest code polling mtime sees real
// progress without CLINT needing its own timer.

package soc

import "github.com/rv32emu/fe310emu/internal/memmap"

const (
	clintMSIP     = 0x0000
	clintMTimeCmp = 0x4000 // + 0x4004 for the high half
	clintMTimeL   = 0xBFF8
	clintMTimeH   = 0xBFFC
)

// CycleSource exposes the processor's free-running cycle counter, kept
// as a narrow interface to avoid internal/soc importing internal/cpu.
type CycleSource interface {
	CycleLow() uint32
	CycleHigh() uint32
}

type CLINT struct {
	memmap.BaseRegion
	log    memmap.Logger
	cycles CycleSource
}

// NewCLINT constructs a CLINT region. cycles may be nil until the CPU
// is constructed; SetCycleSource attaches it once available.
func NewCLINT(base, size uint32, log memmap.Logger) *CLINT {
	if log == nil {
		log = memmap.DiscardLogger{}
	}
	return &CLINT{BaseRegion: memmap.NewBaseRegion("CLINT", base, size), log: log}
}

// SetCycleSource attaches the live cycle counter; called once the CPU
// exists, after the memory map has already been built.
func (c *CLINT) SetCycleSource(cycles CycleSource) { c.cycles = cycles }

func (c *CLINT) Init() error { return c.InitBytes() }

func (c *CLINT) Get(offset uint32) (uint32, error) {
	if err := c.CheckOffset(offset); err != nil {
		return 0, err
	}
	switch offset {
	case clintMSIP, clintMTimeCmp, clintMTimeCmp + 4:
		return c.GetWord(offset), nil
	case clintMTimeL:
		if c.cycles != nil {
			return c.cycles.CycleLow(), nil
		}
		return 0, nil
	case clintMTimeH:
		if c.cycles != nil {
			return c.cycles.CycleHigh(), nil
		}
		return 0, nil
	default:
		c.log.Logf("CLINT: rd of non-register offset %#x", offset)
		return 0, nil
	}
}

func (c *CLINT) Set(offset uint32, mask4 uint8, value uint32) error {
	if err := c.CheckSetOffset(offset, c.log); err != nil {
		return err
	}
	c.SetWord(offset, mask4, value)
	return nil
}

func (c *CLINT) Dump(log memmap.Logger) {
	log.Logf("CLINT %#08x length %#x", c.Base(), c.Size())
}
