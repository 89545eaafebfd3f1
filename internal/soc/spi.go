// spi.go - SPI (flash controller) register block: RAM-shaped storage
// with a read-only ready bit forced high on offset 0, so boot code
// polling for SPI readiness never spins.

package soc

import "github.com/rv32emu/fe310emu/internal/memmap"

const spiReadyReg = 0x00 // bit 31: ready

type SPI struct {
	memmap.BaseRegion
	log memmap.Logger
}

func NewSPI(base, size uint32, log memmap.Logger) *SPI {
	if log == nil {
		log = memmap.DiscardLogger{}
	}
	return &SPI{BaseRegion: memmap.NewBaseRegion("SPI", base, size), log: log}
}

func (s *SPI) Init() error { return s.InitBytes() }

func (s *SPI) Get(offset uint32) (uint32, error) {
	if err := s.CheckOffset(offset); err != nil {
		return 0, err
	}
	v := s.GetWord(offset)
	if offset == spiReadyReg {
		v |= 1 << 31
	}
	s.log.Logf("SPI rd offset %#x: %#08x", offset, v)
	return v, nil
}

func (s *SPI) Set(offset uint32, mask4 uint8, value uint32) error {
	if err := s.CheckSetOffset(offset, s.log); err != nil {
		return err
	}
	s.log.Logf("SPI wr offset %#x: %#08x", offset, value)
	s.SetWord(offset, mask4, value)
	return nil
}

func (s *SPI) Dump(log memmap.Logger) {
	log.Logf("SPI %#08x length %#x", s.Base(), s.Size())
}
