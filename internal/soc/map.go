// map.go - the canonical FE310-style memory map: ROM, RAM, AON, PRCI,
// GPIO, UART, SPI, and CLINT installed at their fixed addresses.

package soc

import "github.com/rv32emu/fe310emu/internal/memmap"

// Memory map constants, base + size, per the SoC's fixed address plan.
const (
	CLINTBase = 0x02000000
	CLINTSize = 0x00010000

	AONBase = 0x10000000
	AONSize = 0x00000170

	PRCIBase = 0x10008000
	PRCISize = 0x00000FFF

	GPIOBase = 0x10012000
	GPIOSize = 0x00000FFF

	UARTBase = 0x10013000
	UARTSize = 0x00000FFF

	SPIBase = 0x10014000
	SPISize = 0x00000080

	ROMBase = 0x20400000
	ROMSize = 118476

	RAMBase = 0x80000000
	RAMSize = 0x00004000
)

// Config parameterises BuildStandardMap: the directory hex-text images
// are loaded from (empty disables loading) and the UART transmit sink.
type Config struct {
	ImageDir string
	UARTSink Sink
	Log      memmap.Logger
}

// Built is the fully installed memory map plus direct handles to the
// regions callers need to drive from outside the map (UART for host
// input injection, CLINT for cycle-source wiring).
type Built struct {
	Map   *memmap.Map
	UART  *UART
	CLINT *CLINT
}

// BuildStandardMap installs the eight SoC regions at their fixed bases
// and returns the assembled map along with direct handles to UART and
// CLINT.
func BuildStandardMap(cfg Config) (*Built, error) {
	log := cfg.Log
	if log == nil {
		log = memmap.DiscardLogger{}
	}

	m := memmap.NewMap(log)

	rom := NewROM(ROMBase, ROMSize, cfg.ImageDir, log)
	ram := NewRAM("RAM", RAMBase, RAMSize, cfg.ImageDir, log)
	aon := NewRAM("AON", AONBase, AONSize, cfg.ImageDir, log)
	prci := NewPRCI(PRCIBase, PRCISize, log)
	gpio := NewGPIO(GPIOBase, GPIOSize, log)
	uart := NewUART(UARTBase, UARTSize, cfg.UARTSink, log)
	spi := NewSPI(SPIBase, SPISize, log)
	clint := NewCLINT(CLINTBase, CLINTSize, log)

	for _, r := range []memmap.Region{rom, ram, aon, prci, gpio, uart, spi, clint} {
		if err := m.Install(r); err != nil {
			return nil, err
		}
	}

	return &Built{Map: m, UART: uart, CLINT: clint}, nil
}
