// ioview.go - I/O register viewer: formats the live contents of the
// SoC's named register blocks for the monitor console's "io" command.

package monitor

import (
	"fmt"

	"github.com/rv32emu/fe310emu/internal/soc"
)

// RegisterDesc describes one named register within a device for display.
type RegisterDesc struct {
	Name   string
	Offset uint32
	Access string // "RW", "RO", "WO"
}

// DeviceDesc groups a device's base address with its known registers.
type DeviceDesc struct {
	Name string
	Base uint32
	Regs []RegisterDesc
}

// Devices lists the SoC's named register blocks, in memory-map order.
var Devices = []DeviceDesc{
	{
		Name: "CLINT", Base: soc.CLINTBase,
		Regs: []RegisterDesc{
			{"MSIP", 0x0000, "RW"},
			{"MTIMECMP_LO", 0x4000, "RW"},
			{"MTIMECMP_HI", 0x4004, "RW"},
			{"MTIME_LO", 0xBFF8, "RO"},
			{"MTIME_HI", 0xBFFC, "RO"},
		},
	},
	{
		Name: "AON", Base: soc.AONBase,
		Regs: []RegisterDesc{{"BASE", 0x0000, "RW"}},
	},
	{
		Name: "PRCI", Base: soc.PRCIBase,
		Regs: []RegisterDesc{
			{"HFROSCCFG", 0x00, "RW"},
			{"PLLCFG", 0x08, "RW"},
		},
	},
	{
		Name: "GPIO", Base: soc.GPIOBase,
		Regs: []RegisterDesc{{"BASE", 0x0000, "RW"}},
	},
	{
		Name: "UART", Base: soc.UARTBase,
		Regs: []RegisterDesc{
			{"TXDATA", 0x00, "RW"},
			{"RXDATA", 0x04, "RO"},
			{"TXCTRL", 0x08, "RW"},
			{"RXCTRL", 0x0C, "RW"},
			{"IE", 0x10, "RW"},
			{"IP", 0x14, "RO"},
			{"DIV", 0x18, "RW"},
		},
	},
	{
		Name: "SPI", Base: soc.SPIBase,
		Regs: []RegisterDesc{{"STATUS", 0x00, "RO"}},
	},
}

// Format renders the live register values of one device, reading
// through mem. Each read goes through the map like a guest load, so
// formatting the UART reads RXDATA and dequeues the next received byte.
func Format(mem MapPeeker, deviceName string) []string {
	for _, dev := range Devices {
		if dev.Name != deviceName {
			continue
		}
		lines := []string{fmt.Sprintf("--- %s @ %#08x ---", dev.Name, dev.Base)}
		for _, r := range dev.Regs {
			v, err := mem.Read(dev.Base+r.Offset, 4)
			if err != nil {
				lines = append(lines, fmt.Sprintf("  %-12s (%#06x) = ????????  [%s]", r.Name, r.Offset, r.Access))
				continue
			}
			lines = append(lines, fmt.Sprintf("  %-12s (%#06x) = %#08x  [%s]", r.Name, r.Offset, v, r.Access))
		}
		return lines
	}
	return []string{fmt.Sprintf("monitor: unknown device %q", deviceName)}
}

// ListDevices returns the known device names, in memory-map order.
func ListDevices() []string {
	names := make([]string, len(Devices))
	for i, d := range Devices {
		names[i] = d.Name
	}
	return names
}
