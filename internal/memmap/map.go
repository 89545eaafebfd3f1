// map.go - address-to-region lookup and the unaligned/wide access split.

package memmap

import "fmt"

// Map is an ordered, non-overlapping sequence of installed regions.
// Lookup is a linear scan — there are only a handful of regions (ROM,
// RAM, AON, PRCI, GPIO, UART, SPI, CLINT), so a scan beats the complexity
// of an interval tree.
type Map struct {
	regions []Region
	log     Logger
}

// NewMap constructs an empty map. A nil Logger is replaced with
// DiscardLogger.
func NewMap(log Logger) *Map {
	if log == nil {
		log = DiscardLogger{}
	}
	return &Map{log: log}
}

// Install appends a region to the map and calls its Init. The region must
// not overlap any region already installed.
func (m *Map) Install(r Region) error {
	base, size := r.Base(), r.Size()
	for _, existing := range m.regions {
		eb, es := existing.Base(), existing.Size()
		if base < eb+es && eb < base+size {
			return fmt.Errorf("memmap: region %s [%#x,%#x) overlaps %s [%#x,%#x)",
				r.Name(), base, base+size, existing.Name(), eb, eb+es)
		}
	}
	if err := r.Init(); err != nil {
		return fmt.Errorf("memmap: init %s: %w", r.Name(), err)
	}
	m.regions = append(m.regions, r)
	return nil
}

// Regions returns the installed regions in install order, for dump/free
// and the monitor's ioview.
func (m *Map) Regions() []Region { return m.regions }

// find returns the first installed region containing addr, or nil.
func (m *Map) find(addr uint32) Region {
	for _, r := range m.regions {
		base, size := r.Base(), r.Size()
		if addr >= base && addr < base+size {
			return r
		}
	}
	return nil
}

// AlignedRead requires addr%4==0 and that [addr,addr+4) lies entirely in
// one region.
func (m *Map) AlignedRead(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, fmt.Errorf("%w: addr %#x", ErrMisaligned, addr)
	}
	r := m.find(addr)
	if r == nil {
		m.log.Logf("memmap: read miss at %#x", addr)
		return 0, fmt.Errorf("%w: %#x", ErrRegionMiss, addr)
	}
	return r.Get(addr - r.Base())
}

// AlignedWrite requires addr%4==0 and that [addr,addr+4) lies entirely in
// one region.
func (m *Map) AlignedWrite(addr uint32, mask4 uint8, value uint32) error {
	if addr%4 != 0 {
		return fmt.Errorf("%w: addr %#x", ErrMisaligned, addr)
	}
	r := m.find(addr)
	if r == nil {
		m.log.Logf("memmap: write miss at %#x", addr)
		return fmt.Errorf("%w: %#x", ErrRegionMiss, addr)
	}
	return r.Set(addr-r.Base(), mask4, value)
}

// Read performs a width-{1,2,4} read that may straddle the 4-byte
// alignment boundary, splitting into one or two aligned region reads and
// recombining per the shift table in the memory-map design. The result is
// masked to width bytes; callers perform sign extension.
func (m *Map) Read(addr uint32, width uint32) (uint32, error) {
	off := addr & 3
	base := addr &^ 3

	if off == 0 && width == 4 {
		return m.AlignedRead(base)
	}

	lo, err := m.AlignedRead(base)
	if err != nil {
		return 0, err
	}

	needsHi := off+width > 4
	var hi uint32
	if needsHi {
		hi, err = m.AlignedRead(base + 4)
		if err != nil {
			return 0, err
		}
	}

	var v uint32
	switch off {
	case 0:
		v = lo
	case 1:
		v = (lo >> 8) | (hi << 24)
	case 2:
		v = (lo >> 16) | (hi << 16)
	case 3:
		v = (lo >> 24) | (hi << 8)
	}

	if off != 0 {
		m.log.Logf("memmap: unaligned read width=%d at %#x", width, addr)
	}

	mask := uint32(1)<<(8*width) - 1
	if width == 4 {
		mask = 0xFFFFFFFF
	}
	return v & mask, nil
}

// writeFragment is one aligned fragment of a split write: mask4 selects
// bytes within the 4-byte word at base, value carries the shifted data.
type writeFragment struct {
	addr  uint32
	mask4 uint8
	value uint32
}

// fragmentsFor decomposes (addr&3, width) into one or two aligned write
// fragments, per the byte-mask composition table.
func fragmentsFor(addr, width, v uint32) []writeFragment {
	off := addr & 3
	base := addr &^ 3

	switch {
	case off == 0 && width == 1:
		return []writeFragment{{base, 0x1, v}}
	case off == 0 && width == 2:
		return []writeFragment{{base, 0x3, v}}
	case off == 0 && width == 4:
		return []writeFragment{{base, 0xF, v}}
	case off == 1 && width == 1:
		return []writeFragment{{base, 0x2, v << 8}}
	case off == 1 && width == 2:
		return []writeFragment{{base, 0x6, v << 8}}
	case off == 1 && width == 4:
		return []writeFragment{
			{base, 0xE, v << 8},
			{base + 4, 0x1, v >> 24},
		}
	case off == 2 && width == 1:
		return []writeFragment{{base, 0x4, v << 16}}
	case off == 2 && width == 2:
		// Quirk preserved from the reference implementation: this row
		// writes only the high bytes of the aligned word (mask 0xC),
		// matching storing the low 16 bits at byte offset 2.
		return []writeFragment{{base, 0xC, v << 16}}
	case off == 2 && width == 4:
		return []writeFragment{
			{base, 0xC, v << 16},
			{base + 4, 0x3, v >> 16},
		}
	case off == 3 && width == 1:
		return []writeFragment{{base, 0x8, v << 24}}
	case off == 3 && width == 2:
		return []writeFragment{
			{base, 0x8, v << 24},
			{base + 4, 0x1, v >> 8},
		}
	case off == 3 && width == 4:
		return []writeFragment{
			{base, 0x8, v << 24},
			{base + 4, 0x7, v >> 8},
		}
	}
	return nil
}

// Write performs a width-{1,2,4} write that may straddle the alignment
// boundary, decomposing into one or two aligned writes via fragmentsFor.
func (m *Map) Write(addr uint32, width uint32, v uint32) error {
	if addr&3 != 0 {
		m.log.Logf("memmap: unaligned write width=%d at %#x", width, addr)
	}
	for _, f := range fragmentsFor(addr, width, v) {
		if err := m.AlignedWrite(f.addr, f.mask4, f.value); err != nil {
			return err
		}
	}
	return nil
}
