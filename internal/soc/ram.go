// ram.go - general-purpose RAM region, and the AON register block which
// is implemented identically (a plain byte-addressable store with no
// overlay bits, per the reference's AON handling).

package soc

import (
	"github.com/rv32emu/fe310emu/internal/loader"
	"github.com/rv32emu/fe310emu/internal/memmap"
)

// RAM is a plain read/write byte store. Set tolerates a misaligned
// offset (logged, not rejected); Get requires 4-byte alignment.
type RAM struct {
	memmap.BaseRegion
	log   memmap.Logger
	image string
	name  string
}

// NewRAM constructs a RAM region named name (RAM or AON), optionally
// preloaded from imageDir/ram_<base-hex8>.img.
func NewRAM(name string, base, size uint32, imageDir string, log memmap.Logger) *RAM {
	if log == nil {
		log = memmap.DiscardLogger{}
	}
	return &RAM{
		BaseRegion: memmap.NewBaseRegion(name, base, size),
		log:        log,
		image:      imageDir,
		name:       name,
	}
}

func (r *RAM) Init() error {
	if err := r.InitBytes(); err != nil {
		return err
	}
	if r.image == "" {
		return nil
	}
	if err := loader.LoadInto(r.image, r.Base(), r.Bytes, loaderAdapter{r.log}); err != nil {
		return err
	}
	r.log.Logf("%s: loaded image for region at %#08x", r.name, r.Base())
	return nil
}

func (r *RAM) Get(offset uint32) (uint32, error) {
	if err := r.CheckOffset(offset); err != nil {
		return 0, err
	}
	return r.GetWord(offset), nil
}

func (r *RAM) Set(offset uint32, mask4 uint8, value uint32) error {
	if err := r.CheckSetOffset(offset, r.log); err != nil {
		return err
	}
	r.SetWord(offset, mask4, value)
	return nil
}

func (r *RAM) Dump(log memmap.Logger) {
	log.Logf("%s %#08x length %#x", r.name, r.Base(), r.Size())
}
