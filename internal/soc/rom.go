// rom.go - boot ROM region: loaded once from a hex-text image, writes
// logged and discarded.

package soc

import (
	"github.com/rv32emu/fe310emu/internal/loader"
	"github.com/rv32emu/fe310emu/internal/memmap"
)

// ROM holds the boot image at the reset vector. Set never mutates
// backing storage; it only logs the attempt, matching a read-only
// memory device.
type ROM struct {
	memmap.BaseRegion
	log   memmap.Logger
	image string // directory to search for the hex-text image, may be empty
}

// NewROM constructs a ROM region. imageDir, if non-empty, is searched
// for ram_<base-hex8>.img at Init time.
func NewROM(base, size uint32, imageDir string, log memmap.Logger) *ROM {
	if log == nil {
		log = memmap.DiscardLogger{}
	}
	return &ROM{
		BaseRegion: memmap.NewBaseRegion("ROM", base, size),
		log:        log,
		image:      imageDir,
	}
}

func (r *ROM) Init() error {
	if err := r.InitBytes(); err != nil {
		return err
	}
	if r.image == "" {
		return nil
	}
	if err := loader.LoadInto(r.image, r.Base(), r.Bytes, loaderAdapter{r.log}); err != nil {
		return err
	}
	r.log.Logf("ROM: loaded image for region at %#08x", r.Base())
	return nil
}

func (r *ROM) Get(offset uint32) (uint32, error) {
	if err := r.CheckOffset(offset); err != nil {
		return 0, err
	}
	return r.GetWord(offset), nil
}

// Set logs the attempted write and discards it; ROM contents never
// change after Init.
func (r *ROM) Set(offset uint32, mask4 uint8, value uint32) error {
	if err := r.CheckSetOffset(offset, r.log); err != nil {
		return err
	}
	r.log.Logf("ROM: ignoring write at offset %#x (value %#08x)", offset, value)
	return nil
}

func (r *ROM) Dump(log memmap.Logger) {
	log.Logf("ROM %#08x length %#x", r.Base(), r.Size())
}

// loaderAdapter bridges memmap.Logger to the loader package's Logger
// interface (identical method sets, kept distinct per package boundary).
type loaderAdapter struct{ l memmap.Logger }

func (a loaderAdapter) Logf(format string, args ...any) { a.l.Logf(format, args...) }
