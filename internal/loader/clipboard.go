// clipboard.go - alternate hex-image source: paste from the system
// clipboard instead of reading a ram_<base-hex8>.img file, using the
// same whitespace-separated 8-hex-digit word grammar.

package loader

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"golang.design/x/clipboard"
)

// clipboardInit guards the one-time platform clipboard initialisation;
// clipboard.Init must be called before Read/Write.
var clipboardInit bool

// LoadFromClipboard parses the current system clipboard contents as a
// hex-text image (same grammar as the file format) and writes the
// decoded words little-endian into dst. Intended for quick iteration on
// a RAM image without round-tripping through a file on disk.
func LoadFromClipboard(dst []byte, log Logger) error {
	if log == nil {
		log = discardLogger{}
	}
	if !clipboardInit {
		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("loader: clipboard init: %w", err)
		}
		clipboardInit = true
	}

	data := clipboard.Read(clipboard.FmtText)
	if data == nil {
		return fmt.Errorf("loader: clipboard is empty or not text")
	}

	word := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, tok := range strings.Fields(line) {
			if len(tok) != 8 {
				return fmt.Errorf("loader: clipboard: malformed word %q, want 8 hex digits", tok)
			}
			v, err := strconv.ParseUint(tok, 16, 32)
			if err != nil {
				return fmt.Errorf("loader: clipboard: malformed word %q: %w", tok, err)
			}
			byteOff := word * 4
			if byteOff+4 > len(dst) {
				log.Logf("loader: clipboard: too much data for region, dropping word %d", word)
				word++
				continue
			}
			binary.LittleEndian.PutUint32(dst[byteOff:byteOff+4], uint32(v))
			word++
		}
	}
	return nil
}

// WatchClipboard pastes a fresh image from the clipboard each time its
// contents change, until ctx is cancelled. Used by the monitor console's
// watchclip() global for live-reload iteration.
func WatchClipboard(ctx context.Context, dst []byte, log Logger, onLoad func()) error {
	if !clipboardInit {
		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("loader: clipboard init: %w", err)
		}
		clipboardInit = true
	}
	ch := clipboard.Watch(ctx, clipboard.FmtText)
	for range ch {
		if err := LoadFromClipboard(dst, log); err != nil {
			log.Logf("loader: clipboard watch: %v", err)
			continue
		}
		if onLoad != nil {
			onLoad()
		}
	}
	return nil
}
