//go:build !windows

// keyreader_unix.go - raw-mode single-keystroke reader, grounded on the
// same MakeRaw + non-blocking read pattern the corpus uses for stdin
// input, adapted here to feed the dashboard's key-handling loop over a
// channel instead of an MMIO device.

package display

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

type keyReader struct {
	fd       int
	oldState *term.State
	ch       chan byte
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newKeyReader() (keyReader, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return keyReader{}, err
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, oldState)
		return keyReader{}, err
	}

	kr := keyReader{
		fd:       fd,
		oldState: oldState,
		ch:       make(chan byte, 16),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}

	go func() {
		defer close(kr.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-kr.stopCh:
				return
			default:
			}
			n, err := syscall.Read(fd, buf)
			if n > 0 {
				select {
				case kr.ch <- buf[0]:
				default:
				}
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()

	return kr, nil
}

func (kr keyReader) C() <-chan byte { return kr.ch }

func (kr keyReader) Close() error {
	kr.stopOnce.Do(func() { close(kr.stopCh) })
	<-kr.done
	_ = syscall.SetNonblock(kr.fd, false)
	return term.Restore(kr.fd, kr.oldState)
}
