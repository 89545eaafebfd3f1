//go:build windows

package display

import (
	"os"
	"sync"
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
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				select {
				case kr.ch <- buf[0]:
				default:
				}
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()

	return kr, nil
}

func (kr keyReader) C() <-chan byte { return kr.ch }

func (kr keyReader) Close() error {
	kr.stopOnce.Do(func() { close(kr.stopCh) })
	<-kr.done
	return term.Restore(kr.fd, kr.oldState)
}
