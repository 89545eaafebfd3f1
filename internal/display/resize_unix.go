//go:build !windows

// resize_unix.go - minimum-size enforcement and SIGWINCH tracking, the
// same 80x30 floor the reference ncurses layout required, read via
// TIOCGWINSZ instead of a curses helper.

package display

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	minCols = 80
	minRows = 30
)

// checkTerminalSize reads the controlling terminal's dimensions via
// TIOCGWINSZ and reports an error if it is smaller than the dashboard's
// fixed layout requires.
func checkTerminalSize() error {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return nil // not a terminal (e.g. redirected output); nothing to enforce
	}
	if int(ws.Col) < minCols || int(ws.Row) < minRows {
		return fmt.Errorf("display: terminal must be at least %dx%d, currently %dx%d", minCols, minRows, ws.Col, ws.Row)
	}
	return nil
}

// watchResize re-validates the terminal size on every SIGWINCH and
// invokes onBad if it falls below the minimum, until stop is closed.
func watchResize(stop <-chan struct{}, onBad func(error)) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)
	defer signal.Stop(sig)
	for {
		select {
		case <-stop:
			return
		case <-sig:
			if err := checkTerminalSize(); err != nil {
				onBad(err)
			}
		}
	}
}
