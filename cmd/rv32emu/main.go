// main.go - entry point: wires the memory map, CPU, and terminal
// dashboard together and hands control to the dashboard's run loop.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rv32emu/fe310emu/internal/cpu"
	"github.com/rv32emu/fe310emu/internal/display"
	"github.com/rv32emu/fe310emu/internal/memmap"
	"github.com/rv32emu/fe310emu/internal/monitor"
	"github.com/rv32emu/fe310emu/internal/soc"
)

func main() {
	imageDir := flag.String("image-dir", "", "directory of ram_<base-hex8>.img hex-text images for ROM/RAM/AON (empty disables loading)")
	logDir := flag.String("log-dir", ".", "directory for events.log")
	uartFeed := flag.String("uart-feed", "", "file whose bytes are queued into the UART receive FIFO at startup")
	loadSnapshot := flag.String("load-snapshot", "", "snapshot file to restore before starting")
	saveSnapshot := flag.String("save-snapshot", "", "snapshot file to write on exit")
	trace := flag.Bool("trace", true, "start with the instruction trace pane active")
	script := flag.String("script", "", "Lua monitor script run once before the dashboard takes the terminal")
	dumpOnExit := flag.Bool("dump-on-exit", false, "write a human-readable register/region dump to events.log on exit")
	flag.Parse()

	tty, err := display.New(os.Stdout, *logDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32emu: %v\n", err)
		os.Exit(1)
	}
	defer tty.Close()

	built, err := soc.BuildStandardMap(soc.Config{
		ImageDir: *imageDir,
		UARTSink: tty,
		Log:      tty,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32emu: building memory map: %v\n", err)
		os.Exit(1)
	}

	frontend := memmap.NewFrontEnd(built.Map, tty)
	c, err := cpu.New(frontend, tty, tty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32emu: building cpu: %v\n", err)
		os.Exit(1)
	}
	c.TraceActive = *trace
	built.CLINT.SetCycleSource(c)
	tty.SetCPU(c)

	mon := monitor.New(c, built.Map)
	console := monitor.NewConsole(c, built.Map, mon, func(s string) { tty.Logf("%s", s) })
	defer console.Close()
	tty.SetConsole(mon, console)

	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rv32emu: reading script: %v\n", err)
			os.Exit(1)
		}
		console.RunScript(strings.Split(string(data), "\n"))
	}

	if *uartFeed != "" {
		data, err := os.ReadFile(*uartFeed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rv32emu: reading uart feed: %v\n", err)
			os.Exit(1)
		}
		for _, b := range data {
			built.UART.RxEnqueue(b)
		}
	}

	if *loadSnapshot != "" {
		snap, err := monitor.Load(*loadSnapshot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rv32emu: loading snapshot: %v\n", err)
			os.Exit(1)
		}
		monitor.Restore(c, built.Map, snap)
	}

	runErr := tty.Run()

	if *saveSnapshot != "" {
		if err := monitor.Save(monitor.Take(c, built.Map), *saveSnapshot); err != nil {
			fmt.Fprintf(os.Stderr, "rv32emu: saving snapshot: %v\n", err)
		}
	}
	if *dumpOnExit {
		monitor.DumpAll(c, built.Map, tty)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "rv32emu: %v\n", runErr)
		os.Exit(1)
	}
	if c.Halted() {
		fmt.Fprintf(os.Stderr, "rv32emu: halted: %v\n", c.LastError())
		os.Exit(1)
	}
}
