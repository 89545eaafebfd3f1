// uart.go - UART register block: 8-entry tx/rx FIFOs, watermark-driven
// interrupt-pending flags, and a divisor register. Transmitted bytes are
// flushed immediately to an attached Sink (the terminal/GUI front end's
// UART pane) once tx is enabled, matching the reference's flush-on-every-
// write behaviour rather than buffering for a real baud-rate model.

package soc

import "github.com/rv32emu/fe310emu/internal/memmap"

const (
	uartFIFOSize = 8

	uartTXData   = 0x00
	uartRXData   = 0x04
	uartTXCtrl   = 0x08
	uartRXCtrl   = 0x0C
	uartIRQCtrl  = 0x10
	uartIRQState = 0x14
	uartDiv      = 0x18
)

// Sink receives bytes transmitted by the guest over UART.
type Sink interface {
	WriteByte(b byte)
}

type discardSink struct{}

func (discardSink) WriteByte(byte) {}

type byteRing struct {
	buf   [uartFIFOSize]byte
	read  int
	write int
	count int
}

func (r *byteRing) push(b byte) bool {
	if r.count >= uartFIFOSize {
		return false
	}
	r.buf[r.write] = b
	r.write = (r.write + 1) % uartFIFOSize
	r.count++
	return true
}

func (r *byteRing) pop() (byte, bool) {
	if r.count == 0 {
		return 0, false
	}
	b := r.buf[r.read]
	r.read = (r.read + 1) % uartFIFOSize
	r.count--
	return b, true
}

// UART implements the register block described in the SoC memory map.
// It does not embed memmap.BaseRegion: its storage is structured state,
// not a flat byte array.
type UART struct {
	base uint32
	size uint32
	log  memmap.Logger
	sink Sink

	divisor uint16

	tx byteRing
	rx byteRing

	txWatermark uint8
	rxWatermark uint8
	txEnable    bool
	rxEnable    bool
	txIRQEnable bool
	rxIRQEnable bool
	stopBits    uint8
}

// NewUART constructs a UART region; sink may be nil (bytes are dropped).
func NewUART(base, size uint32, sink Sink, log memmap.Logger) *UART {
	if log == nil {
		log = memmap.DiscardLogger{}
	}
	if sink == nil {
		sink = discardSink{}
	}
	return &UART{base: base, size: size, log: log, sink: sink, divisor: 0xFFFF, stopBits: 1}
}

func (u *UART) Base() uint32  { return u.base }
func (u *UART) Size() uint32  { return u.size }
func (u *UART) Name() string  { return "UART" }
func (u *UART) Init() error  { return nil }
func (u *UART) Free()        {}

// RxEnqueue injects one byte into the receive FIFO, as if a remote
// terminal sent it over the wire. Dropped (logged) when rx is disabled
// or the FIFO is full, matching the reference.
func (u *UART) RxEnqueue(c byte) {
	if !u.rxEnable {
		u.log.Logf("UART: rx disabled while adding %#02x", c)
		return
	}
	if !u.rx.push(c) {
		u.log.Logf("UART: rx queue overflow adding %#02x", c)
	}
}

func (u *UART) Get(offset uint32) (uint32, error) {
	if offset%4 != 0 {
		return 0, memmap.ErrMisaligned
	}
	if offset+4 > u.size {
		return 0, memmap.ErrOutOfRange
	}
	var v uint32
	switch offset {
	case uartTXData:
		if u.tx.count == uartFIFOSize {
			v = 1 << 31
		}
	case uartRXData:
		if b, ok := u.rx.pop(); ok {
			v = uint32(b)
		} else {
			v = 1 << 31
		}
	case uartTXCtrl:
		if u.txEnable {
			v |= 1
		}
		if u.stopBits == 2 {
			v |= 2
		}
		v |= uint32(u.txWatermark) << 16
	case uartRXCtrl:
		if u.rxEnable {
			v |= 1
		}
		v |= uint32(u.rxWatermark) << 16
	case uartIRQCtrl:
		if u.rxIRQEnable {
			v |= 1
		}
		if u.txIRQEnable {
			v |= 2
		}
	case uartIRQState:
		if uint8(u.tx.count) > u.txWatermark {
			v |= 1
		}
		if uint8(u.rx.count) > u.rxWatermark {
			v |= 2
		}
	case uartDiv:
		v = uint32(u.divisor)
	default:
		u.log.Logf("UART: rd unknown offset %#x", offset)
	}
	return v, nil
}

func (u *UART) Set(offset uint32, mask4 uint8, value uint32) error {
	_ = mask4
	if offset+4 > u.size {
		return memmap.ErrOutOfRange
	}
	if offset%4 != 0 {
		u.log.Logf("UART: unaligned write at offset %#x", offset)
	}
	switch offset {
	case uartTXData:
		if !u.tx.push(byte(value)) {
			u.log.Logf("UART: tx queue overflow adding %#02x", byte(value))
		}
	case uartRXData:
		// read-only
	case uartTXCtrl:
		u.txEnable = value&1 != 0
		if value&2 != 0 {
			u.stopBits = 2
		} else {
			u.stopBits = 1
		}
		u.txWatermark = uint8((value >> 16) & 0x7)
	case uartRXCtrl:
		u.rxEnable = value&1 != 0
		u.rxWatermark = uint8((value >> 16) & 0x7)
	case uartIRQCtrl:
		u.rxIRQEnable = value&1 != 0
		u.txIRQEnable = value&2 != 0
	case uartIRQState:
		// read-only
	case uartDiv:
		u.divisor = uint16(value & 0xFFFF)
	default:
		u.log.Logf("UART: wr unknown offset %#x: %#08x", offset, value)
	}

	if u.txEnable {
		for {
			b, ok := u.tx.pop()
			if !ok {
				break
			}
			u.sink.WriteByte(b)
		}
	}
	return nil
}

func (u *UART) Dump(log memmap.Logger) {
	log.Logf("UART %#08x length %#x tx=%d rx=%d divisor=%#04x", u.base, u.size, u.tx.count, u.rx.count, u.divisor)
}
