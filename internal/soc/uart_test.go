package soc

import "testing"

type collectSink struct{ bytes []byte }

func (s *collectSink) WriteByte(b byte) { s.bytes = append(s.bytes, b) }

func TestUARTTxFlushesToSinkWhenEnabled(t *testing.T) {
	sink := &collectSink{}
	u := NewUART(0x1000, 0xFFF, sink, nil)

	// Enable tx (bit 0 of TXCTRL) before any bytes are queued, matching
	// the reference's flush-on-every-write behaviour.
	if err := u.Set(uartTXCtrl, 0xF, 1); err != nil {
		t.Fatalf("Set TXCTRL: %v", err)
	}
	if err := u.Set(uartTXData, 0xF, 'h'); err != nil {
		t.Fatalf("Set TXDATA: %v", err)
	}
	if err := u.Set(uartTXData, 0xF, 'i'); err != nil {
		t.Fatalf("Set TXDATA: %v", err)
	}
	if string(sink.bytes) != "hi" {
		t.Fatalf("sink received %q, want %q", sink.bytes, "hi")
	}
}

func TestUARTTxNotFlushedWhenDisabled(t *testing.T) {
	sink := &collectSink{}
	u := NewUART(0x1000, 0xFFF, sink, nil)
	u.Set(uartTXData, 0xF, 'x')
	if len(sink.bytes) != 0 {
		t.Fatalf("tx disabled: expected no bytes flushed, got %q", sink.bytes)
	}
}

func TestUARTRxEnqueueRequiresEnable(t *testing.T) {
	u := NewUART(0x1000, 0xFFF, nil, nil)
	u.RxEnqueue('a')
	v, err := u.Get(uartRXData)
	if err != nil {
		t.Fatalf("Get RXDATA: %v", err)
	}
	if v&(1<<31) == 0 {
		t.Fatal("rx disabled: RxEnqueue should have been dropped, expected empty-FIFO bit set")
	}

	u.Set(uartRXCtrl, 0xF, 1) // enable rx
	u.RxEnqueue('a')
	v, err = u.Get(uartRXData)
	if err != nil {
		t.Fatalf("Get RXDATA: %v", err)
	}
	if v != 'a' {
		t.Fatalf("got %#x, want 'a'", v)
	}
}

func TestUARTRxDataEmptyBitWhenDrained(t *testing.T) {
	u := NewUART(0x1000, 0xFFF, nil, nil)
	u.Set(uartRXCtrl, 0xF, 1)
	v, err := u.Get(uartRXData)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v&(1<<31) == 0 {
		t.Fatal("expected the empty-FIFO high bit when rx is drained")
	}
}

func TestUARTDivisorRoundTrip(t *testing.T) {
	u := NewUART(0x1000, 0xFFF, nil, nil)
	if err := u.Set(uartDiv, 0xF, 0x1234); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := u.Get(uartDiv)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 0x1234 {
		t.Fatalf("got %#x, want 0x1234", v)
	}
}

func TestUARTIRQStateWatermarks(t *testing.T) {
	sink := &collectSink{}
	u := NewUART(0x1000, 0xFFF, sink, nil)
	// txWatermark 0 with tx disabled: pushes accumulate instead of flushing.
	u.Set(uartTXCtrl, 0xF, 0<<16) // tx disabled, watermark 0
	u.Set(uartTXData, 0xF, 'a')
	v, err := u.Get(uartIRQState)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v&1 == 0 {
		t.Fatal("tx count (1) > watermark (0) should set the tx-pending bit")
	}
}
