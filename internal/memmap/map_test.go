package memmap

import "testing"

func TestInstallRejectsOverlap(t *testing.T) {
	m := NewMap(nil)
	if err := m.Install(newPlainRegion("A", 0x1000, 0x100, nil)); err != nil {
		t.Fatalf("install A: %v", err)
	}
	err := m.Install(newPlainRegion("B", 0x1080, 0x100, nil))
	if err == nil {
		t.Fatal("expected an overlap error installing B over A")
	}
}

func TestInstallAllowsAdjacentRegions(t *testing.T) {
	m := NewMap(nil)
	if err := m.Install(newPlainRegion("A", 0x1000, 0x100, nil)); err != nil {
		t.Fatalf("install A: %v", err)
	}
	if err := m.Install(newPlainRegion("B", 0x1100, 0x100, nil)); err != nil {
		t.Fatalf("adjacent, non-overlapping install should succeed: %v", err)
	}
}

func TestAlignedReadWriteRoundTrip(t *testing.T) {
	m := NewMap(nil)
	m.Install(newPlainRegion("A", 0x1000, 0x100, nil))
	if err := m.AlignedWrite(0x1000, 0xF, 0xCAFEBABE); err != nil {
		t.Fatalf("AlignedWrite: %v", err)
	}
	got, err := m.AlignedRead(0x1000)
	if err != nil {
		t.Fatalf("AlignedRead: %v", err)
	}
	if got != 0xCAFEBABE {
		t.Fatalf("got %#x, want %#x", got, 0xCAFEBABE)
	}
}

func TestReadRegionMiss(t *testing.T) {
	m := NewMap(nil)
	if _, err := m.AlignedRead(0x9999); err == nil {
		t.Fatal("expected ErrRegionMiss reading an unmapped address")
	}
}

func TestReadSplitAcrossWordBoundary(t *testing.T) {
	m := NewMap(nil)
	m.Install(newPlainRegion("A", 0, 0x100, nil))
	m.AlignedWrite(0, 0xF, 0x04030201)
	m.AlignedWrite(4, 0xF, 0x08070605)

	// A byte-width read at offset 1 should pull byte 1 from the low word only.
	v, err := m.Read(1, 1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 0x02 {
		t.Fatalf("byte read at off=1 = %#x, want 0x02", v)
	}

	// A word-width read at offset 1 straddles the boundary: bytes
	// [1,2,3] of the low word plus byte [0] of the high word.
	v, err = m.Read(1, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := uint32(0x05040302)
	if v != want {
		t.Fatalf("straddling word read = %#x, want %#x", v, want)
	}
}

func TestWriteFragmentsQuirkRow(t *testing.T) {
	// addr&3==2, width==2 is the documented quirk: it writes only mask
	// 0xC (the high two bytes) of the aligned word, value shifted left 16.
	frags := fragmentsFor(2, 2, 0x0000BEEF)
	if len(frags) != 1 {
		t.Fatalf("expected a single fragment for the quirk row, got %d", len(frags))
	}
	f := frags[0]
	if f.addr != 0 || f.mask4 != 0xC || f.value != 0xBEEF0000 {
		t.Fatalf("quirk fragment = %+v, want {addr:0 mask4:0xC value:0xBEEF0000}", f)
	}
}

func TestWriteSplitAcrossWordBoundary(t *testing.T) {
	m := NewMap(nil)
	m.Install(newPlainRegion("A", 0, 0x100, nil))
	// A 4-byte write at offset 3 spans bytes [3] of the low word and
	// [4,5,6] of the high word.
	if err := m.Write(3, 4, 0x04030201); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lo, _ := m.AlignedRead(0)
	hi, _ := m.AlignedRead(4)
	if byte(lo>>24) != 0x01 {
		t.Fatalf("low word high byte = %#x, want 0x01", byte(lo>>24))
	}
	if hi&0xFFFFFF != 0x040302 {
		t.Fatalf("high word low 3 bytes = %#x, want 0x040302", hi&0xFFFFFF)
	}
}

func TestWriteRegionMissPropagatesError(t *testing.T) {
	m := NewMap(nil)
	if err := m.Write(0x9999, 4, 0); err == nil {
		t.Fatal("expected an error writing to an unmapped address")
	}
}

func TestFrontEndPriorityWriteBeforeReadBeforeFetch(t *testing.T) {
	m := NewMap(nil)
	m.Install(newPlainRegion("A", 0, 0x100, nil))
	m.AlignedWrite(0, 0xF, 0xAAAAAAAA)

	fe := NewFrontEnd(m, nil)
	fe.WriteRequest(0, 4, 0x11111111)
	fe.ReadRequest(0)
	fe.FetchRequest(0)

	// First Run: the pending write must be serviced before the read or fetch.
	if err := fe.Run(); err != nil {
		t.Fatalf("Run (write): %v", err)
	}
	if !fe.ReadDataEmpty() || !fe.FetchDataEmpty() {
		t.Fatal("write should be serviced alone; read/fetch must still be pending")
	}

	// Second Run: read now takes priority over the still-pending fetch.
	if err := fe.Run(); err != nil {
		t.Fatalf("Run (read): %v", err)
	}
	if fe.ReadDataEmpty() {
		t.Fatal("expected a read response after the second Run")
	}
	if !fe.FetchDataEmpty() {
		t.Fatal("fetch should not have been serviced yet")
	}
	if got := fe.ReadData(); got != 0x11111111 {
		t.Fatalf("read data = %#x, want the just-written value 0x11111111", got)
	}

	// Third Run: finally the fetch.
	if err := fe.Run(); err != nil {
		t.Fatalf("Run (fetch): %v", err)
	}
	if fe.FetchDataEmpty() {
		t.Fatal("expected a fetch response after the third Run")
	}
}

func TestFrontEndReadMissSubstitutesZero(t *testing.T) {
	fe := NewFrontEnd(NewMap(nil), nil)
	fe.ReadRequest(0x9999)
	if err := fe.Run(); err != nil {
		t.Fatalf("Run should not propagate a read-miss error: %v", err)
	}
	if fe.ReadDataEmpty() {
		t.Fatal("expected a substituted zero response, not an empty channel")
	}
	if got := fe.ReadData(); got != 0 {
		t.Fatalf("read-miss substitution = %#x, want 0", got)
	}
}

func TestFrontEndFetchMissSubstitutesZero(t *testing.T) {
	fe := NewFrontEnd(NewMap(nil), nil)
	fe.FetchRequest(0x9999)
	if err := fe.Run(); err != nil {
		t.Fatalf("Run should not propagate a fetch-miss error: %v", err)
	}
	if got := fe.FetchData(); got != 0 {
		t.Fatalf("fetch-miss substitution = %#x, want 0", got)
	}
}

func TestFrontEndWriteMissPropagatesError(t *testing.T) {
	fe := NewFrontEnd(NewMap(nil), nil)
	fe.WriteRequest(0x9999, 4, 0)
	if err := fe.Run(); err == nil {
		t.Fatal("a write-miss should propagate as an error, unlike read/fetch misses")
	}
}

func TestFrontEndRequestChannelsRespectCapacity(t *testing.T) {
	fe := NewFrontEnd(NewMap(nil), nil)
	for i := uint32(0); i < fifoDepth; i++ {
		if !fe.FetchRequest(i) {
			t.Fatalf("fetch request %d should be accepted", i)
		}
	}
	if fe.FetchRequest(99) {
		t.Fatal("fetch request channel should be full at fifoDepth entries")
	}
}

func TestFrontEndReset(t *testing.T) {
	fe := NewFrontEnd(NewMap(nil), nil)
	fe.FetchRequest(1)
	fe.ReadRequest(2)
	fe.WriteRequest(3, 4, 5)
	fe.Reset()
	if fe.WriteFull() {
		t.Fatal("Reset should have drained the write channel")
	}
	// A drained fetch/read request channel accepts fifoDepth more pushes.
	for i := uint32(0); i < fifoDepth; i++ {
		if !fe.FetchRequest(i) {
			t.Fatalf("post-reset fetch request %d should be accepted", i)
		}
	}
}
