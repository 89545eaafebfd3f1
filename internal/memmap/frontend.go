// frontend.go - non-blocking memory front-end: five bounded FIFOs pumped
// one entry per cycle in strict write > read > fetch priority.

package memmap

// FrontEnd decouples the processor from the memory map with five
// depth-8 channels: fetch_request, read_request, write_request,
// fetch_data, read_data. Run services at most one request per call, in
// priority order write, then read, then fetch, so an in-flight load
// never blocks a fetch that was already enqueued.
type FrontEnd struct {
	m *Map

	fetchReq  addrFIFO
	readReq   addrFIFO
	writeReq  writeFIFO
	fetchData addrFIFO
	readData  addrFIFO

	log Logger
}

// NewFrontEnd builds a front-end over the given map.
func NewFrontEnd(m *Map, log Logger) *FrontEnd {
	if log == nil {
		log = DiscardLogger{}
	}
	return &FrontEnd{m: m, log: log}
}

// FetchRequest enqueues a fetch at addr; false if the channel is full.
func (f *FrontEnd) FetchRequest(addr uint32) bool { return f.fetchReq.Push(addr) }

// ReadRequest enqueues a load at addr; false if the channel is full.
func (f *FrontEnd) ReadRequest(addr uint32) bool { return f.readReq.Push(addr) }

// WriteRequest enqueues a store of the given width (1, 2, or 4 bytes);
// false if the channel is full.
func (f *FrontEnd) WriteRequest(addr uint32, width uint32, data uint32) bool {
	return f.writeReq.Push(addr, width, data)
}

// FetchDataEmpty reports whether a fetch response is pending.
func (f *FrontEnd) FetchDataEmpty() bool { return f.fetchData.Empty() }

// ReadDataEmpty reports whether a load response is pending.
func (f *FrontEnd) ReadDataEmpty() bool { return f.readData.Empty() }

// WriteFull reports back-pressure on the write channel.
func (f *FrontEnd) WriteFull() bool { return f.writeReq.Full() }

// FetchData dequeues a fetched word; logs and returns zero if empty.
func (f *FrontEnd) FetchData() uint32 {
	v, ok := f.fetchData.Pop()
	if !ok {
		f.log.Logf("memmap: fetch_data read while empty")
	}
	return v
}

// ReadData dequeues a load response word; logs and returns zero if empty.
func (f *FrontEnd) ReadData() uint32 {
	v, ok := f.readData.Pop()
	if !ok {
		f.log.Logf("memmap: read_data read while empty")
	}
	return v
}

// Run services exactly one request, in write > read > fetch priority.
// A region miss on the underlying map substitutes zero into the
// response queue for reads/fetches; writes propagate the error.
func (f *FrontEnd) Run() error {
	if wr, ok := f.writeReq.Pop(); ok {
		return f.m.Write(wr.addr, wr.width, wr.data)
	}
	if addr, ok := f.readReq.Pop(); ok {
		v, err := f.m.Read(addr, 4)
		if err != nil {
			f.log.Logf("memmap: read miss at %#x, substituting zero", addr)
			v = 0
		}
		f.readData.Push(v)
		return nil
	}
	if addr, ok := f.fetchReq.Pop(); ok {
		v, err := f.m.Read(addr, 4)
		if err != nil {
			f.log.Logf("memmap: fetch miss at %#x, substituting zero", addr)
			v = 0
		}
		f.fetchData.Push(v)
		return nil
	}
	return nil
}

// Reset empties all five channels.
func (f *FrontEnd) Reset() {
	f.fetchReq.Reset()
	f.readReq.Reset()
	f.writeReq.Reset()
	f.fetchData.Reset()
	f.readData.Reset()
}
