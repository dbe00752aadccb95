package m68k

import "testing"

func TestSliceICacheRead16BigEndian(t *testing.T) {
	ic := &SliceICache{Mem: []byte{0x12, 0x34, 0xAB, 0xCD}, Base: 0x1000}
	if got := ic.Read16(0x1000); got != 0x1234 {
		t.Errorf("Read16(base) = %#x, want 0x1234", got)
	}
	if got := ic.Read16(0x1002); got != 0xABCD {
		t.Errorf("Read16(base+2) = %#x, want 0xABCD", got)
	}
}

func TestGuestStreamNext16Advances(t *testing.T) {
	ic := &SliceICache{Mem: []byte{0x00, 0x01, 0x00, 0x02}, Base: 0}
	gs := &GuestStream{Cache: ic, Addr: 0}
	if w := gs.Next16(); w != 1 {
		t.Fatalf("first word = %d, want 1", w)
	}
	if gs.Addr != 2 || gs.Words != 1 {
		t.Fatalf("after one Next16: Addr=%d Words=%d, want 2,1", gs.Addr, gs.Words)
	}
	if w := gs.Next16(); w != 2 {
		t.Fatalf("second word = %d, want 2", w)
	}
	if gs.Addr != 4 || gs.Words != 2 {
		t.Fatalf("after two Next16: Addr=%d Words=%d, want 4,2", gs.Addr, gs.Words)
	}
}

func TestGuestStreamNext32(t *testing.T) {
	ic := &SliceICache{Mem: []byte{0xDE, 0xAD, 0xBE, 0xEF}, Base: 0}
	gs := &GuestStream{Cache: ic, Addr: 0}
	if got := gs.Next32(); got != 0xDEADBEEF {
		t.Fatalf("Next32() = %#x, want 0xDEADBEEF", got)
	}
	if gs.Addr != 4 || gs.Words != 2 {
		t.Fatalf("after Next32: Addr=%d Words=%d, want 4,2", gs.Addr, gs.Words)
	}
}

// fakeCycleICache exercises the CycleICache optional interface without
// needing a real timing model behind it.
type fakeCycleICache struct {
	SliceICache
	lastCycle uint64
}

func (f *fakeCycleICache) ReadCycle16(cycle uint64, addr uint32) uint16 {
	f.lastCycle = cycle
	return f.Read16(addr)
}

func TestCycleICacheTypeAssertion(t *testing.T) {
	var ic ICache = &fakeCycleICache{SliceICache: SliceICache{Mem: []byte{0x00, 0x00}, Base: 0}}
	cic, ok := ic.(CycleICache)
	if !ok {
		t.Fatal("fakeCycleICache should satisfy CycleICache")
	}
	cic.ReadCycle16(42, 0)
	if ic.(*fakeCycleICache).lastCycle != 42 {
		t.Fatalf("lastCycle = %d, want 42", ic.(*fakeCycleICache).lastCycle)
	}

	var plain ICache = &SliceICache{Mem: []byte{0, 0}, Base: 0}
	if _, ok := plain.(CycleICache); ok {
		t.Fatal("plain SliceICache should not satisfy CycleICache")
	}
}
