package m68k

import "testing"

func TestDecodeEASplitsModeAndReg(t *testing.T) {
	mode, reg := decodeEA(0x15) // 0b010_101
	if mode != 2 || reg != 5 {
		t.Fatalf("decodeEA(0x15) = (%d,%d), want (2,5)", mode, reg)
	}
}

func TestPostIncrementA7ByteRoundsToWord(t *testing.T) {
	if got := postIncrement(7, Byte); got != 2 {
		t.Errorf("postIncrement(A7, Byte) = %d, want 2", got)
	}
	if got := postIncrement(7, Word); got != 2 {
		t.Errorf("postIncrement(A7, Word) = %d, want 2", got)
	}
	if got := postIncrement(7, Long); got != 4 {
		t.Errorf("postIncrement(A7, Long) = %d, want 4", got)
	}
	if got := postIncrement(0, Byte); got != 1 {
		t.Errorf("postIncrement(A0, Byte) = %d, want 1", got)
	}
}

func TestLoadFromEAImmediateSignExtension(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 8)}
	ra := NewRegAlloc(hostState)
	ic := &SliceICache{Mem: []byte{0xFF, 0x80}, Base: 0} // -128 as a word
	gs := &GuestStream{Cache: ic, Addr: 0}
	dst := LoadFromEffectiveAddress(cur, ra, gs, Word, 0x3C, UNALLOC, true, nil)
	if dst == UNALLOC {
		t.Fatal("LoadFromEffectiveAddress returned UNALLOC for #imm")
	}
	if gs.Words != 1 {
		t.Errorf("#imm.W consumed %d extension words, want 1", gs.Words)
	}
	// -128 sign-extends to 0xFFFFFF80, which emitLoadImm32 builds as a
	// single MOVN #0x7F.
	if cur.Pos != 1 || cur.Buf[0]&0xFF800000 != 0x92800000 || (cur.Buf[0]>>5)&0xFFFF != 0x7F {
		t.Errorf("#imm.W $FF80 emitted %d words, first=%#08x, want one MOVN #0x7F (0xFFFFFF80)", cur.Pos, cur.Buf[0])
	}
}

func TestLoadFromEAImmediateLongTakesTwoWords(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 8)}
	ra := NewRegAlloc(hostState)
	ic := &SliceICache{Mem: []byte{0x00, 0x00, 0x00, 0x01}, Base: 0}
	gs := &GuestStream{Cache: ic, Addr: 0}
	LoadFromEffectiveAddress(cur, ra, gs, Long, 0x3C, UNALLOC, true, nil)
	if gs.Words != 2 {
		t.Errorf("#imm.L consumed %d extension words, want 2", gs.Words)
	}
}

func TestAnDirectRejectsByteAndAddressOnly(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 8)}
	ra := NewRegAlloc(hostState)
	gs := &GuestStream{}
	if got := LoadFromEffectiveAddress(cur, ra, gs, Byte, 0x08, UNALLOC, true, nil); got != UNALLOC {
		t.Error("An direct with Byte size must report UNALLOC, not emit code")
	}
	if got := LoadFromEffectiveAddress(cur, ra, gs, AddressOnly, 0x08, UNALLOC, true, nil); got != UNALLOC {
		t.Error("An direct with AddressOnly must report UNALLOC")
	}
}

func TestResolveMemoryAddressPostIncrementEmitsOneUpdate(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 16)}
	ra := NewRegAlloc(hostState)
	gs := &GuestStream{}
	base, off := resolveMemoryAddress(cur, ra, gs, 3, 0, Long, false, false, nil)
	if off != 0 {
		t.Errorf("mode 3 offset = %d, want 0", off)
	}
	ra.FreeHostReg(base)
	// One ADD (for the post-increment) plus the MOV that copies the
	// pre-update address into a fresh scratch register.
	adds := 0
	for _, w := range cur.Buf[:cur.Pos] {
		if w&0xFF000000 == 0x11000000 {
			adds++
		}
	}
	if adds != 1 {
		t.Errorf("mode 3 (An)+ emitted %d ADD(imm), want exactly 1 (the post-increment)", adds)
	}
}

func TestResolveMemoryAddressPreDecrementEmitsOneUpdate(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 16)}
	ra := NewRegAlloc(hostState)
	gs := &GuestStream{}
	base, off := resolveMemoryAddress(cur, ra, gs, 4, 0, Long, false, false, nil)
	if off != 0 {
		t.Errorf("mode 4 offset = %d, want 0", off)
	}
	ra.FreeHostReg(base)
	subs := 0
	for _, w := range cur.Buf[:cur.Pos] {
		if w&0xFF000000 == 0x51000000 {
			subs++
		}
	}
	if subs != 1 {
		t.Errorf("mode 4 -(An) emitted %d SUB(imm), want exactly 1 (the pre-decrement)", subs)
	}
}

func TestResolveMemoryAddressAddressOnlyDefersSideEffect(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 16)}
	ra := NewRegAlloc(hostState)
	gs := &GuestStream{}
	base, _ := resolveMemoryAddress(cur, ra, gs, 3, 1, Long, true, false, nil)
	ra.FreeHostReg(base)
	for _, w := range cur.Buf[:cur.Pos] {
		if w&0xFF000000 == 0x11000000 {
			t.Error("AddressOnly resolution of mode 3 must not emit the post-increment itself")
		}
	}
}

func TestImmediateOffsetShortcutMode5(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 16)}
	ra := NewRegAlloc(hostState)
	ic := &SliceICache{Mem: []byte{0x00, 0x10}, Base: 0} // disp16 = 16
	gs := &GuestStream{Cache: ic, Addr: 0}
	var immOff int32
	base, off := resolveMemoryAddress(cur, ra, gs, 5, 0, AddressOnly, true, true, &immOff)
	ra.FreeHostReg(base)
	if immOff != 16 {
		t.Errorf("immOffset = %d, want 16", immOff)
	}
	if off != 0 {
		t.Errorf("mode 5 shortcut returned non-zero offset %d, base should carry it via immOffset instead", off)
	}
}

func TestComputeEffectiveAddressRejectsRegisterDirect(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 8)}
	ra := NewRegAlloc(hostState)
	gs := &GuestStream{}
	if base, _ := ComputeEffectiveAddress(cur, ra, gs, 0x08, false, nil); base != UNALLOC {
		t.Error("ComputeEffectiveAddress must reject Dn/An/#imm modes")
	}
}

func TestApplyPostSideEffectDirection(t *testing.T) {
	cur := &Cursor{Buf: make([]uint32, 8)}
	ra := NewRegAlloc(hostState)
	applyPostSideEffect(cur, ra, 3, 0, Long)
	if cur.Pos != 1 || cur.Buf[0]&0xFF000000 != 0x11000000 {
		t.Errorf("applyPostSideEffect(mode3) = %#08x, want an ADD(imm)", cur.Buf[0])
	}

	cur2 := &Cursor{Buf: make([]uint32, 8)}
	ra2 := NewRegAlloc(hostState)
	applyPostSideEffect(cur2, ra2, 4, 0, Long)
	if cur2.Pos != 1 || cur2.Buf[0]&0xFF000000 != 0x51000000 {
		t.Errorf("applyPostSideEffect(mode4) = %#08x, want a SUB(imm)", cur2.Buf[0])
	}
}

func TestDecodeBriefAndFullExt(t *testing.T) {
	// D/A=1 (An), reg=3, W/L=1(long), scale=2, full=0, disp8=-1.
	b := decodeBriefExt(0xBCFF)
	if !b.isAddrReg || b.xn != 3 || !b.longIndex || b.scale != 2 || b.full || b.disp8 != -1 {
		t.Errorf("decodeBriefExt(0xBCFF) = %+v", b)
	}

	// Full form: bit8 set, BS set, IS clear, baseDispSize=2 (word), iis=2.
	f := decodeFullExt(0x01A2)
	if !f.full || !f.baseSuppress || f.indexSuppress || f.baseDispSize != 2 || f.iis != 2 {
		t.Errorf("decodeFullExt(0x01A2) = %+v", f)
	}
}
