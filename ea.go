package m68k

import "log"

// decodeEA splits an EA byte into its mode and register fields (spec.md
// §4.E: "bits 5..3 = mode, bits 2..0 = register").
func decodeEA(eaByte uint8) (mode, reg uint8) {
	return (eaByte >> 3) & 7, eaByte & 7
}

// loadSized emits the host load that materializes src's value into dst
// at width sz, sign-extending byte/word results to 32 bits the way the
// teacher's interpreter masks register reads in ea.go's ea.read.
func loadSized(cur *Cursor, dst, src HostReg, sz Size) {
	switch sz {
	case Byte:
		cur.emitSxtb(dst, src)
	case Word:
		cur.emitSxth(dst, src)
	default:
		if dst != src {
			cur.emitMovRR(dst, src)
		}
	}
}

// storeSized emits the host code that writes val into dst at width sz,
// preserving dst's upper bits for sub-long widths the way data-register
// writes must (teacher's ea.go: "Data register writes preserve upper
// bits for byte/word operations").
func storeSized(cur *Cursor, dst, val HostReg, sz Size) {
	if sz == Long {
		if dst != val {
			cur.emitMovRR(dst, val)
		}
		return
	}
	cur.emitBfi(dst, val, 0, sz.Bits())
}

// memLoad emits the load of sz bytes from [base+offset] into dst,
// sign-extending B/W results.
func memLoad(cur *Cursor, dst, base HostReg, offset int32, sz Size) {
	switch sz {
	case Byte:
		cur.emitLdrbImm(dst, base, offset)
		cur.emitSxtb(dst, dst)
	case Word:
		cur.emitLdrhImm(dst, base, offset)
		cur.emitSxth(dst, dst)
	default:
		cur.emitLdrImm(dst, base, offset)
	}
}

// memStore emits the store of sz bytes from val to [base+offset].
func memStore(cur *Cursor, base HostReg, offset int32, val HostReg, sz Size) {
	switch sz {
	case Byte:
		cur.emitStrbImm(val, base, offset)
	case Word:
		cur.emitStrhImm(val, base, offset)
	default:
		cur.emitStrImm(val, base, offset)
	}
}

// postIncrement returns the byte count an (An)+ / -(An) access advances
// An by: SP (A7) stays word-aligned even for byte accesses (spec.md
// §4.E mode 3/4, carried from the teacher's resolveEA).
func postIncrement(reg uint8, sz Size) uint32 {
	if reg == 7 && sz == Byte {
		return 2
	}
	return uint32(sz)
}

// addImmSigned emits an ADD or SUB depending on the sign of imm, since
// the assembler's add/sub primitives take unsigned 12-bit immediates.
func addImmSigned(cur *Cursor, rd, rn HostReg, imm int32) {
	if imm == 0 {
		if rd != rn {
			cur.emitMovRR(rd, rn)
		}
		return
	}
	if imm > 0 {
		cur.emitAddImm(rd, rn, uint32(imm))
	} else {
		cur.emitSubImm(rd, rn, uint32(-imm))
	}
}

// briefExt is the decoded brief index extension word (spec.md §4.E:
// "bits 15=D/A, 14..12=reg, 11=W/L, 10..9=scale, 8=full/brief, 7..0=d8").
type briefExt struct {
	isAddrReg bool
	xn        uint8
	longIndex bool
	scale     uint8
	disp8     int8
	full      bool
}

func decodeBriefExt(ext uint16) briefExt {
	return briefExt{
		isAddrReg: ext&0x8000 != 0,
		xn:        uint8(ext>>12) & 7,
		longIndex: ext&0x0800 != 0,
		scale:     uint8(ext>>9) & 3,
		disp8:     int8(ext & 0xFF),
		full:      ext&0x0100 != 0,
	}
}

// fullExt adds the full-format fields layered on top of a brief word
// (spec.md §4.E: "bit 7=BS, bit 6=IS, bits 5..4=base-disp size, bits
// 2..0=index/indirection").
type fullExt struct {
	briefExt
	baseSuppress  bool
	indexSuppress bool
	baseDispSize  uint8
	iis           uint8
}

func decodeFullExt(ext uint16) fullExt {
	b := decodeBriefExt(ext)
	return fullExt{
		briefExt:      b,
		baseSuppress:  ext&0x0080 != 0,
		indexSuppress: ext&0x0040 != 0,
		baseDispSize:  uint8(ext>>4) & 3,
		iis:           uint8(ext & 7),
	}
}

// loadIndexReg materializes the (possibly sign-extended, scaled) index
// register value for a brief or full indexed EA into a fresh scratch
// register.
func loadIndexReg(cur *Cursor, ra *RegAlloc, b briefExt) HostReg {
	var g guestReg
	if b.isAddrReg {
		g = guestA0 + guestReg(b.xn)
	} else {
		g = guestD0 + guestReg(b.xn)
	}
	idx := ra.CopyFromGuestReg(cur, g)
	if !b.longIndex {
		cur.emitSxth(idx, idx)
	}
	if b.scale > 0 {
		cur.emitLslImm(idx, idx, uint32(b.scale))
	}
	return idx
}

// computeIndexedAddress resolves mode 6 / mode 7-3: brief or full
// extension word index addressing, anchored at base (An, when base is
// not UNALLOC) or at the translation-time-constant PC value baseConst
// (when base is UNALLOC, for the PC-relative indexed forms).
func computeIndexedAddress(cur *Cursor, ra *RegAlloc, gs *GuestStream, base HostReg, baseConst uint32) HostReg {
	ext := gs.Next16()
	b := decodeBriefExt(ext)

	addr := ra.AllocHostReg()
	if base != UNALLOC {
		cur.emitMovRR(addr, base)
	} else {
		cur.emitLoadImm32(addr, baseConst)
	}

	if !b.full {
		idx := loadIndexReg(cur, ra, b)
		cur.emitAddRR(addr, addr, idx)
		ra.FreeHostReg(idx)
		addImmSigned(cur, addr, addr, int32(b.disp8))
		return addr
	}

	f := decodeFullExt(ext)
	if f.baseSuppress {
		cur.emitLoadImm32(addr, 0)
	}

	var baseDisp int32
	switch f.baseDispSize {
	case 2:
		baseDisp = int32(int16(gs.Next16()))
	case 3:
		baseDisp = int32(gs.Next32())
	}
	addImmSigned(cur, addr, addr, baseDisp)

	var idx HostReg = UNALLOC
	if !f.indexSuppress {
		idx = loadIndexReg(cur, ra, f.briefExt)
	}

	preindexed := f.iis != 0 && f.iis <= 3
	postindexed := f.iis >= 5

	if (preindexed || f.iis == 0) && idx != UNALLOC {
		cur.emitAddRR(addr, addr, idx)
		ra.FreeHostReg(idx)
		idx = UNALLOC
	}

	if f.iis != 0 { // any memory-indirection form dereferences the pointer
		memLoad(cur, addr, addr, 0, Long)
	}

	if postindexed && idx != UNALLOC {
		cur.emitAddRR(addr, addr, idx)
		ra.FreeHostReg(idx)
		idx = UNALLOC
	}

	var outerDisp int32
	switch f.iis & 3 {
	case 2:
		outerDisp = int32(int16(gs.Next16()))
	case 3:
		outerDisp = int32(gs.Next32())
	}
	addImmSigned(cur, addr, addr, outerDisp)

	return addr
}

// resolveMemoryAddress computes the effective address for any of the
// memory-referencing EA modes (2-6, 7/0, 7/1, 7/2, 7/3), performing
// pre/post side effects unless addressOnly suppresses them (spec.md
// §4.E "Pre/post side effects"). It returns a host register holding the
// address plus a folded constant offset, so callers that talk to memory
// through an immediate-offset load/store never need a separate ADD.
//
// The returned base is always a register the caller owns and must
// eventually FreeHostReg: modes that would otherwise hand back a live
// guest-register mapping (2, 4 without AddressOnly, 5) copy it into a
// fresh scratch register first, so callers never risk freeing an An
// binding back into the allocator's pool out from under it.
//
// When immOffset is non-nil, readOnly is set, and the mode is 5 or
// 7/2, the base register is returned with a zero offset — the
// immediate-offset shortcut (spec.md §4.E). Mode 5 writes its
// displacement to *immOffset; mode 7/2 folds the displacement into the
// returned register and writes 0 to *immOffset.
func resolveMemoryAddress(cur *Cursor, ra *RegAlloc, gs *GuestStream, mode, reg uint8, sz Size, addressOnly, readOnly bool, immOffset *int32) (base HostReg, offset int32) {
	switch mode {
	case 2: // (An)
		return ra.CopyFromGuestReg(cur, guestA0+guestReg(reg)), 0

	case 3: // (An)+
		g := guestA0 + guestReg(reg)
		if addressOnly {
			return ra.CopyFromGuestReg(cur, g), 0
		}
		same := ra.CopyFromGuestReg(cur, g)
		aw := ra.MapGuestRegForWrite(g)
		cur.emitAddImm(aw, aw, postIncrement(reg, sz))
		return same, 0

	case 4: // -(An)
		g := guestA0 + guestReg(reg)
		if addressOnly {
			// The effective address already reflects the decrement even
			// though the register write is deferred to the caller.
			addr := ra.AllocHostReg()
			cur.emitSubImm(addr, ra.MapGuestReg(cur, g), postIncrement(reg, sz))
			return addr, 0
		}
		aw := ra.MapGuestReg(cur, g)
		cur.emitSubImm(aw, aw, postIncrement(reg, sz))
		ra.SetDirty(g)
		return ra.CopyFromGuestReg(cur, g), 0

	case 5: // (d16,An)
		g := guestA0 + guestReg(reg)
		disp := int32(int16(gs.Next16()))
		if readOnly && addressOnly && immOffset != nil {
			*immOffset = disp
			return ra.CopyFromGuestReg(cur, g), 0
		}
		return ra.CopyFromGuestReg(cur, g), disp

	case 6: // (d8,An,Xn) brief or full
		base := ra.MapGuestReg(cur, guestA0+guestReg(reg))
		return computeIndexedAddress(cur, ra, gs, base, 0), 0

	case 7:
		switch reg {
		case 0: // abs.W
			addr := int32(int16(gs.Next16()))
			r := ra.AllocHostReg()
			cur.emitLoadImm32(r, uint32(addr))
			return r, 0

		case 1: // abs.L
			addr := gs.Next32()
			r := ra.AllocHostReg()
			cur.emitLoadImm32(r, addr)
			return r, 0

		case 2: // (d16,PC) - PC anchored at the extension word's own address
			anchor := gs.Addr
			disp := int32(int16(gs.Next16()))
			target := anchor + uint32(disp)
			r := ra.AllocHostReg()
			cur.emitLoadImm32(r, target)
			if readOnly && addressOnly && immOffset != nil {
				*immOffset = 0
			}
			return r, 0

		case 3: // (d8,PC,Xn) - same anchor convention as mode 7/2
			anchor := gs.Addr
			return computeIndexedAddress(cur, ra, gs, UNALLOC, anchor), 0
		}
	}

	log.Printf("m68k: EA: mode %d reg %d is not a memory-referencing form", mode, reg)
	return UNALLOC, 0
}

// LoadFromEffectiveAddress resolves eaByte and emits the host code that
// loads its operand into dst (allocating dst when it is UNALLOC),
// following the mode table in spec.md §4.E. readOnly lets register-
// direct modes at Long width skip the sign-extend step, since a Long
// read never needs one — but the returned register is still always a
// fresh one the caller owns and may freely FreeHostReg, never the
// guest register's own live mapping.
func LoadFromEffectiveAddress(cur *Cursor, ra *RegAlloc, gs *GuestStream, sz Size, eaByte uint8, dst HostReg, readOnly bool, immOffset *int32) HostReg {
	mode, reg := decodeEA(eaByte)

	switch mode {
	case 0: // Dn
		g := guestD0 + guestReg(reg)
		if readOnly && sz == Long {
			return ra.CopyFromGuestReg(cur, g)
		}
		if dst == UNALLOC {
			dst = ra.AllocHostReg()
		}
		loadSized(cur, dst, ra.MapGuestReg(cur, g), sz)
		return dst

	case 1: // An
		if sz == AddressOnly || sz == Byte {
			log.Printf("m68k: EA: An direct with size %s is invalid", sz)
			return UNALLOC
		}
		g := guestA0 + guestReg(reg)
		if readOnly && sz == Long {
			return ra.CopyFromGuestReg(cur, g)
		}
		if dst == UNALLOC {
			dst = ra.AllocHostReg()
		}
		loadSized(cur, dst, ra.MapGuestReg(cur, g), sz)
		return dst

	case 7:
		if reg == 4 { // #imm
			if dst == UNALLOC {
				dst = ra.AllocHostReg()
			}
			switch sz {
			case Byte:
				cur.emitLoadImm32(dst, uint32(int8(gs.Next16())))
			case Word:
				cur.emitLoadImm32(dst, uint32(int16(gs.Next16())))
			default:
				cur.emitLoadImm32(dst, gs.Next32())
			}
			return dst
		}
	}

	base, off := resolveMemoryAddress(cur, ra, gs, mode, reg, sz, false, readOnly, immOffset)
	if dst == UNALLOC {
		dst = ra.AllocHostReg()
	}
	memLoad(cur, dst, base, off, sz)
	return dst
}

// StoreToEffectiveAddress resolves eaByte and emits the host code that
// writes src to its operand, following the same mode table and pre/post
// side-effect rules as LoadFromEffectiveAddress.
func StoreToEffectiveAddress(cur *Cursor, ra *RegAlloc, gs *GuestStream, sz Size, eaByte uint8, src HostReg) {
	mode, reg := decodeEA(eaByte)

	switch mode {
	case 0: // Dn
		g := guestD0 + guestReg(reg)
		dst := ra.MapGuestReg(cur, g)
		storeSized(cur, dst, src, sz)
		ra.SetDirty(g)
		return

	case 1: // An
		if sz == Byte || sz == AddressOnly {
			log.Printf("m68k: EA: An direct with size %s is invalid", sz)
			return
		}
		g := guestA0 + guestReg(reg)
		dst := ra.MapGuestRegForWrite(g)
		loadSized(cur, dst, src, sz)
		ra.SetDirty(g)
		return

	case 7:
		if reg == 4 {
			log.Printf("m68k: EA: immediate is not a valid store destination")
			return
		}
	}

	base, off := resolveMemoryAddress(cur, ra, gs, mode, reg, sz, false, false, nil)
	memStore(cur, base, off, src, sz)
}

// ComputeEffectiveAddress resolves eaByte to an address only, without
// loading through it (the AddressOnly tag of spec.md §4.E). Register-
// direct and immediate modes are invalid here: LEA-shaped callers never
// target Dn/An/#imm. Pre/post side effects are not performed, and the
// immediate-offset shortcut applies. The Line-9 and Line-B handlers
// (CMPM, SUBX memory form, EOR) call resolveMemoryAddress directly
// rather than this function.
func ComputeEffectiveAddress(cur *Cursor, ra *RegAlloc, gs *GuestStream, eaByte uint8, readOnly bool, immOffset *int32) (base HostReg, offset int32) {
	mode, reg := decodeEA(eaByte)
	if mode == 0 || mode == 1 || (mode == 7 && reg == 4) {
		log.Printf("m68k: EA: mode %d is not address-only capable", mode)
		return UNALLOC, 0
	}
	return resolveMemoryAddress(cur, ra, gs, mode, reg, AddressOnly, true, readOnly, immOffset)
}

// applyPostSideEffect performs the An update that an AddressOnly
// resolution of mode 3 or 4 deferred to the caller (spec.md §4.E
// "Pre/post side effects"). No-op for any other mode. Used by handlers
// that need the same address for both a load and a store (EOR).
func applyPostSideEffect(cur *Cursor, ra *RegAlloc, mode, reg uint8, sz Size) {
	g := guestA0 + guestReg(reg)
	switch mode {
	case 3:
		aw := ra.MapGuestRegForWrite(g)
		cur.emitAddImm(aw, aw, postIncrement(reg, sz))
		ra.SetDirty(g)
	case 4:
		aw := ra.MapGuestRegForWrite(g)
		cur.emitSubImm(aw, aw, postIncrement(reg, sz))
		ra.SetDirty(g)
	}
}
