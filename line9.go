package m68k

// Line-9 is the subtraction family: SUB, SUBA, SUBX (spec.md §1). The
// table is indexed by the low 9 bits of the opcode word — opmode(3),
// mode(3), reg(3) — with the destination register Rn (bits 11-9) read
// from the full opcode inside each handler, since many Rn values share
// one descriptor (grounded on the teacher's registerSUB/registerSUBA/
// registerSUBX range-fill loops in ops_arith.go, dropping their outer
// dn loop since Rn is no longer baked into the table index).
//
// SUBI and SUBQ are not populated here: on real 68000 hardware they
// live under opcode lines 0000 and 0101 respectively, not under the
// 1001 prefix this table covers. Opcodes in those lines dispatch
// through EMIT_line0/EMIT_line5, which (per translator.go) emit the
// illegal-instruction trap, consistent with the Non-goal excluding
// exhaustive family coverage. See DESIGN.md.
var line9Table opcodeTable

func init() {
	registerLine9()
}

func registerLine9() {
	for szBits := uint16(0); szBits < 3; szBits++ {
		sz := Size(1 << szBits)

		// <ea>,Dn -> Dn := Dn - ea
		for mode := uint16(0); mode < 8; mode++ {
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 4 {
					continue
				}
				if mode == 1 && sz == Byte {
					continue
				}
				idx := int(szBits<<6 | mode<<3 | reg)
				line9Table.fillOne(idx, opcodeDescriptor{
					handler: subToDnHandler, srSets: SR_CCR,
					baseLength: 1, hasEA: true, opSize: sz,
				})
			}
		}

		// Dn,<ea> -> ea := ea - Dn, except mode 0/1 which are SUBX's space.
		for mode := uint16(2); mode < 8; mode++ {
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				idx := int((szBits+4)<<6 | mode<<3 | reg)
				line9Table.fillOne(idx, opcodeDescriptor{
					handler: subToEAHandler, srSets: SR_CCR,
					baseLength: 1, hasEA: true, opSize: sz,
				})
			}
		}
	}

	for szBits := uint16(0); szBits < 3; szBits++ {
		sz := Size(1 << szBits)
		for ry := uint16(0); ry < 8; ry++ {
			line9Table.fillOne(int(0x100|szBits<<6|ry), opcodeDescriptor{
				handler: subXRegHandler, srNeeds: ccX, srSets: SR_CCR,
				baseLength: 1, hasEA: false, opSize: sz,
			})
			line9Table.fillOne(int(0x108|szBits<<6|ry), opcodeDescriptor{
				handler: subXMemHandler, srNeeds: ccX, srSets: SR_CCR,
				baseLength: 1, hasEA: false, opSize: sz,
			})
		}
	}

	for _, szBit := range []uint16{3, 7} {
		sz := Word
		if szBit == 7 {
			sz = Long
		}
		for mode := uint16(0); mode < 8; mode++ {
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 4 {
					continue
				}
				idx := int(szBit<<6 | mode<<3 | reg)
				line9Table.fillOne(idx, opcodeDescriptor{
					handler: subaHandler, baseLength: 1,
					hasEA: true, opSize: sz,
				})
			}
		}
	}
}

// subToDnHandler translates SUB.{B,W,L} <ea>,Dn: Dn := Dn - ea, setting
// the full CCR (spec.md §4.F representative handler shape).
func subToDnHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	rn := guestD0 + guestReg((opcode>>9)&7)
	sz := Size(1 << ((opcode >> 6) & 3))
	eaByte := uint8(opcode & 0x3F)
	wordsBefore := gs.Words

	dn := ra.MapGuestReg(cur, rn)
	src := LoadFromEffectiveAddress(cur, ra, gs, sz, eaByte, UNALLOC, true, nil)

	var result HostReg
	if sz == Long {
		result = ra.AllocHostReg()
		cur.emitSubsRR(result, dn, src)
		GetNZnCVX(cur, ra, ccOpSub, SR_CCR)
	} else {
		a, b := msbNormalize(cur, ra, dn, src, sz)
		cur.emitSubsRR(a, a, b)
		GetNZnCVX(cur, ra, ccOpSub, SR_CCR)
		cur.emitLsrImm(a, a, 32-sz.Bits())
		ra.FreeHostReg(b)
		result = a
	}

	dnw := ra.MapGuestRegForWrite(rn)
	storeSized(cur, dnw, result, sz)
	ra.SetDirty(rn)

	ra.FreeHostReg(result)
	ra.FreeHostReg(src)

	extWords := int32(gs.Words - wordsBefore)
	pc.AdvancePC(2 * (1 + extWords))
}

// subToEAHandler translates SUB.{B,W,L} Dn,<ea>: ea := ea - Dn.
func subToEAHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	rn := guestD0 + guestReg((opcode>>9)&7)
	sz := Size(1 << (((opcode >> 6) & 7) - 4))
	eaByte := uint8(opcode & 0x3F)
	wordsBefore := gs.Words

	dn := ra.MapGuestReg(cur, rn)
	base, off := resolveMemoryAddress(cur, ra, gs, (eaByte>>3)&7, eaByte&7, sz, false, false, nil)
	dst := ra.AllocHostReg()
	memLoad(cur, dst, base, off, sz)

	var result HostReg
	if sz == Long {
		result = ra.AllocHostReg()
		cur.emitSubsRR(result, dst, dn)
		GetNZnCVX(cur, ra, ccOpSub, SR_CCR)
	} else {
		a, b := msbNormalize(cur, ra, dst, dn, sz)
		cur.emitSubsRR(a, a, b)
		GetNZnCVX(cur, ra, ccOpSub, SR_CCR)
		cur.emitLsrImm(a, a, 32-sz.Bits())
		ra.FreeHostReg(b)
		result = a
	}

	memStore(cur, base, off, result, sz)

	ra.FreeHostReg(result)
	ra.FreeHostReg(dst)
	ra.FreeHostReg(base)

	extWords := int32(gs.Words - wordsBefore)
	pc.AdvancePC(2 * (1 + extWords))
}

// subaHandler translates SUBA.{W,L} <ea>,An: An := An - ea, sign-
// extending a Word source to Long before the subtract. Never affects
// the CCR (spec.md §4.F).
func subaHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	an := guestA0 + guestReg((opcode>>9)&7)
	sz := Word
	if (opcode>>6)&7 == 7 {
		sz = Long
	}
	eaByte := uint8(opcode & 0x3F)
	wordsBefore := gs.Words

	src := LoadFromEffectiveAddress(cur, ra, gs, sz, eaByte, UNALLOC, true, nil)
	aw := ra.MapGuestReg(cur, an)
	cur.emitSubRR(aw, aw, src)
	ra.SetDirty(an)
	ra.FreeHostReg(src)

	extWords := int32(gs.Words - wordsBefore)
	pc.AdvancePC(2 * (1 + extWords))
}

// emitSubXCore emits d - s - X for either a register or memory SUBX
// operand pair, aligning sub-Long widths to the host's MSB so a single
// SUBS reproduces the narrow flags, and honoring the "Z only clears,
// never sets" rule (spec.md §4.F, §9 Open Question, pinned against
// scenario S3). Returns a fresh register holding the (still width-
// aligned-to-zero, ready-to-BFI) result; the caller frees d and s.
func emitSubXCore(cur *Cursor, ra *RegAlloc, d, s HostReg, sz Size) HostReg {
	ccReg := ra.GetCC(cur)
	mask := ra.AllocHostReg()
	cur.emitLoadImm32(mask, ccX)
	xBit := ra.AllocHostReg()
	cur.emitAndRR(xBit, ccReg, mask)
	cur.emitLsrImm(xBit, xBit, 4)
	ra.FreeHostReg(mask)

	var a, b HostReg
	shift := uint32(0)
	if sz == Long {
		a, b = d, s
	} else {
		shift = 32 - sz.Bits()
		a = ra.AllocHostReg()
		b = ra.AllocHostReg()
		cur.emitLslImm(a, d, shift)
		cur.emitLslImm(b, s, shift)
		cur.emitLslImm(xBit, xBit, shift)
	}

	subtrahend := ra.AllocHostReg()
	cur.emitAddRR(subtrahend, b, xBit)
	result := ra.AllocHostReg()
	cur.emitSubsRR(result, a, subtrahend)

	GetNZnCVX(cur, ra, ccOpSub, ccN|ccV|ccC|ccX)
	ClearFlagsConditional(cur, ra, ccZ, condNE)

	if shift != 0 {
		cur.emitLsrImm(result, result, shift)
		ra.FreeHostReg(a)
		ra.FreeHostReg(b)
	}
	ra.FreeHostReg(subtrahend)
	ra.FreeHostReg(xBit)
	return result
}

// subXRegHandler translates SUBX.{B,W,L} Dy,Dx.
func subXRegHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	rx := guestD0 + guestReg((opcode>>9)&7)
	ry := guestD0 + guestReg(opcode&7)
	sz := Size(1 << ((opcode >> 6) & 3))

	dx := ra.MapGuestReg(cur, rx)
	sy := ra.MapGuestReg(cur, ry)
	result := emitSubXCore(cur, ra, dx, sy, sz)

	dxw := ra.MapGuestRegForWrite(rx)
	storeSized(cur, dxw, result, sz)
	ra.SetDirty(rx)
	ra.FreeHostReg(result)

	pc.AdvancePC(2)
}

// subXMemHandler translates SUBX.{B,W,L} -(Ay),-(Ax), the memory-to-
// memory form (spec.md §4.F).
func subXMemHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	ax := uint8((opcode >> 9) & 7)
	ay := uint8(opcode & 7)
	sz := Size(1 << ((opcode >> 6) & 3))

	srcBase, srcOff := resolveMemoryAddress(cur, ra, gs, 4, ay, sz, false, false, nil)
	s := ra.AllocHostReg()
	memLoad(cur, s, srcBase, srcOff, sz)
	ra.FreeHostReg(srcBase)

	dstBase, dstOff := resolveMemoryAddress(cur, ra, gs, 4, ax, sz, false, false, nil)
	d := ra.AllocHostReg()
	memLoad(cur, d, dstBase, dstOff, sz)

	result := emitSubXCore(cur, ra, d, s, sz)
	memStore(cur, dstBase, dstOff, result, sz)

	ra.FreeHostReg(dstBase)
	ra.FreeHostReg(s)
	ra.FreeHostReg(d)
	ra.FreeHostReg(result)

	pc.AdvancePC(2)
}

// EMIT_line9 dispatches one Line-9 opcode: fetch, look up, translate,
// or fall back to the illegal-instruction trap on a null handler.
func EMIT_line9(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream) {
	opcode := gs.Next16()
	desc := line9Table.lookup(opcode)
	if desc.handler == nil {
		emitIllegalTrap(cur, ra, pc, opcode)
		pc.AdvancePC(2)
		return
	}
	desc.handler(cur, ra, pc, gs, opcode)
}

// GetSR_line9 reports the needs/sets mask for opcode, packed per
// spec.md §4.F.2: "(needs<<16)|sets".
func GetSR_line9(opcode uint16) uint32 {
	desc := line9Table.lookup(opcode)
	return desc.srNeeds<<16 | desc.srSets
}

// M68K_GetLine9Length statically predicts the word length of the Line-9
// opcode at the head of gs (spec.md §4.H), without mutating gs.
func M68K_GetLine9Length(gs GuestStream) int32 {
	opcode := gs.Next16()
	desc := line9Table.lookup(opcode)
	if desc.handler == nil {
		return 1
	}
	return lineLength(desc, gs, uint8(opcode&0x3F))
}
