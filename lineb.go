package m68k

// Line-B is the compare/EOR family: CMP, CMPA, CMPM, EOR (spec.md §1).
// Grounded on the teacher's registerCMP/registerCMPA/registerCMPM/
// registerEOR range-fill loops in ops_arith.go and ops_logic.go,
// dropping their outer Dn/An loop for the same reason line9.go does.
//
// CMPI and EORI are not populated here: on real 68000 hardware their
// immediate forms live under opcode line 0000, not the 1011 prefix
// this table covers. Those opcodes dispatch through EMIT_line0, which
// (per translator.go) emits the illegal-instruction trap. See
// DESIGN.md.
var lineBTable opcodeTable

func init() {
	registerLineB()
}

func registerLineB() {
	for szBits := uint16(0); szBits < 3; szBits++ {
		sz := Size(1 << szBits)

		// CMP <ea>,Dn
		for mode := uint16(0); mode < 8; mode++ {
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 4 {
					continue
				}
				if mode == 1 && sz == Byte {
					continue
				}
				idx := int(szBits<<6 | mode<<3 | reg)
				lineBTable.fillOne(idx, opcodeDescriptor{
					handler: cmpHandler, srSets: SR_CCR &^ ccX,
					baseLength: 1, hasEA: true, opSize: sz,
				})
			}
		}

		// EOR Dn,<ea>, mode 1 reserved for CMPM.
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				idx := int((szBits+4)<<6 | mode<<3 | reg)
				lineBTable.fillOne(idx, opcodeDescriptor{
					handler: eorHandler, srSets: ccN | ccZ | ccV | ccC,
					baseLength: 1, hasEA: true, opSize: sz,
				})
			}
		}

		for reg := uint16(0); reg < 8; reg++ {
			idx := int((szBits+4)<<6 | 1<<3 | reg)
			lineBTable.fillOne(idx, opcodeDescriptor{
				handler: cmpmHandler, srSets: SR_CCR &^ ccX,
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
				lineBTable.fillOne(idx, opcodeDescriptor{
					handler: cmpaHandler, srSets: SR_CCR &^ ccX,
					baseLength: 1, hasEA: true, opSize: sz,
				})
			}
		}
	}
}

// cmpHandler translates CMP.{B,W,L} <ea>,Dn: Dn - ea, discarding the
// result and setting NZVC (never X).
func cmpHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	dn := guestD0 + guestReg((opcode>>9)&7)
	sz := Size(1 << ((opcode >> 6) & 3))
	eaByte := uint8(opcode & 0x3F)
	wordsBefore := gs.Words

	d := ra.MapGuestReg(cur, dn)
	src := LoadFromEffectiveAddress(cur, ra, gs, sz, eaByte, UNALLOC, true, nil)

	if sz == Long {
		result := ra.AllocHostReg()
		cur.emitSubsRR(result, d, src)
		GetNZnCV(cur, ra, ccOpSub, SR_CCR&^ccX)
		ra.FreeHostReg(result)
	} else {
		a, b := msbNormalize(cur, ra, d, src, sz)
		cur.emitSubsRR(a, a, b)
		GetNZnCV(cur, ra, ccOpSub, SR_CCR&^ccX)
		ra.FreeHostReg(a)
		ra.FreeHostReg(b)
	}
	ra.FreeHostReg(src)

	extWords := int32(gs.Words - wordsBefore)
	pc.AdvancePC(2 * (1 + extWords))
}

// cmpaHandler translates CMPA.{W,L} <ea>,An: always a Long-width
// compare, sign-extending a Word source first (spec.md §4.F, grounded
// on the teacher's opCMPA which always calls setFlagsCmp at Long width).
func cmpaHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	an := guestA0 + guestReg((opcode>>9)&7)
	sz := Word
	if (opcode>>6)&7 == 7 {
		sz = Long
	}
	eaByte := uint8(opcode & 0x3F)
	wordsBefore := gs.Words

	a := ra.MapGuestReg(cur, an)
	src := LoadFromEffectiveAddress(cur, ra, gs, sz, eaByte, UNALLOC, true, nil)
	result := ra.AllocHostReg()
	cur.emitSubsRR(result, a, src)
	GetNZnCV(cur, ra, ccOpSub, SR_CCR&^ccX)
	ra.FreeHostReg(result)
	ra.FreeHostReg(src)

	extWords := int32(gs.Words - wordsBefore)
	pc.AdvancePC(2 * (1 + extWords))
}

// cmpmHandler translates CMPM.{B,W,L} (Ay)+,(Ax)+: both operands post-
// increment exactly once, per mode-3 EA semantics (spec.md §4.F,
// matches scenario S5).
func cmpmHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	ax := uint8((opcode >> 9) & 7)
	ay := uint8(opcode & 7)
	sz := Size(1 << ((opcode >> 6) & 3))

	srcBase, srcOff := resolveMemoryAddress(cur, ra, gs, 3, ay, sz, false, false, nil)
	s := ra.AllocHostReg()
	memLoad(cur, s, srcBase, srcOff, sz)

	dstBase, dstOff := resolveMemoryAddress(cur, ra, gs, 3, ax, sz, false, false, nil)
	d := ra.AllocHostReg()
	memLoad(cur, d, dstBase, dstOff, sz)

	if sz == Long {
		result := ra.AllocHostReg()
		cur.emitSubsRR(result, d, s)
		GetNZnCV(cur, ra, ccOpSub, SR_CCR&^ccX)
		ra.FreeHostReg(result)
	} else {
		a, b := msbNormalize(cur, ra, d, s, sz)
		cur.emitSubsRR(a, a, b)
		GetNZnCV(cur, ra, ccOpSub, SR_CCR&^ccX)
		ra.FreeHostReg(a)
		ra.FreeHostReg(b)
	}
	ra.FreeHostReg(s)
	ra.FreeHostReg(d)

	pc.AdvancePC(2)
}

// eorHandler translates EOR.{B,W,L} Dn,<ea>: ea := ea ^ Dn, clearing V
// and C and setting N/Z from the result (spec.md §4.F: "EOR writes back
// to memory or register... and sets NZ, clears VC"). Uses AddressOnly
// to resolve the address once and reuse it for both the load and the
// store, applying any pre/post side effect itself afterward.
func eorHandler(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16) {
	dn := guestD0 + guestReg((opcode>>9)&7)
	sz := Size(1 << (((opcode >> 6) & 7) - 4))
	eaByte := uint8(opcode & 0x3F)
	mode, reg := decodeEA(eaByte)
	wordsBefore := gs.Words

	d := ra.MapGuestReg(cur, dn)

	if mode == 0 { // EOR Dn,Dn: register-direct destination, no memory EA.
		destReg := guestD0 + guestReg(reg)
		dst := ra.MapGuestReg(cur, destReg)
		result := ra.AllocHostReg()
		cur.emitEorRR(result, dst, d)

		flagVal := ra.AllocHostReg()
		loadSized(cur, flagVal, result, sz)
		cur.emitCmpImm(flagVal, 0)
		ra.FreeHostReg(flagVal)
		ClearFlags(cur, ra, ccV|ccC)
		setFlagBit(cur, ra, 3, condMI)
		setFlagBit(cur, ra, 2, condEQ)

		dstw := ra.MapGuestRegForWrite(destReg)
		storeSized(cur, dstw, result, sz)
		ra.SetDirty(destReg)
		ra.FreeHostReg(result)

		extWords := int32(gs.Words - wordsBefore)
		pc.AdvancePC(2 * (1 + extWords))
		return
	}

	base, off := resolveMemoryAddress(cur, ra, gs, mode, reg, sz, true, false, nil)

	dst := ra.AllocHostReg()
	memLoad(cur, dst, base, off, sz)
	result := ra.AllocHostReg()
	cur.emitEorRR(result, dst, d)

	flagVal := ra.AllocHostReg()
	loadSized(cur, flagVal, result, sz)
	cur.emitCmpImm(flagVal, 0)
	ra.FreeHostReg(flagVal)
	ClearFlags(cur, ra, ccV|ccC)
	setFlagBit(cur, ra, 3, condMI)
	setFlagBit(cur, ra, 2, condEQ)

	memStore(cur, base, off, result, sz)
	applyPostSideEffect(cur, ra, mode, reg, sz)

	ra.FreeHostReg(dst)
	ra.FreeHostReg(result)
	ra.FreeHostReg(base)

	extWords := int32(gs.Words - wordsBefore)
	pc.AdvancePC(2 * (1 + extWords))
}

// EMIT_lineB dispatches one Line-B opcode.
func EMIT_lineB(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream) {
	opcode := gs.Next16()
	desc := lineBTable.lookup(opcode)
	if desc.handler == nil {
		emitIllegalTrap(cur, ra, pc, opcode)
		pc.AdvancePC(2)
		return
	}
	desc.handler(cur, ra, pc, gs, opcode)
}

// GetSR_lineB reports the needs/sets mask for opcode.
func GetSR_lineB(opcode uint16) uint32 {
	desc := lineBTable.lookup(opcode)
	return desc.srNeeds<<16 | desc.srSets
}

// M68K_GetLineBLength statically predicts the word length of the
// Line-B opcode at the head of gs.
func M68K_GetLineBLength(gs GuestStream) int32 {
	opcode := gs.Next16()
	desc := lineBTable.lookup(opcode)
	if desc.handler == nil {
		return 1
	}
	return lineLength(desc, gs, uint8(opcode&0x3F))
}
