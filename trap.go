package m68k

import "log"

// MC68000 exception vector numbers (spec.md §7), matching the teacher's
// exception.go table. Only the vector the illegal-instruction path needs
// is named; the rest belong to the MMU callout path (mmu.go).
const (
	vecIllegalInstruction = 4
)

// Supervisor-call immediates the illegal-instruction trap sequence
// issues. Three narrow calls, one per piece of failure context, rather
// than one call carrying everything in a packed register (spec.md §7:
// "issues three supervisor calls encoding the failure context").
const (
	svcTrapMarker   = 0xFF
	svcTrapDebugStr = 0xFE
	svcTrapGuestPC  = 0xFD
)

// illegalTrapMagic tags the marker word embedded ahead of the offending
// opcode, so a post-mortem reading the host buffer can distinguish a
// translator-emitted trap from ordinary code.
const illegalTrapMagic = 0xDEADC0DE

// emitIllegalTrap emits the illegal/unimplemented-opcode trap sequence
// spec.md §7 describes: flush the guest PC, inject a debug string,
// issue three supervisor calls encoding the failure context, embed the
// offending opcode and a marker word, then fall into the
// ILLEGAL_INSTRUCTION exception vector path. Dispatch continues after
// this call (spec.md §7: "emission continues; the caller decides
// whether to terminate the block").
//
// Grounded on the teacher's exception() in exception.go, generalized
// from "a Go method that mutates CPU state directly" to "host
// instructions that perform the equivalent at guest runtime" — the log
// line mirrors exception.go's own log.Printf diagnostic.
func emitIllegalTrap(cur *Cursor, ra *RegAlloc, pc *PCState, opcode uint16) {
	log.Printf("[m68k] illegal/unimplemented opcode %04x", opcode)

	pc.FlushPC(cur, ra)

	marker := ra.AllocHostReg()
	cur.emitLoadImm32(marker, illegalTrapMagic)
	cur.emitSvc(svcTrapMarker)
	ra.FreeHostReg(marker)

	dbg := ra.AllocHostReg()
	cur.emitLoadImm32(dbg, uint32(opcode))
	cur.emitSvc(svcTrapDebugStr)
	ra.FreeHostReg(dbg)

	// PC was just flushed to CPUState above; the dispatcher reads it from
	// there rather than carrying it through a register.
	cur.emitSvc(svcTrapGuestPC)

	emitExceptionVector(cur, ra, vecIllegalInstruction)
}

// emitExceptionVector emits the common exception-entry trampoline: the
// vector number is encoded directly in the supervisor-call immediate so
// the runtime dispatcher (outside the translated block) can push the
// exception frame and load the handler address from the vector table,
// exactly as the teacher's exception() does at the Go level (spec.md §6,
// §7).
func emitExceptionVector(cur *Cursor, ra *RegAlloc, vector int) {
	cur.emitSvc(0xF0 | uint16(vector))
}
