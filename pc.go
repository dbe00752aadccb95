package m68k

// PCState tracks the guest PC as an unflushed delta rather than writing
// CPUState.PC after every instruction (spec.md §4.C). Opcode emitters
// call AdvancePC once per instruction. GetOffsetPC folds the pending
// delta into an offset; the EA generator does not call it, since it
// resolves PC-relative modes from the guest stream address (gs.Addr).
type PCState struct {
	delta int32
}

// GetOffsetPC adjusts *off to account for the accumulated unflushed
// delta, so a PC-relative EA computed against *off still lands on the
// correct absolute address even though CPUState.PC has not been
// rewritten yet.
func (p *PCState) GetOffsetPC(off *int32) {
	*off += p.delta
}

// AdvancePC records that the guest PC has logically moved forward by
// nBytes, without emitting anything. Per spec.md §8 invariant 2, this
// must be called exactly once per translated instruction with
// 2*(1+ext_words).
func (p *PCState) AdvancePC(nBytes int32) {
	p.delta += nBytes
}

// FlushPC materializes the accumulated delta into CPUState.PC and
// resets it to zero. Required before any control-flow edge, exception,
// or callout that may read the guest PC (spec.md §4.C, §5).
func (p *PCState) FlushPC(cur *Cursor, ra *RegAlloc) {
	if p.delta == 0 {
		return
	}
	pcReg := ra.MapGuestReg(cur, guestPC)
	if p.delta > 0 {
		cur.emitAddImm(pcReg, pcReg, uint32(p.delta))
	} else {
		cur.emitSubImm(pcReg, pcReg, uint32(-p.delta))
	}
	ra.SetDirty(guestPC)
	p.delta = 0
}

// Pending returns the current unflushed delta, for diagnostics and tests.
func (p *PCState) Pending() int32 {
	return p.delta
}
