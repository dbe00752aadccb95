package m68k

// RegAlloc binds the sixteen guest registers, the CCR, and the guest PC
// to a fixed pool of physical ARM64 registers for the duration of a
// translated block (spec.md §4.B). Unlike the teacher's interpreter,
// which holds guest state directly in Go struct fields, the allocator
// here tracks which ARM64 register currently *represents* each guest
// register inside emitted code. The host pool is fixed: when it is
// exhausted, allocation panics; no register is spilled to CPUState to
// make room.
type RegAlloc struct {
	guest    [numGuestRegs]regBinding
	free     []HostReg
	base     HostReg // hostState: the register holding *CPUState
	scratchN int      // scratch registers handed out via AllocHostReg, for diagnostics
}

type regBinding struct {
	host   HostReg
	mapped bool
	dirty  bool
}

// NewRegAlloc creates an allocator for one translation unit. base must be
// a register already holding a pointer to the active CPUState (typically
// hostState/X28, set up once by the caller's block prologue).
func NewRegAlloc(base HostReg) *RegAlloc {
	ra := &RegAlloc{base: base}
	ra.free = append(ra.free, allocatableHostRegs...)
	return ra
}

// takeFree pops an arbitrary host register from the free pool. The
// allocator does not guarantee any particular order (spec.md §4.B:
// "obey LIFO/arbitrary-order discipline").
func (ra *RegAlloc) takeFree() HostReg {
	if len(ra.free) == 0 {
		panic("m68k: register allocator exhausted: spilling required but not implemented for this pool size")
	}
	n := len(ra.free) - 1
	r := ra.free[n]
	ra.free = ra.free[:n]
	return r
}

// give returns a host register to the free pool. Tolerant of UNALLOC so
// call sites can free unconditionally (spec.md §4.B, §9).
func (ra *RegAlloc) give(r HostReg) {
	if r == UNALLOC {
		return
	}
	ra.free = append(ra.free, r)
}

// spillLoad emits the load that materializes guest register g from
// CPUState into its bound host register. The CCR occupies only the low
// byte of SR: it is loaded/stored as a half-word so the upper SR bits
// (trace, supervisor, interrupt mask) are visible for bit 4 (X) and S
// reads without disturbing the other guest registers' layout.
func (ra *RegAlloc) spillLoad(cur *Cursor, g guestReg) {
	b := &ra.guest[g]
	if g == guestCCR {
		cur.emitLdrhImm(b.host, ra.base, g.offset())
		return
	}
	cur.emitLdrImm(b.host, ra.base, g.offset())
}

// spillStore emits the store that writes a dirty guest register back to
// CPUState. Only called from FlushAll, never implicitly.
func (ra *RegAlloc) spillStore(cur *Cursor, g guestReg) {
	b := &ra.guest[g]
	if g == guestCCR {
		cur.emitStrhImm(b.host, ra.base, g.offset())
		return
	}
	cur.emitStrImm(b.host, ra.base, g.offset())
}

// MapGuestReg returns a host register currently representing guest
// register g, loading it from CPUState on first use within this block.
// Idempotent: repeated calls for the same g return the same register
// until it is freed.
func (ra *RegAlloc) MapGuestReg(cur *Cursor, g guestReg) HostReg {
	b := &ra.guest[g]
	if b.mapped {
		return b.host
	}
	b.host = ra.takeFree()
	b.mapped = true
	ra.spillLoad(cur, g)
	return b.host
}

// MapGuestRegForWrite returns a host register for g without loading its
// old value, since the caller intends to overwrite it wholesale. Marks
// the register dirty immediately: a destination-only mapping is always
// considered written.
func (ra *RegAlloc) MapGuestRegForWrite(g guestReg) HostReg {
	b := &ra.guest[g]
	if b.mapped {
		b.dirty = true
		return b.host
	}
	b.host = ra.takeFree()
	b.mapped = true
	b.dirty = true
	return b.host
}

// CopyFromGuestReg allocates a fresh scratch register and copies guest
// register g's current value into it. The caller may mutate the copy
// freely; it never aliases g's own mapping.
func (ra *RegAlloc) CopyFromGuestReg(cur *Cursor, g guestReg) HostReg {
	src := ra.MapGuestReg(cur, g)
	dst := ra.AllocHostReg()
	cur.emitMovRR(dst, src)
	return dst
}

// AllocHostReg returns a scratch register carrying no guest-register
// binding. The caller must FreeHostReg it.
func (ra *RegAlloc) AllocHostReg() HostReg {
	ra.scratchN++
	return ra.takeFree()
}

// FreeHostReg returns r to the free pool. UNALLOC is a harmless no-op,
// matching the teacher's "free the sentinel harmlessly" idiom (spec.md §9).
func (ra *RegAlloc) FreeHostReg(r HostReg) {
	if r == UNALLOC {
		return
	}
	ra.scratchN--
	ra.give(r)
}

// SetDirty marks guest register g as needing writeback before the next
// flush point. Writing to a mapped-but-not-dirty register without
// calling SetDirty is a contract violation (spec.md §3).
func (ra *RegAlloc) SetDirty(g guestReg) {
	ra.guest[g].dirty = true
}

// GetCC returns the host register holding the translated CCR bits,
// mapping it (loading from CPUState) if not already resident.
func (ra *RegAlloc) GetCC(cur *Cursor) HostReg {
	return ra.MapGuestReg(cur, guestCCR)
}

// ModifyCC returns a read/write view of the CCR host register and marks
// it dirty, since the caller intends to change flag bits.
func (ra *RegAlloc) ModifyCC(cur *Cursor) HostReg {
	r := ra.MapGuestReg(cur, guestCCR)
	ra.SetDirty(guestCCR)
	return r
}

// FreeGuestReg releases a guest-register mapping back to the free host
// pool without writing it back. Callers that need the value preserved
// must flush first.
func (ra *RegAlloc) FreeGuestReg(g guestReg) {
	b := &ra.guest[g]
	if !b.mapped {
		return
	}
	ra.give(b.host)
	*b = regBinding{}
}

// FlushAll writes back every dirty guest-register mapping to CPUState
// and releases its host register. Called at block exit or ahead of any
// callout that may observe guest state (spec.md §4.C, §5).
func (ra *RegAlloc) FlushAll(cur *Cursor) {
	for g := guestReg(0); g < numGuestRegs; g++ {
		b := &ra.guest[g]
		if !b.mapped {
			continue
		}
		if b.dirty {
			ra.spillStore(cur, g)
		}
		ra.give(b.host)
		*b = regBinding{}
	}
}
