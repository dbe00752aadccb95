package m68k

// opcodeHandler emits the host code for one m68k instruction. gs is
// positioned just past the opcode word on entry; the handler must
// consume exactly the extension words the instruction's addressing
// modes require and call pc.AdvancePC exactly once before returning
// (spec.md §8 invariants 1-2).
type opcodeHandler func(cur *Cursor, ra *RegAlloc, pc *PCState, gs *GuestStream, opcode uint16)

// opcodeDescriptor is the static per-opcode record spec.md §3 names:
// "{handler, sr_needs, sr_sets, base_length, has_ea, op_size}". A nil
// handler denotes illegal/not-implemented (spec.md §4.G).
type opcodeDescriptor struct {
	handler    opcodeHandler
	srNeeds    uint32
	srSets     uint32
	baseLength int32
	hasEA      bool
	opSize     Size
}

// opcodeTable is the 512-entry, low-9-bit-indexed per-family dispatch
// table spec.md §4.G describes. The register field that distinguishes
// instances sharing one descriptor (Dn/An/data-quick selectors living
// in bits above the low 9) is decoded by the handler itself from the
// full opcode word, not baked into the table index.
type opcodeTable [512]opcodeDescriptor

// lookup returns the descriptor governing opcode, indexed by its low 9
// bits.
func (t *opcodeTable) lookup(opcode uint16) *opcodeDescriptor {
	return &t[opcode&0x1FF]
}

// fillRange installs desc into every slot in [lo,hi], the teacher's
// registerXXX range-fill idiom (ops_arith.go) generalized from a 64K
// full-opcode table to this spec's 9-bit per-family table.
func (t *opcodeTable) fillRange(lo, hi int, desc opcodeDescriptor) {
	for i := lo; i <= hi; i++ {
		t[i] = desc
	}
}

// fillOne installs desc into a single slot.
func (t *opcodeTable) fillOne(idx int, desc opcodeDescriptor) {
	t[idx] = desc
}
