package m68k

// The MMU/TLB scaffold is an external collaborator, not part of this
// core (spec.md §3 Non-goals, §5 "Out of scope"): "the guest-memory
// MMU/TLB scaffold (it is a stub in the source)... The MMU slow-path
// entry points are part of the core's contract (callouts it emits), not
// its implementation." This file names that contract so emitted code has
// something concrete to call against; it does not implement a TLB.

// MMUSize distinguishes the three callout widths the ABI exposes
// (spec.md §6: "u8/16/32 mmu_ldN").
type MMUSize uint8

const (
	MMUByte MMUSize = 1
	MMUWord MMUSize = 2
	MMULong MMUSize = 4
)

// TLBEntry mirrors the opaque tlb_entry* the ABI passes around; the core
// never dereferences its fields, only carries the pointer through
// tlb_lookup/tlb_fill.
type TLBEntry struct {
	LogicalAddr uint32
	HostAddr    uintptr
	Writable    bool
	Supervisor  bool
}

// MMUCallouts is the external ABI spec.md §6 names, expressed as Go
// function values rather than C function pointers. A caller wires a
// concrete implementation in; the translator only ever emits calls
// against the contract, never implements the slow path itself.
type MMUCallouts struct {
	Enabled func() bool

	// LdN/StN are the slow-path accessors. trap reports a bus/address
	// error the emitted code must branch to the exception vector for
	// (spec.md §7 "MMU trap").
	Ld8  func(logicalAddr uint32, isInstr, super bool) (val uint8, trap bool)
	Ld16 func(logicalAddr uint32, isInstr, super bool) (val uint16, trap bool)
	Ld32 func(logicalAddr uint32, isInstr, super bool) (val uint32, trap bool)
	St8  func(logicalAddr uint32, val uint8, super bool) (trap bool)
	St16 func(logicalAddr uint32, val uint16, super bool) (trap bool)
	St32 func(logicalAddr uint32, val uint32, super bool) (trap bool)

	TLBLookup func(la uint32) *TLBEntry
	TLBFill   func(isInstr bool, la uint32, isWrite, super bool) (*TLBEntry, bool)
}

// mmuSlowPathVector is the exception vector the emitted branch-on-trap
// sequence targets when a slow-path callout reports a fault (spec.md §7:
// "bus error / address error"). Matches the teacher's vecBusError.
const mmuSlowPathVector = 2

// emitMMUGuard emits the "call mmu_enabled, skip the slow path when it
// reports false" sequence shared by every guarded memory access. Returns
// the word index of the conditional branch so the caller can patch it to
// land just past the fast-path direct load/store it guards (spec.md §6:
// "Emitted host code calls these only when the MMU is enabled;
// otherwise it emits direct loads/stores against the identity-mapped
// host address").
//
// Not yet wired into ea.go's memLoad/memStore: those implement the
// always-enabled identity-mapped fast path, matching every scenario in
// spec.md §8 (none of S1-S6 exercises the MMU). See DESIGN.md.
func emitMMUGuard(cur *Cursor, ra *RegAlloc, enabledFn HostReg) int {
	cur.emitBlr(enabledFn)
	cur.emitCmpImm(hostScratch0, 0)
	return cur.emitBCond(condEQ)
}
