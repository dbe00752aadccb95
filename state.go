package m68k

// CPUState is the in-memory guest register file that emitted host code
// addresses through the reserved base-pointer register (hostState).
// Layout mirrors the teacher interpreter's Registers struct, but here it
// is a fixed memory layout rather than a Go struct the core reads
// directly: the translator only ever knows byte offsets into it.
type CPUState struct {
	D   [8]uint32 // +0   data registers D0-D7
	A   [8]uint32 // +32  address registers A0-A7 (A7 is the active SP)
	PC  uint32    // +64  program counter
	SR  uint16    // +68  status register (low byte is the CCR)
	USP uint32    // +72  shadowed user stack pointer
	SSP uint32    // +76  shadowed supervisor stack pointer
}

// Byte offsets of CPUState fields, as seen by emitted host code.
const (
	offD0  = 0
	offA0  = 32
	offPC  = 64
	offSR  = 68
	offUSP = 72
	offSSP = 76
)

// offD returns the byte offset of data register i (0-7).
func offD(i uint8) int32 { return offD0 + 4*int32(i) }

// offA returns the byte offset of address register i (0-7).
func offA(i uint8) int32 { return offA0 + 4*int32(i) }

// guestReg identifies one of the sixteen guest registers, the CCR, or
// the guest PC, for the purposes of the register allocator.
type guestReg uint8

const (
	guestD0 guestReg = iota
	guestD1
	guestD2
	guestD3
	guestD4
	guestD5
	guestD6
	guestD7
	guestA0
	guestA1
	guestA2
	guestA3
	guestA4
	guestA5
	guestA6
	guestA7
	guestCCR
	guestPC
	numGuestRegs
)

// isAddrReg reports whether g names an address register (A0-A7; A7 is
// the active stack pointer).
func (g guestReg) isAddrReg() bool {
	return g >= guestA0 && g <= guestA7
}

// offset returns the CPUState byte offset backing g. guestCCR and
// guestPC are not register-file slots in the usual sense: guestCCR
// shares the low byte of SR, guestPC is the PC field itself.
func (g guestReg) offset() int32 {
	switch {
	case g <= guestD7:
		return offD(uint8(g))
	case g <= guestA7:
		return offA(uint8(g - guestA0))
	case g == guestPC:
		return offPC
	default:
		return offSR
	}
}

// HostReg identifies a physical ARM64 general-purpose register (X0-X30).
type HostReg uint8

// UNALLOC is the sentinel meaning "no host register allocated yet" or
// "return this to the pool, harmlessly, if it was never allocated."
// Mirrors the teacher's 0xFF sentinel convention (spec.md §9).
const UNALLOC HostReg = 0xFF

// Reserved ARM64 registers that never enter the allocator's free pool.
const (
	hostScratch0 HostReg = 16 // IP0, used by the assembler for large offsets
	hostScratch1 HostReg = 17 // IP1, used by the assembler for large offsets
	hostPlatform HostReg = 18 // platform register, reserved by the AAPCS64
	hostState    HostReg = 28 // fixed base pointer to the active CPUState
	hostFP       HostReg = 29 // frame pointer
	hostLR       HostReg = 30 // link register
	hostSP       HostReg = 31 // stack pointer / XZR depending on context
	hostZR       HostReg = 31
)

// allocatableHostRegs is the pool the register allocator draws from:
// X0-X15 and X19-X27. X16-X18, X28-X31 are reserved as above.
var allocatableHostRegs = func() []HostReg {
	var regs []HostReg
	for r := HostReg(0); r <= 15; r++ {
		regs = append(regs, r)
	}
	for r := HostReg(19); r <= 27; r++ {
		regs = append(regs, r)
	}
	return regs
}()
