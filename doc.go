// Package m68k translates Motorola 68000 instruction streams into ARM64
// host instruction sequences at runtime.
//
// It is the instruction translation pipeline of a dynamic binary
// translator: given a 16-bit-word guest instruction stream and a 32-bit
// host code buffer, it emits ARM64 machine words that, once handed to a
// code cache and executed, reproduce the effect of the guest
// instruction on a guest register file held in host memory.
//
// The package does not execute guest code itself. Execution happens when
// the caller's code cache runs the emitted ARM64 words on real hardware;
// this package only ever writes instruction words forward into a cursor.
//
// Two instruction families receive full translation: Line-9 (the
// subtract family: SUB, SUBA, SUBX) and Line-B (the compare and
// exclusive-or family: CMP, CMPA, CMPM, EOR). Every family has a
// dispatch entry point, but families outside this subset emit the
// illegal-instruction trap sequence rather than a real translation;
// this includes SUBI, CMPI and EORI (line 0) and SUBQ (line 5).
package m68k
