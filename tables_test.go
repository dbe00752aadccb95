package m68k

import (
	"reflect"
	"testing"
)

func TestOpcodeTableLookupMasksLow9Bits(t *testing.T) {
	var tbl opcodeTable
	want := opcodeDescriptor{baseLength: 3, opSize: Word}
	tbl.fillOne(0x123, want)
	// Any opcode sharing the low 9 bits must hit the same slot.
	got := tbl.lookup(0x9123)
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("lookup(0x9123) = %+v, want %+v", *got, want)
	}
	got2 := tbl.lookup(0xB123)
	if !reflect.DeepEqual(*got2, want) {
		t.Errorf("lookup(0xB123) = %+v, want %+v", *got2, want)
	}
}

func TestOpcodeTableFillRange(t *testing.T) {
	var tbl opcodeTable
	want := opcodeDescriptor{baseLength: 1, opSize: Byte}
	tbl.fillRange(0x10, 0x1F, want)
	for i := 0x10; i <= 0x1F; i++ {
		if !reflect.DeepEqual(tbl[i], want) {
			t.Errorf("slot %#x = %+v, want %+v", i, tbl[i], want)
		}
	}
	if reflect.DeepEqual(tbl[0x20], want) {
		t.Error("fillRange leaked past its upper bound")
	}
	if reflect.DeepEqual(tbl[0x0F], want) {
		t.Error("fillRange leaked before its lower bound")
	}
}

func TestLine9TableRegisterDnDirectSub(t *testing.T) {
	// SUB.L D1,D0 = 0x9081: low 9 bits select subToDnHandler, Long size.
	desc := line9Table.lookup(0x9081)
	if desc.handler == nil {
		t.Fatal("SUB.L D1,D0 has no handler registered")
	}
	if desc.opSize != Long {
		t.Errorf("SUB.L D1,D0 opSize = %s, want long", desc.opSize)
	}
	if desc.srSets != SR_CCR {
		t.Errorf("SUB.L D1,D0 srSets = %#x, want %#x", desc.srSets, SR_CCR)
	}
}

func TestLine9TableSUBXRegisterVsMemoryForm(t *testing.T) {
	// SUBX.B D2,D3 = 0x9702 (register form, bit3=0).
	reg := line9Table.lookup(0x9702)
	if reg.handler == nil {
		t.Fatal("SUBX.B D2,D3 has no handler registered")
	}
	// SUBX.B -(A2),-(A3) = 0x970A (memory form, bit3=1).
	mem := line9Table.lookup(0x970A)
	if mem.handler == nil {
		t.Fatal("SUBX.B -(A2),-(A3) has no handler registered")
	}
}

func TestLineBTableCMPMRegistered(t *testing.T) {
	// CMPM.L (A0)+,(A1)+ = 0xB388.
	desc := lineBTable.lookup(0xB388)
	if desc.handler == nil {
		t.Fatal("CMPM.L (A0)+,(A1)+ has no handler registered")
	}
	if desc.hasEA {
		t.Error("CMPM's EA is resolved manually by cmpmHandler, hasEA should be false")
	}
}

func TestLineBTableEORRegistered(t *testing.T) {
	// EOR.B D0,(A2)+ = 0xB11A.
	desc := lineBTable.lookup(0xB11A)
	if desc.handler == nil {
		t.Fatal("EOR.B D0,(A2)+ has no handler registered")
	}
	if desc.srSets != ccZ|ccN {
		t.Errorf("EOR srSets = %#x, want ccZ|ccN", desc.srSets)
	}
}
