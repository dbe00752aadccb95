package m68k

// probeEAWords statically counts the extension words eaByte's addressing
// mode consumes, reading ahead through a throwaway copy of gs so the
// real stream cursor is untouched (spec.md §4.H: "must not allocate,
// emit, or fetch through the cache beyond the input stream"). Passing
// gs by value gives the probe its own Addr/Words bookkeeping.
func probeEAWords(gs GuestStream, eaByte uint8, sz Size) int32 {
	mode, reg := decodeEA(eaByte)
	switch mode {
	case 0, 1, 2, 3, 4:
		return 0
	case 5:
		return 1
	case 6:
		return indexExtWords(gs.Next16())
	case 7:
		switch reg {
		case 0, 2:
			return 1
		case 1:
			return 2
		case 3:
			return indexExtWords(gs.Next16())
		case 4:
			if sz == Long {
				return 2
			}
			return 1
		}
	}
	return 0
}

// indexExtWords counts the extension words a brief or full indexed
// extension word implies, given its already-fetched first word.
func indexExtWords(ext uint16) int32 {
	if ext&0x0100 == 0 {
		return 1 // brief: one word total
	}
	f := decodeFullExt(ext)
	n := int32(1)
	switch f.baseDispSize {
	case 2:
		n++
	case 3:
		n += 2
	}
	if f.iis != 0 {
		switch f.iis & 3 {
		case 2:
			n++
		case 3:
			n += 2
		}
	}
	return n
}

// lineLength implements the common shape behind every GetLineXLength
// entry point (spec.md §4.F.3): base_length from the descriptor, plus
// the EA's own extension words when has_ea is set.
func lineLength(desc *opcodeDescriptor, gs GuestStream, eaByte uint8) int32 {
	n := desc.baseLength
	if desc.hasEA {
		n += probeEAWords(gs, eaByte, desc.opSize)
	}
	return n
}
