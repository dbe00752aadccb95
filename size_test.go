package m68k

import "testing"

func TestSizeMaskMSBBits(t *testing.T) {
	cases := []struct {
		sz   Size
		mask uint32
		msb  uint32
		bits uint32
	}{
		{Byte, 0xFF, 0x80, 8},
		{Word, 0xFFFF, 0x8000, 16},
		{Long, 0xFFFFFFFF, 0x80000000, 32},
	}
	for _, c := range cases {
		if got := c.sz.Mask(); got != c.mask {
			t.Errorf("%s.Mask() = %#x, want %#x", c.sz, got, c.mask)
		}
		if got := c.sz.MSB(); got != c.msb {
			t.Errorf("%s.MSB() = %#x, want %#x", c.sz, got, c.msb)
		}
		if got := c.sz.Bits(); got != c.bits {
			t.Errorf("%s.Bits() = %d, want %d", c.sz, got, c.bits)
		}
	}
}

func TestSizeString(t *testing.T) {
	cases := map[Size]string{
		AddressOnly: "address-only",
		Byte:        "byte",
		Word:        "word",
		Long:        "long",
	}
	for sz, want := range cases {
		if got := sz.String(); got != want {
			t.Errorf("Size(%d).String() = %q, want %q", sz, got, want)
		}
	}
}

func TestSizeSignExtend(t *testing.T) {
	cases := []struct {
		sz   Size
		in   uint32
		want uint32
	}{
		{Byte, 0x80, 0xFFFFFF80},
		{Byte, 0x7F, 0x0000007F},
		{Word, 0x8000, 0xFFFF8000},
		{Word, 0x7FFF, 0x00007FFF},
		{Long, 0x80000000, 0x80000000},
	}
	for _, c := range cases {
		if got := c.sz.SignExtend(c.in); got != c.want {
			t.Errorf("%s.SignExtend(%#x) = %#x, want %#x", c.sz, c.in, got, c.want)
		}
	}
}
