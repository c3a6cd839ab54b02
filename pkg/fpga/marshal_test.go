package fpga

import "testing"

func TestMergeSubBytePreservesSiblings(t *testing.T) {
	// field of 3 bits at offset 2, surrounded by set bits
	old := byte(0xFF)
	got := mergeSubByte(old, 0, 2, 3)
	if got != 0xE3 {
		t.Errorf("expected 0xE3, got 0x%02X", got)
	}

	// writing all ones into the field must not spill outside it
	got = mergeSubByte(0x00, -1, 2, 3)
	if got != 0x1C {
		t.Errorf("expected 0x1C, got 0x%02X", got)
	}
}

func TestMergeSubByteTruncatesOversizedValue(t *testing.T) {
	// 2-bit field at offset 0: value 7 keeps only its low 2 bits
	got := mergeSubByte(0x00, 7, 0, 2)
	if got != 0x03 {
		t.Errorf("expected 0x03, got 0x%02X", got)
	}
}

func TestDecodeSubByteSignExtension(t *testing.T) {
	// signed 4-bit field at offset 0
	if v := decodeSubByte(0x08, 0, 4, true); v != -8 {
		t.Errorf("expected -8, got %d", v)
	}
	if v := decodeSubByte(0x07, 0, 4, true); v != 7 {
		t.Errorf("expected 7, got %d", v)
	}
	// same bit pattern unsigned
	if v := decodeSubByte(0x08, 0, 4, false); v != 8 {
		t.Errorf("expected 8, got %d", v)
	}
}

func TestDecodeSubByteIgnoresSiblingBits(t *testing.T) {
	// 3-bit field at offset 2 with all sibling bits set
	if v := decodeSubByte(0xE3, 2, 3, false); v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
	if v := decodeSubByte(0x1C, 2, 3, false); v != 7 {
		t.Errorf("expected 7, got %d", v)
	}
}

func TestSplitLEByteOrder(t *testing.T) {
	buf := splitLE(0x12345678, 32)
	want := []byte{0x78, 0x56, 0x34, 0x12}
	if len(buf) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(buf))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("byte %d: expected 0x%02X, got 0x%02X", i, want[i], buf[i])
		}
	}
}

func TestSplitLEPartialBytes(t *testing.T) {
	// 12-bit field occupies two bytes
	buf := splitLE(0x0ABC, 12)
	if len(buf) != 2 {
		t.Fatalf("expected 2 bytes, got %d", len(buf))
	}
	if buf[0] != 0xBC || buf[1] != 0x0A {
		t.Errorf("expected [0xBC 0x0A], got [0x%02X 0x%02X]", buf[0], buf[1])
	}
}

func TestAssembleLE(t *testing.T) {
	if v := assembleLE([]byte{0x78, 0x56, 0x34, 0x12}, 32, false); v != 0x12345678 {
		t.Errorf("expected 0x12345678, got 0x%08X", v)
	}
	// unsigned 16-bit
	if v := assembleLE([]byte{0x00, 0x80}, 16, false); v != 0x8000 {
		t.Errorf("expected 0x8000, got 0x%X", v)
	}
	// signed 16-bit, negative
	if v := assembleLE([]byte{0x00, 0x80}, 16, true); v != -32768 {
		t.Errorf("expected -32768, got %d", v)
	}
	// signed 32-bit, negative
	if v := assembleLE([]byte{0xFF, 0xFF, 0xFF, 0xFF}, 32, true); v != -1 {
		t.Errorf("expected -1, got %d", v)
	}
}

func TestScalarRoundTripAllGeometries(t *testing.T) {
	// every in-byte geometry, signed and unsigned, over the full
	// representable range of the field
	for length := uint8(1); length <= 7; length++ {
		for offset := uint8(0); offset+length <= 8; offset++ {
			for _, signed := range []bool{false, true} {
				min, max := int32(0), int32(1)<<length-1
				if signed {
					min, max = -(int32(1) << (length - 1)), int32(1)<<(length-1)-1
				}
				for v := min; v <= max; v++ {
					b := mergeSubByte(0x00, v, offset, length)
					got := decodeSubByte(b, offset, length, signed)
					if got != v {
						t.Fatalf("len=%d off=%d signed=%v: wrote %d, read %d", length, offset, signed, v, got)
					}
				}
			}
		}
	}
}

func TestMultiByteRoundTrip(t *testing.T) {
	cases := []struct {
		length uint8
		signed bool
		values []int32
	}{
		{16, false, []int32{0, 1, 255, 256, 32000, 65535}},
		{16, true, []int32{0, 1, -1, 32767, -32768}},
		{24, true, []int32{0, -1, 8388607, -8388608}},
		{32, false, []int32{0, 1, 0x12345678}},
		{32, true, []int32{0, -1, 1 << 30, -(1 << 31)}},
	}
	for _, tc := range cases {
		for _, v := range tc.values {
			buf := splitLE(v, tc.length)
			got := assembleLE(buf, tc.length, tc.signed)
			if got != v {
				t.Errorf("len=%d signed=%v: wrote %d, read %d", tc.length, tc.signed, v, got)
			}
		}
	}
}
