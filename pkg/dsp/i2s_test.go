package dsp

import (
	"encoding/binary"
	"testing"
)

// stereoFrames builds a buffer of 8-byte frames from left/right sample
// pairs.
func stereoFrames(pairs [][2]int32) []byte {
	buf := make([]byte, len(pairs)*bytesInStereoFrame)
	for i, p := range pairs {
		binary.LittleEndian.PutUint32(buf[i*8:], uint32(p[0]))
		binary.LittleEndian.PutUint32(buf[i*8+4:], uint32(p[1]))
	}
	return buf
}

func TestCopyChannel32Bit(t *testing.T) {
	in := stereoFrames([][2]int32{
		{0x11111111, 0x22222222},
		{-1, 0x44444444},
	})
	out := make([]byte, 8)

	n, err := CopyChannel(in, out, Right, Format32Bit)
	if err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes written, got %d", n)
	}
	if got := int32(binary.LittleEndian.Uint32(out)); got != 0x11111111 {
		t.Errorf("frame 0: expected 0x11111111, got 0x%08X", got)
	}
	if got := int32(binary.LittleEndian.Uint32(out[4:])); got != -1 {
		t.Errorf("frame 1: expected -1, got %d", got)
	}

	n, err = CopyChannel(in, out, Left, Format32Bit)
	if err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes written, got %d", n)
	}
	if got := int32(binary.LittleEndian.Uint32(out)); got != 0x22222222 {
		t.Errorf("frame 0: expected 0x22222222, got 0x%08X", got)
	}
}

func TestCopyChannel16BitNarrowing(t *testing.T) {
	in := stereoFrames([][2]int32{
		{0x12345678, 0},
		{-0x10000, 0},
	})
	out := make([]byte, 4)

	n, err := CopyChannel(in, out, Right, Format16Bit)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("expected 4 bytes written, got %d", n)
	}
	// most significant two bytes survive
	if got := int16(binary.LittleEndian.Uint16(out)); got != 0x1234 {
		t.Errorf("frame 0: expected 0x1234, got 0x%04X", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[2:])); got != -1 {
		t.Errorf("frame 1: expected -1, got %d", got)
	}
}

func TestCopyChannelShortOutput(t *testing.T) {
	in := stereoFrames([][2]int32{{1, 2}, {3, 4}})
	if _, err := CopyChannel(in, make([]byte, 4), Right, Format32Bit); err == nil {
		t.Error("short output buffer must fail")
	}
}

func TestShiftGain16Bit(t *testing.T) {
	in := make([]byte, 4)
	binary.LittleEndian.PutUint16(in, uint16(int16(100)))
	neg := int16(-100)
	binary.LittleEndian.PutUint16(in[2:], uint16(neg))
	out := make([]byte, 4)

	if _, err := ShiftGain(in, out, 1, Format16Bit); err != nil {
		t.Fatal(err)
	}
	if got := int16(binary.LittleEndian.Uint16(out)); got != 200 {
		t.Errorf("left shift: expected 200, got %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[2:])); got != -200 {
		t.Errorf("left shift: expected -200, got %d", got)
	}

	if _, err := ShiftGain(in, out, -2, Format16Bit); err != nil {
		t.Fatal(err)
	}
	if got := int16(binary.LittleEndian.Uint16(out)); got != 25 {
		t.Errorf("right shift: expected 25, got %d", got)
	}
	// arithmetic shift keeps the sign
	if got := int16(binary.LittleEndian.Uint16(out[2:])); got != -25 {
		t.Errorf("right shift: expected -25, got %d", got)
	}
}

func TestShiftGain32Bit(t *testing.T) {
	in := make([]byte, 4)
	neg := int32(-1000)
	binary.LittleEndian.PutUint32(in, uint32(neg))
	out := make([]byte, 4)

	if _, err := ShiftGain(in, out, -1, Format32Bit); err != nil {
		t.Fatal(err)
	}
	if got := int32(binary.LittleEndian.Uint32(out)); got != -500 {
		t.Errorf("expected -500, got %d", got)
	}
}

func TestShiftGainValidation(t *testing.T) {
	if _, err := ShiftGain(make([]byte, 3), make([]byte, 4), 0, Format16Bit); err == nil {
		t.Error("odd input length must fail")
	}
	if _, err := ShiftGain(make([]byte, 4), make([]byte, 2), 0, Format16Bit); err == nil {
		t.Error("short output must fail")
	}
}
