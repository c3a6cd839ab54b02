package fpga

// Bit packing arithmetic for scalar registers. All routines work on sized
// integers with explicit shifts and masks; the numeric results match the
// device's wire format exactly.

// subByteMask returns the in-byte mask covering a field of length bits at
// offset.
func subByteMask(offset, length uint8) byte {
	return byte((1<<length - 1) << offset)
}

// mergeSubByte replaces the field at offset/length inside old with value,
// leaving sibling bits untouched. Value bits beyond the field width are
// silently truncated by the mask.
func mergeSubByte(old byte, value int32, offset, length uint8) byte {
	mask := subByteMask(offset, length)
	return (old &^ mask) | (byte(value)<<offset)&mask
}

// decodeSubByte extracts a field of length bits at offset from b, widening
// to int32 with sign extension when signed.
func decodeSubByte(b byte, offset, length uint8, signed bool) int32 {
	aligned := b << (8 - length - offset) // field MSB now at bit 7
	if signed {
		return int32(int8(aligned) >> (8 - length))
	}
	return int32(aligned >> (8 - length))
}

// splitLE serializes the low length bits of value into ceil(length/8)
// bytes, least significant byte first.
func splitLE(value int32, length uint8) []byte {
	n := int(length+7) / 8
	buf := make([]byte, n)
	u := uint32(value)
	for i := 0; i < n; i++ {
		buf[i] = byte(u)
		u >>= 8
	}
	return buf
}

// assembleLE rebuilds a scalar from little-endian bytes. Signed fields are
// sign-extended from bit length-1; unsigned fields come back as stored.
func assembleLE(buf []byte, length uint8, signed bool) int32 {
	var u uint32
	for i := len(buf) - 1; i >= 0; i-- {
		u = uint32(buf[i]) + u<<8
	}
	if signed && length < 32 {
		u <<= 32 - length // field MSB now at bit 31
		return int32(u) >> (32 - length)
	}
	return int32(u)
}
