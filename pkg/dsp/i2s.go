package dsp

import (
	"encoding/binary"
	"fmt"
)

// Channel selects which side of a stereo frame to extract. The values
// mirror the frame layout on the wire.
type Channel int

const (
	Right Channel = 0
	Left  Channel = 1
)

// Format is the sample width of a mono sample buffer.
type Format int

const (
	Format16Bit Format = iota
	Format32Bit
)

const bytesInStereoFrame = 8

// CopyChannel extracts one channel from a buffer of 8-byte stereo frames
// coming from an I2S microphone and writes the mono samples to out. Each
// frame holds two 32-bit little-endian samples. With Format16Bit the
// 32-bit samples are narrowed to their most significant two bytes. It
// returns the number of bytes written to out.
func CopyChannel(in, out []byte, ch Channel, format Format) (int, error) {
	frames := len(in) / bytesInStereoFrame
	sampleSize := 4
	if format == Format16Bit {
		sampleSize = 2
	}
	if len(out) < frames*sampleSize {
		return 0, fmt.Errorf("output buffer too small: need %d bytes, have %d", frames*sampleSize, len(out))
	}

	written := 0
	for i := 0; i < frames; i++ {
		sample := int32(binary.LittleEndian.Uint32(in[(2*i+int(ch))*4:]))
		if format == Format16Bit {
			binary.LittleEndian.PutUint16(out[written:], uint16(int16(sample>>16)))
			written += 2
		} else {
			binary.LittleEndian.PutUint32(out[written:], uint32(sample))
			written += 4
		}
	}
	return written, nil
}

// ShiftGain arithmetically shifts every sample in a buffer. A single bit
// shift changes the gain by 6 dB: positive shift values shift left and
// increase gain, negative values shift right and reduce it. It returns the
// number of bytes written to out.
func ShiftGain(in, out []byte, shift int, format Format) (int, error) {
	sampleSize := 2
	if format == Format32Bit {
		sampleSize = 4
	}
	if len(in)%sampleSize != 0 {
		return 0, fmt.Errorf("input length %d is not a multiple of the %d-byte sample size", len(in), sampleSize)
	}
	if len(out) < len(in) {
		return 0, fmt.Errorf("output buffer too small: need %d bytes, have %d", len(in), len(out))
	}

	n := len(in) / sampleSize
	for i := 0; i < n; i++ {
		if format == Format16Bit {
			s := int16(binary.LittleEndian.Uint16(in[i*2:]))
			if shift >= 0 {
				s <<= shift
			} else {
				s >>= -shift
			}
			binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
		} else {
			s := int32(binary.LittleEndian.Uint32(in[i*4:]))
			if shift >= 0 {
				s <<= shift
			} else {
				s >>= -shift
			}
			binary.LittleEndian.PutUint32(out[i*4:], uint32(s))
		}
	}
	return len(in), nil
}
