// Package dsp holds the sample processing routines of the sound level
// meter firmware: a streaming A-weighting decibel calculator and helpers
// for I2S microphone sample buffers. Samples arrive as little-endian byte
// buffers, least significant byte first, matching the I2S peripheral
// output.
package dsp

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Resolution is the bit resolution of the samples being processed. For B16
// the input buffer holds 16-bit samples; for B24 it holds 32-bit values
// with the highest order byte zero.
type Resolution int

const (
	B16 Resolution = iota
	B24
)

const (
	// offset to account for dB(A) calculations done using RMS math and
	// not DBFS
	dbfsToRMSOffset = 3.0103

	// standard reference sound pressure level for I2S MEMS microphones
	micRefSPLdB = 94

	// IIR filters limited to 7 weighting coefficients (up to 6th order)
	maxCoeffs = 7

	refAmpl16 = 1642
	refAmpl24 = 420426
)

// AWeighting calculates dB(A) from a stream of audio samples using an IIR
// filter with A-weighting coefficients. Sample data may be fed
// incrementally; a result is produced once the configured number of
// samples has accumulated, and the filter state carries over between
// calls.
//
// The weighting coefficients must match the sampling frequency of the
// audio; see CoeffA48kHz and the other exported sets.
type AWeighting struct {
	refAmpl      float64
	samplesTotal int
	resolution   Resolution

	x []float64 // sample input history, feedforward section
	y []float64 // filter output history, feedback section
	a []float64 // doubled feedback coefficients for circular indexing
	b []float64 // doubled feedforward coefficients for circular indexing

	numA int
	numB int
	iA   int
	iB   int

	sumSqr float64
	count  int
}

// NewAWeighting creates a calculator that emits a dB(A) result after every
// samples processed samples. coeffA and coeffB are the IIR weighting
// coefficient sets, coeffA[0] being the a0 normalizer.
func NewAWeighting(samples int, resolution Resolution, coeffA, coeffB []float64) (*AWeighting, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", samples)
	}
	if len(coeffA) < 2 || len(coeffA) > maxCoeffs {
		return nil, fmt.Errorf("coeffA must hold 2 to %d coefficients, got %d", maxCoeffs, len(coeffA))
	}
	if len(coeffB) < 1 || len(coeffB) > maxCoeffs {
		return nil, fmt.Errorf("coeffB must hold 1 to %d coefficients, got %d", maxCoeffs, len(coeffB))
	}

	w := &AWeighting{
		samplesTotal: samples,
		resolution:   resolution,
		numA:         len(coeffA) - 1, // a0 is not stored
		numB:         len(coeffB),
	}
	switch resolution {
	case B24:
		w.refAmpl = refAmpl24
	default:
		w.refAmpl = refAmpl16
	}

	a0 := coeffA[0]
	a := coeffA[1:]

	// the coefficient arrays are doubled so the inner loop can start at
	// any history position without wrapping
	w.a = make([]float64, 2*w.numA-1)
	for i := range w.a {
		w.a[i] = a[(2*w.numA-2-i)%w.numA] / a0
	}
	w.b = make([]float64, 2*w.numB-1)
	for i := range w.b {
		w.b[i] = coeffB[(2*w.numB-1-i)%w.numB] / a0
	}

	w.x = make([]float64, w.numB)
	w.y = make([]float64, w.numA)
	return w, nil
}

// Process runs buf through the filter and accumulates the squared output.
// buf holds little-endian samples: 2 bytes each for B16, 4 bytes each for
// B24. When the accumulated sample count reaches the configured total, the
// dB(A) value is returned with ok true and the accumulator resets; until
// then ok is false.
func (w *AWeighting) Process(buf []byte) (dba float64, ok bool, err error) {
	sampleSize := 2
	if w.resolution == B24 {
		sampleSize = 4
	}
	if len(buf)%sampleSize != 0 {
		return 0, false, fmt.Errorf("buffer length %d is not a multiple of the %d-byte sample size", len(buf), sampleSize)
	}

	n := len(buf) / sampleSize
	for i := 0; i < n; i++ {
		var sample int32
		if w.resolution == B24 {
			sample = int32(binary.LittleEndian.Uint32(buf[i*4:])) >> 8
		} else {
			sample = int32(int16(binary.LittleEndian.Uint16(buf[i*2:])))
		}
		w.step(float64(sample))
	}
	w.count += n

	if w.count < w.samplesTotal {
		return 0, false, nil
	}
	dba = dbfsToRMSOffset + micRefSPLdB + 20*math.Log10(math.Sqrt(w.sumSqr/float64(w.count))/w.refAmpl)
	w.count = 0
	w.sumSqr = 0
	return dba, true, nil
}

func (w *AWeighting) step(sample float64) {
	w.x[w.iB] = sample

	var bTerms float64
	bShift := w.b[w.numB-w.iB-1:]
	for i := 0; i < w.numB; i++ {
		bTerms += w.x[i] * bShift[i]
	}

	var aTerms float64
	aShift := w.a[w.numA-w.iA-1:]
	for i := 0; i < w.numA; i++ {
		aTerms += w.y[i] * aShift[i]
	}

	filtered := bTerms - aTerms
	w.y[w.iA] = filtered

	w.iB++
	if w.iB == w.numB {
		w.iB = 0
	}
	w.iA++
	if w.iA == w.numA {
		w.iA = 0
	}

	w.sumSqr += filtered * filtered
}

// Verified A-weighting coefficient sets. Sets for sampling frequencies up
// to 20 kHz can be calculated with the Python pyfilterbank package; beyond
// 20 kHz that package produces coefficients unstable in this filter
// structure, so the 48 kHz set comes from a published design.
var (
	CoeffA10kHz = []float64{1.0, -2.3604841, 0.83692802, 1.54849677, -0.96903429, -0.25092355, 0.1950274}
	CoeffB10kHz = []float64{0.61367941, -1.22735882, -0.61367941, 2.45471764, -0.61367941, -1.22735882, 0.61367941}

	CoeffA20kHz = []float64{1.0, -3.11810631, 2.99441375, -0.33169269, -0.77271226, 0.15355108, 0.07454692}
	CoeffB20kHz = []float64{0.47577598, -0.95155197, -0.47577598, 1.90310393, -0.47577598, -0.95155197, 0.47577598}

	CoeffA48kHz = []float64{1.0, -2.12979364760736134, 0.42996125885751674, 1.62132698199721426, -0.96669962900852902, 0.00121015844426781, 0.04400300696788968}
	CoeffB48kHz = []float64{0.169994948147430, 0.280415310498794, -1.120574766348363, 0.131562559965936, 0.974153561246036, -0.282740857326553, -0.152810756202003}
)
