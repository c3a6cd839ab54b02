// Package scan drives RSSI histogram captures on the spectral scan FPGA.
// One capture tunes the SX1272 radio to a channel, lets the FPGA integrate
// RSSI readings into its histogram RAM, and reads the RAM back out.
package scan

import (
	"fmt"
	"time"

	"github.com/bmarkulin/go-lgw-fpga/pkg/fpga"
)

// HistogramBins is the number of RSSI bins the FPGA accumulates per
// capture.
const HistogramBins = 128

// SX1272 registers used to tune the radio for RSSI capture.
const (
	sx1272RegOpMode = 0x01
	sx1272RegFrfMsb = 0x06
	sx1272RegFrfMid = 0x07
	sx1272RegFrfLsb = 0x08

	opModeStandby byte = 0x01 // FSK standby
	opModeRx      byte = 0x05 // FSK receiver

	// frequency synthesizer step: frf = freq * 2^19 / 32 MHz
	frfShift   = 19
	xtalFreqHz = 32000000
)

// FPGA_CTRL commands and FPGA_STATUS flags of the scan firmware.
const (
	ctrlHistogramStart int32 = 0x01

	statusScanDone int32 = 0x01
)

// Config holds the capture parameters.
type Config struct {
	// Tempo is the RSSI integration time per reading, in 32 MHz ticks.
	Tempo uint16

	// NbRead is the number of RSSI readings accumulated per capture.
	NbRead uint16

	// Timeout bounds one capture end to end.
	Timeout time.Duration

	// PollInterval paces the FPGA_STATUS polling loop.
	PollInterval time.Duration
}

func defaultConfig() Config {
	return Config{
		Tempo:        32000,
		NbRead:       1000,
		Timeout:      5 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
}

// Scanner runs histogram captures against a connected device.
type Scanner struct {
	dev *fpga.Device
	cfg Config
}

// New creates a Scanner. Zero fields of cfg fall back to defaults.
func New(dev *fpga.Device, cfg Config) (*Scanner, error) {
	if dev == nil {
		return nil, fmt.Errorf("device cannot be nil")
	}
	def := defaultConfig()
	if cfg.Tempo == 0 {
		cfg.Tempo = def.Tempo
	}
	if cfg.NbRead == 0 {
		cfg.NbRead = def.NbRead
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = def.PollInterval
	}
	return &Scanner{dev: dev, cfg: cfg}, nil
}

// Setup programs the capture parameters into the FPGA. Call it once after
// connecting, before the first capture.
func (obj *Scanner) Setup() error {
	if err := obj.dev.Write(fpga.RegHistoTempo, int32(obj.cfg.Tempo)); err != nil {
		return fmt.Errorf("failed to set integration tempo: %w", err)
	}
	if err := obj.dev.Write(fpga.RegHistoNbRead, int32(obj.cfg.NbRead)); err != nil {
		return fmt.Errorf("failed to set reading count: %w", err)
	}
	return nil
}

// ScanChannel captures one histogram at the given carrier frequency and
// returns the HistogramBins bin counts.
func (obj *Scanner) ScanChannel(freqHz uint32) ([]byte, error) {
	if err := obj.tune(freqHz); err != nil {
		return nil, err
	}

	// rewind the histogram RAM and trigger the capture
	if err := obj.dev.Write(fpga.RegHistoRAMAddr, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind histogram RAM: %w", err)
	}
	if err := obj.dev.Write(fpga.RegCtrl, ctrlHistogramStart); err != nil {
		return nil, fmt.Errorf("failed to start capture: %w", err)
	}

	if err := obj.waitScanDone(); err != nil {
		return nil, err
	}

	if err := obj.dev.Write(fpga.RegCtrl, 0); err != nil {
		return nil, fmt.Errorf("failed to clear capture control: %w", err)
	}
	if err := obj.dev.Write(fpga.RegHistoRAMAddr, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind histogram RAM: %w", err)
	}
	histo, err := obj.dev.ReadBurst(fpga.RegHistoRAMData, HistogramBins)
	if err != nil {
		return nil, fmt.Errorf("failed to read histogram RAM: %w", err)
	}
	return histo, nil
}

// Timestamp reads the free-running 32 MHz counter of the FPGA.
func (obj *Scanner) Timestamp() (int32, error) {
	return obj.dev.Read(fpga.RegTimestamp)
}

// SoftReset pulses the FPGA soft reset bit.
func (obj *Scanner) SoftReset() error {
	if err := obj.dev.Write(fpga.RegSoftReset, 1); err != nil {
		return fmt.Errorf("failed to assert soft reset: %w", err)
	}
	return obj.dev.Write(fpga.RegSoftReset, 0)
}

// tune programs the SX1272 synthesizer to freqHz and puts the radio in
// receive mode so the FPGA sees live RSSI.
func (obj *Scanner) tune(freqHz uint32) error {
	frf := uint32(uint64(freqHz) << frfShift / xtalFreqHz)

	if err := obj.dev.SX1272Write(sx1272RegOpMode, opModeStandby); err != nil {
		return fmt.Errorf("failed to put radio in standby: %w", err)
	}
	if err := obj.dev.SX1272Write(sx1272RegFrfMsb, byte(frf>>16)); err != nil {
		return fmt.Errorf("failed to set FRF MSB: %w", err)
	}
	if err := obj.dev.SX1272Write(sx1272RegFrfMid, byte(frf>>8)); err != nil {
		return fmt.Errorf("failed to set FRF MID: %w", err)
	}
	if err := obj.dev.SX1272Write(sx1272RegFrfLsb, byte(frf)); err != nil {
		return fmt.Errorf("failed to set FRF LSB: %w", err)
	}
	if err := obj.dev.SX1272Write(sx1272RegOpMode, opModeRx); err != nil {
		return fmt.Errorf("failed to put radio in receive mode: %w", err)
	}
	return nil
}

func (obj *Scanner) waitScanDone() error {
	deadline := time.Now().Add(obj.cfg.Timeout)
	for {
		status, err := obj.dev.Read(fpga.RegStatus)
		if err != nil {
			return fmt.Errorf("failed to read scan status: %w", err)
		}
		if status&statusScanDone != 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("capture did not finish within %s", obj.cfg.Timeout)
		}
		time.Sleep(obj.cfg.PollInterval)
	}
}
