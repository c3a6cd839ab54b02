package fpga

import "github.com/bmarkulin/go-lgw-fpga/pkg/hal"

// Direct access to the SX1272 radio sharing the transport with the FPGA.
// These calls take a raw address and value with no table lookup and no
// bit geometry; they exist for radio bring-up, where the caller speaks the
// SX1272 register map itself.

// SX1272Write writes one raw byte to an SX1272 register.
func (obj *Device) SX1272Write(addr uint8, value byte) error {
	if !obj.connected {
		return ErrNotConnected
	}
	if err := obj.transport.WriteByte(hal.MuxSX1272, addr, value); err != nil {
		return &TransportError{Op: "sx1272 write", Err: err}
	}
	return nil
}

// SX1272Read reads one raw byte from an SX1272 register.
func (obj *Device) SX1272Read(addr uint8) (byte, error) {
	if !obj.connected {
		return 0, ErrNotConnected
	}
	b, err := obj.transport.ReadByte(hal.MuxSX1272, addr)
	if err != nil {
		return 0, &TransportError{Op: "sx1272 read", Err: err}
	}
	return b, nil
}
