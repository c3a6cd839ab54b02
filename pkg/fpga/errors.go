package fpga

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when a register operation is attempted
	// before a successful Connect.
	ErrNotConnected = errors.New("device is not connected")

	// ErrAlreadyDisconnected is returned by a redundant Disconnect. It is
	// advisory: the device ends up disconnected either way.
	ErrAlreadyDisconnected = errors.New("device was already disconnected")

	// ErrDeviceAbsent is returned by Connect when the version register
	// reads as a floating-bus value (0x00 or 0xFF), meaning no device is
	// answering on the link.
	ErrDeviceAbsent = errors.New("device seems absent: version register reads as floating bus")

	// ErrEmptyBuffer is returned by burst operations given zero bytes to
	// move.
	ErrEmptyBuffer = errors.New("burst of zero length")
)

// InvalidRegisterError indicates a register identifier outside the table.
type InvalidRegisterError struct {
	ID    RegID
	Total int
}

func (e *InvalidRegisterError) Error() string {
	return fmt.Sprintf("register %d is out of the defined range 0-%d", uint16(e.ID), e.Total-1)
}

// ReadOnlyError indicates a write to a read-only register.
type ReadOnlyError struct {
	ID RegID
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("register %s is read-only", e.ID)
}

// GeometryError indicates a descriptor whose offset/length combination
// matches neither the single-byte nor the multi-byte form.
type GeometryError struct {
	ID     RegID
	Offset uint8
	Length uint8
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("register %s: unsupported geometry offset=%d length=%d", e.ID, e.Offset, e.Length)
}

// VersionMismatchError indicates that the connect handshake read a version
// byte that differs from the expected default.
type VersionMismatchError struct {
	Want int32
	Got  int32
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("unexpected version: want 0x%02X, got 0x%02X", e.Want, e.Got)
}

// TransportError wraps a failure of the byte-level transport. The state of
// the physical register after a TransportError is unknown; the caller
// decides whether to retry or reconnect.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed during %s: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
