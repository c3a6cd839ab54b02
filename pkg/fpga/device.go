package fpga

import (
	"fmt"

	"github.com/bmarkulin/go-lgw-fpga/pkg/hal"
)

// Device is a name-addressed view of the FPGA register space behind one
// transport. Multi-byte registers and read-modify-write of sub-byte fields
// are handled automatically. A Device owns exactly one transport and keeps
// no register value cached: every call round-trips to the wire.
//
// Device performs no internal locking. Hosts that share one Device between
// goroutines must serialize calls themselves.
type Device struct {
	transport hal.Transport
	table     Table
	versReg   RegID
	log       Logger
	connected bool
}

// NewDevice creates a Device on top of the given transport. The transport
// is not opened until Connect.
func NewDevice(transport hal.Transport, opts ...Option) *Device {
	if transport == nil {
		panic("transport cannot be nil")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Device{
		transport: transport,
		table:     cfg.Table,
		versReg:   cfg.VersionReg,
		log:       cfg.Logger,
	}
}

// Connected reports whether the device currently holds an open link.
func (obj *Device) Connected() bool {
	return obj.connected
}

// Connect opens the transport and verifies that the expected device is
// answering by reading the version register and comparing it against its
// descriptor default. A device already connected is torn down first; that
// is a recoverable condition, not an error.
func (obj *Device) Connect() error {
	if obj.connected {
		obj.log.Info("device was already connected, closing the previous link")
		if err := obj.transport.Close(); err != nil {
			obj.log.Error("failed to close previous link", "err", err)
		}
		obj.connected = false
	}

	if err := obj.transport.Open(); err != nil {
		return fmt.Errorf("failed to open transport: %w", err)
	}
	obj.connected = true

	version, err := obj.Read(obj.versReg)
	if err != nil {
		obj.teardown()
		return fmt.Errorf("failed to read version register: %w", err)
	}
	if version == 0x00 || version == 0xFF {
		obj.teardown()
		return ErrDeviceAbsent
	}
	desc, err := obj.table.lookup(obj.versReg)
	if err != nil {
		obj.teardown()
		return err
	}
	if version != desc.Default {
		obj.teardown()
		return &VersionMismatchError{Want: desc.Default, Got: version}
	}

	obj.log.Debug("device connected", "version", version)
	return nil
}

// Disconnect closes the transport. Calling it on a disconnected device
// returns ErrAlreadyDisconnected, which callers may treat as advisory.
func (obj *Device) Disconnect() error {
	if !obj.connected {
		return ErrAlreadyDisconnected
	}
	obj.connected = false
	if err := obj.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	obj.log.Debug("device disconnected")
	return nil
}

func (obj *Device) teardown() {
	if err := obj.transport.Close(); err != nil {
		obj.log.Error("failed to close transport", "err", err)
	}
	obj.connected = false
}

// Write stores value into the register addressed by id. Sub-byte fields go
// through a read-modify-write that preserves sibling bits of the same
// byte; registers wider than a byte are written as one little-endian
// burst. Value bits beyond the field width are truncated by masking, not
// rejected; callers relying on masking of oversized inputs get the wire
// behavior of the device.
func (obj *Device) Write(id RegID, value int32) error {
	r, err := obj.table.lookup(id)
	if err != nil {
		return err
	}
	if !obj.connected {
		return ErrNotConnected
	}
	if r.ReadOnly {
		return &ReadOnlyError{ID: id}
	}

	switch {
	case r.Length == 8 && r.Offset == 0:
		// direct write
		if err := obj.transport.WriteByte(hal.MuxFPGA, r.Addr, byte(value)); err != nil {
			return &TransportError{Op: "register write", Err: err}
		}
	case int(r.Offset)+int(r.Length) <= 8:
		// single-byte read-modify-write
		old, err := obj.transport.ReadByte(hal.MuxFPGA, r.Addr)
		if err != nil {
			return &TransportError{Op: "register write", Err: err}
		}
		if err := obj.transport.WriteByte(hal.MuxFPGA, r.Addr, mergeSubByte(old, value, r.Offset, r.Length)); err != nil {
			return &TransportError{Op: "register write", Err: err}
		}
	case r.Offset == 0 && r.Length <= 32:
		// multi-byte write, least significant byte first
		if err := obj.transport.WriteBurst(hal.MuxFPGA, r.Addr, splitLE(value, r.Length)); err != nil {
			return &TransportError{Op: "register write", Err: err}
		}
	default:
		return &GeometryError{ID: id, Offset: r.Offset, Length: r.Length}
	}
	return nil
}

// Read returns the value of the register addressed by id, sign-extended to
// int32 when the descriptor marks the field signed.
func (obj *Device) Read(id RegID) (int32, error) {
	r, err := obj.table.lookup(id)
	if err != nil {
		return 0, err
	}
	if !obj.connected {
		return 0, ErrNotConnected
	}

	switch {
	case int(r.Offset)+int(r.Length) <= 8:
		b, err := obj.transport.ReadByte(hal.MuxFPGA, r.Addr)
		if err != nil {
			return 0, &TransportError{Op: "register read", Err: err}
		}
		return decodeSubByte(b, r.Offset, r.Length, r.Signed), nil
	case r.Offset == 0 && r.Length <= 32:
		size := int(r.Length+7) / 8
		buf, err := obj.transport.ReadBurst(hal.MuxFPGA, r.Addr, size)
		if err != nil {
			return 0, &TransportError{Op: "register read", Err: err}
		}
		return assembleLE(buf, r.Length, r.Signed), nil
	default:
		return 0, &GeometryError{ID: id, Offset: r.Offset, Length: r.Length}
	}
}

// WriteBurst writes data to consecutive addresses starting at the base
// address of the register addressed by id. No bit arithmetic is applied;
// this is the raw path for registers backed by memory windows such as the
// histogram RAM.
func (obj *Device) WriteBurst(id RegID, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyBuffer
	}
	r, err := obj.table.lookup(id)
	if err != nil {
		return err
	}
	if !obj.connected {
		return ErrNotConnected
	}
	if r.ReadOnly {
		return &ReadOnlyError{ID: id}
	}
	if err := obj.transport.WriteBurst(hal.MuxFPGA, r.Addr, data); err != nil {
		return &TransportError{Op: "register burst write", Err: err}
	}
	return nil
}

// ReadBurst reads size bytes from consecutive addresses starting at the
// base address of the register addressed by id.
func (obj *Device) ReadBurst(id RegID, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrEmptyBuffer
	}
	r, err := obj.table.lookup(id)
	if err != nil {
		return nil, err
	}
	if !obj.connected {
		return nil, ErrNotConnected
	}
	data, err := obj.transport.ReadBurst(hal.MuxFPGA, r.Addr, size)
	if err != nil {
		return nil, &TransportError{Op: "register burst read", Err: err}
	}
	return data, nil
}
