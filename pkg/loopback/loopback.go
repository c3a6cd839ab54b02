// Package loopback provides an in-memory hal.Transport backed by plain
// byte arrays, one register space per mux target. It stands in for real
// hardware in tests and examples: writes land in memory, reads come back
// from it, and failures can be injected at will.
package loopback

import (
	"fmt"

	"github.com/bmarkulin/go-lgw-fpga/pkg/hal"
)

// SpaceSize is the size of each simulated register space. Register
// addresses are 7 bit, but bursts may run past the last address into the
// memory window behind it, so the simulated space is larger.
const SpaceSize = 256

// Transport is the simulated link. The zero value is usable; seed register
// content through Mem before connecting.
type Transport struct {
	// Mem holds one register space per mux target, indexed by hal.Mux.
	Mem [4][SpaceSize]byte

	// OpenErr, when set, is returned by Open.
	OpenErr error

	// IOErr, when set, is returned by every byte operation.
	IOErr error

	// Reads and Writes count transport operations, bursts included.
	Reads  int
	Writes int

	opened bool
}

// New returns a transport whose FPGA version register answers with
// version, ready for a successful handshake.
func New(version byte) *Transport {
	t := &Transport{}
	t.Mem[hal.MuxFPGA][1] = version
	return t
}

func (obj *Transport) Open() error {
	if obj.OpenErr != nil {
		return obj.OpenErr
	}
	obj.opened = true
	return nil
}

func (obj *Transport) Close() error {
	obj.opened = false
	return nil
}

// Opened reports whether the link is currently open.
func (obj *Transport) Opened() bool {
	return obj.opened
}

func (obj *Transport) ReadByte(target hal.Mux, addr uint8) (byte, error) {
	if err := obj.check(target, addr, 1); err != nil {
		return 0, err
	}
	obj.Reads++
	return obj.Mem[target][addr], nil
}

func (obj *Transport) WriteByte(target hal.Mux, addr uint8, value byte) error {
	if err := obj.check(target, addr, 1); err != nil {
		return err
	}
	obj.Writes++
	obj.Mem[target][addr] = value
	return nil
}

func (obj *Transport) ReadBurst(target hal.Mux, addr uint8, size int) ([]byte, error) {
	if err := obj.check(target, addr, size); err != nil {
		return nil, err
	}
	obj.Reads++
	buf := make([]byte, size)
	copy(buf, obj.Mem[target][addr:])
	return buf, nil
}

func (obj *Transport) WriteBurst(target hal.Mux, addr uint8, data []byte) error {
	if err := obj.check(target, addr, len(data)); err != nil {
		return err
	}
	obj.Writes++
	copy(obj.Mem[target][addr:], data)
	return nil
}

func (obj *Transport) check(target hal.Mux, addr uint8, size int) error {
	if obj.IOErr != nil {
		return obj.IOErr
	}
	if !obj.opened {
		return fmt.Errorf("loopback transport is not open")
	}
	if int(target) >= len(obj.Mem) {
		return fmt.Errorf("unknown mux target 0x%02X", byte(target))
	}
	if int(addr)+size > SpaceSize {
		return fmt.Errorf("access beyond register space: addr %d size %d", addr, size)
	}
	return nil
}
