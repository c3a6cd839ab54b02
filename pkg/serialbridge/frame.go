package serialbridge

import (
	"fmt"

	"github.com/bmarkulin/go-lgw-fpga/pkg/hal"
)

// UART command protocol spoken by the bridge firmware on the concentrator
// board. Every exchange is one request frame followed by one response
// frame:
//
//	request:  cmd, mux, addr, lenLo, lenHi, payload...
//	response: status, payload...
//
// len counts payload bytes: bytes to write for write commands, bytes to
// read back for read commands. Status 0x00 means success; anything else is
// an error code from the firmware.
const (
	cmdWriteByte  byte = 0xB0
	cmdReadByte   byte = 0xB1
	cmdWriteBurst byte = 0xB2
	cmdReadBurst  byte = 0xB3

	statusOK byte = 0x00

	headerSize = 5
)

func encodeFrame(cmd byte, target hal.Mux, addr uint8, size int, payload []byte) []byte {
	frame := make([]byte, 0, headerSize+len(payload))
	frame = append(frame, cmd, byte(target), addr, byte(size), byte(size>>8))
	frame = append(frame, payload...)
	return frame
}

// parseResponse checks the status byte and returns the payload, which must
// hold exactly want bytes.
func parseResponse(frame []byte, want int) ([]byte, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty response from bridge")
	}
	if frame[0] != statusOK {
		return nil, fmt.Errorf("bridge returned status 0x%02X", frame[0])
	}
	payload := frame[1:]
	if len(payload) != want {
		return nil, fmt.Errorf("short response: want %d payload bytes, got %d", want, len(payload))
	}
	return payload, nil
}
