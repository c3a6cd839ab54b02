// Package serialbridge implements hal.Transport over a UART command bridge
// to the concentrator board. Boards that expose a BUSY line signal command
// completion with a rising edge; the bridge waits for it before issuing
// the next command. Bridges without a BUSY line (plain USB-UART adapters)
// work too, paced only by the response frames.
package serialbridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/mazen160/go-random"
	"github.com/tarm/serial"
	"github.com/warthog618/gpiod"

	"github.com/bmarkulin/go-lgw-fpga/pkg/hal"
)

// Config holds the bridge parameters. Port is required; GPIOChip is
// optional and enables BUSY line pacing when set.
type Config struct {
	Port        string        // serial port name, e.g. /dev/ttyUSB0
	Baud        int           // defaults to 115200
	GPIOChip    string        // GPIO chip name, e.g. gpiochip0 (optional)
	BusyPin     int           // BUSY line offset on the GPIO chip
	ReadTimeout time.Duration // defaults to 2 seconds
}

// Bridge talks the UART command protocol to the board. It satisfies
// hal.Transport.
type Bridge struct {
	cfg          Config
	serialStream *serial.Port
	gpioChip     *gpiod.Chip
	busyLine     *gpiod.Line
	muCmd        sync.Mutex            // one command exchange on the wire at a time
	muWaiters    sync.Mutex            // map protection mutex
	busyWaiters  map[string]chan error // holds channels that wait for the rising BUSY edge
}

// New prepares a bridge. The link is not touched until Open.
func New(cfg Config) (*Bridge, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("serial port name is required")
	}
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 2 * time.Second
	}
	return &Bridge{
		cfg:         cfg,
		busyWaiters: make(map[string]chan error),
	}, nil
}

func (obj *Bridge) Open() error {
	if obj.cfg.GPIOChip != "" {
		c, err := gpiod.NewChip(obj.cfg.GPIOChip, gpiod.WithConsumer("lgw-fpga-bridge"))
		if err != nil {
			return fmt.Errorf("failed to create GPIO chip: %w", err)
		}
		obj.gpioChip = c
		obj.busyLine, err = c.RequestLine(obj.cfg.BusyPin, gpiod.WithEventHandler(obj.onBusyLineRiseEvent), gpiod.WithRisingEdge)
		if err != nil {
			c.Close()
			obj.gpioChip = nil
			return fmt.Errorf("failed to request BUSY GPIO line: %w", err)
		}
	}

	config := &serial.Config{
		Name:        obj.cfg.Port,
		Baud:        obj.cfg.Baud,
		Size:        8,
		ReadTimeout: obj.cfg.ReadTimeout,
	}
	stream, err := serial.OpenPort(config)
	if err != nil {
		if obj.busyLine != nil {
			obj.busyLine.Close()
			obj.gpioChip.Close()
			obj.busyLine = nil
			obj.gpioChip = nil
		}
		return fmt.Errorf("failed to open serial port, err: %w", err)
	}
	obj.serialStream = stream
	return nil
}

func (obj *Bridge) Close() (err error) {
	if obj.busyLine != nil {
		err = obj.busyLine.Close()
		if err != nil {
			return fmt.Errorf("failed to close BUSY line: %w", err)
		}
		obj.busyLine = nil
		obj.gpioChip.Close()
		obj.gpioChip = nil
	}
	if obj.serialStream != nil {
		err = obj.serialStream.Close()
		obj.serialStream = nil
		if err != nil {
			return fmt.Errorf("failed to close serial stream: %w", err)
		}
	}
	return nil
}

func (obj *Bridge) ReadByte(target hal.Mux, addr uint8) (byte, error) {
	payload, err := obj.command(encodeFrame(cmdReadByte, target, addr, 1, nil), 1)
	if err != nil {
		return 0, err
	}
	return payload[0], nil
}

func (obj *Bridge) WriteByte(target hal.Mux, addr uint8, value byte) error {
	_, err := obj.command(encodeFrame(cmdWriteByte, target, addr, 1, []byte{value}), 0)
	return err
}

func (obj *Bridge) ReadBurst(target hal.Mux, addr uint8, size int) ([]byte, error) {
	return obj.command(encodeFrame(cmdReadBurst, target, addr, size, nil), size)
}

func (obj *Bridge) WriteBurst(target hal.Mux, addr uint8, data []byte) error {
	_, err := obj.command(encodeFrame(cmdWriteBurst, target, addr, len(data), data), 0)
	return err
}

// command performs one request/response exchange and returns the response
// payload of want bytes.
func (obj *Bridge) command(frame []byte, want int) ([]byte, error) {
	obj.muCmd.Lock()
	defer obj.muCmd.Unlock()

	if obj.serialStream == nil {
		return nil, fmt.Errorf("bridge is not open")
	}

	// check if the board is busy, wait for the previous command to finish
	if err := obj.registerAndWaitBusyDone(); err != nil {
		return nil, fmt.Errorf("failed to check BUSY line state: %w", err)
	}

	if _, err := obj.serialStream.Write(frame); err != nil {
		return nil, fmt.Errorf("failed to send frame, err: %w", err)
	}

	rsp, err := obj.readFull(1 + want)
	if err != nil {
		return nil, err
	}
	return parseResponse(rsp, want)
}

// readFull collects exactly n bytes from the serial stream. The port read
// timeout paces each chunk; an overall deadline bounds the whole response.
func (obj *Bridge) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	deadline := time.Now().Add(obj.cfg.ReadTimeout)
	got := 0
	for got < n {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timeout reading response, got %d of %d bytes", got, n)
		}
		chunk, err := obj.serialStream.Read(buf[got:])
		if err != nil {
			return nil, fmt.Errorf("failed to receive data: %w", err)
		}
		got += chunk
	}
	return buf, nil
}

func (obj *Bridge) onBusyLineRiseEvent(evt gpiod.LineEvent) {
	// on the rising BUSY edge the board has finished its command and
	// waiters may proceed
	obj.busyDoneNotifyReceivers()
}

func (obj *Bridge) busyDoneNotifyReceivers() {
	obj.muWaiters.Lock()
	defer obj.muWaiters.Unlock()
	for id, ch := range obj.busyWaiters {
		ch <- nil
		close(ch)
		delete(obj.busyWaiters, id)
	}
}

func (obj *Bridge) registerAndWaitBusyDone() error {
	if obj.busyLine == nil {
		return nil
	}
	val, err := obj.busyLine.Value()
	if err != nil {
		return err
	}
	if val == 1 {
		return nil
	}

	// buffered so the notifier never blocks on a waiter that already
	// timed out and abandoned its channel
	ch := make(chan error, 1)
	id, err := random.String(16)
	if err != nil {
		return fmt.Errorf("failed to generate random id: %w", err)
	}
	obj.muWaiters.Lock()
	obj.busyWaiters[id] = ch
	obj.muWaiters.Unlock()
	select {
	case <-time.After(obj.cfg.ReadTimeout):
		return fmt.Errorf("busy free checking timeouted")
	case <-ch:
		return nil
	}
}
