package hal

// Mux selects which logical address space a byte-level operation targets.
// The concentrator board multiplexes several chips behind one physical
// link; the FPGA routes each access according to this selector.
type Mux uint8

const (
	MuxSX1301 Mux = 0x00
	MuxFPGA   Mux = 0x01
	MuxEEPROM Mux = 0x02
	MuxSX1272 Mux = 0x03
)

// Transport is the byte-oriented link to the concentrator board. A transport
// moves single bytes and byte bursts to and from a 7-bit register address in
// the space chosen by the mux selector. Implementations are expected to be
// synchronous: every call returns only after the wire operation completed or
// failed.
type Transport interface {
	// Open establishes the physical link. It must be called before any
	// byte operation.
	Open() error

	// Close releases the physical link.
	Close() error

	// ReadByte reads one byte from addr in the target space.
	ReadByte(target Mux, addr uint8) (byte, error)

	// WriteByte writes one byte to addr in the target space.
	WriteByte(target Mux, addr uint8, value byte) error

	// ReadBurst reads size consecutive bytes starting at addr.
	ReadBurst(target Mux, addr uint8, size int) ([]byte, error)

	// WriteBurst writes data as consecutive bytes starting at addr.
	WriteBurst(target Mux, addr uint8, data []byte) error
}
