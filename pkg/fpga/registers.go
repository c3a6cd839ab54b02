package fpga

import "fmt"

// RegID identifies a logical register in a Table. The identifier space is
// dense: valid values are 0..len(table)-1.
type RegID uint16

// Registers of the spectral scan FPGA, in table order.
const (
	RegSoftReset RegID = iota
	RegVersion
	RegStatus
	RegCtrl
	RegHistoRAMAddr
	RegHistoRAMData
	RegHistoTempo
	RegHistoNbRead
	RegTimestamp
	RegSPIMuxCtrl

	TotalRegs
)

var regNames = [TotalRegs]string{
	"SOFT_RESET",
	"VERSION",
	"FPGA_STATUS",
	"FPGA_CTRL",
	"HISTO_RAM_ADDR",
	"HISTO_RAM_DATA",
	"HISTO_TEMPO",
	"HISTO_NB_READ",
	"TIMESTAMP",
	"SPI_MUX_CTRL",
}

func (id RegID) String() string {
	if id < TotalRegs {
		return regNames[id]
	}
	return fmt.Sprintf("REG_%d", uint16(id))
}

// Descriptor holds the storage geometry of one register. It says nothing
// about what the register means, only where its bits live.
type Descriptor struct {
	Page     int8  // page containing the register, -1 for all pages
	Addr     uint8 // base address of the register (7 bit)
	Offset   uint8 // position of the register LSB, 0 to 7
	Length   uint8 // number of bits in the register, 1 to 32
	Signed   bool  // two's complement representation
	ReadOnly bool  // writes must be rejected
	Default  int32 // value after reset, used by the connect handshake
}

// valid reports whether the geometry matches one of the two supported
// forms: a field contained in a single byte, or a multi-byte field starting
// at bit 0.
func (d Descriptor) valid() bool {
	if d.Length == 0 || d.Offset > 7 {
		return false
	}
	// widen before adding so a large offset cannot wrap the uint8 sum
	if int(d.Offset)+int(d.Length) <= 8 {
		return true
	}
	return d.Offset == 0 && d.Length <= 32
}

// Table is an immutable, dense register map. The zero value is not usable;
// build one with NewTable or use DefaultTable.
type Table struct {
	regs []Descriptor
}

// NewTable builds a Table from descriptors, asserting the geometry
// invariant once up front so lookups never have to re-check it.
func NewTable(regs []Descriptor) (Table, error) {
	for i, d := range regs {
		if !d.valid() {
			return Table{}, &GeometryError{ID: RegID(i), Offset: d.Offset, Length: d.Length}
		}
	}
	t := Table{regs: make([]Descriptor, len(regs))}
	copy(t.regs, regs)
	return t, nil
}

// Len returns the number of registers in the table.
func (t Table) Len() int {
	return len(t.regs)
}

// lookup returns the descriptor for id.
func (t Table) lookup(id RegID) (Descriptor, error) {
	if int(id) >= len(t.regs) {
		return Descriptor{}, &InvalidRegisterError{ID: id, Total: len(t.regs)}
	}
	return t.regs[id], nil
}

// DefaultTable describes the spectral scan FPGA register map.
func DefaultTable() Table {
	return defaultTable
}

// defaultTable entries follow the RegID constant order above.
var defaultTable = mustTable([]Descriptor{
	{Page: -1, Addr: 0, Offset: 0, Length: 1, Default: 0},
	{Page: -1, Addr: 1, Offset: 0, Length: 8, ReadOnly: true, Default: 18},
	{Page: -1, Addr: 2, Offset: 0, Length: 8, ReadOnly: true, Default: 0},
	{Page: -1, Addr: 3, Offset: 0, Length: 8, Default: 0},
	{Page: -1, Addr: 4, Offset: 0, Length: 8, Default: 0},
	{Page: -1, Addr: 5, Offset: 0, Length: 8, ReadOnly: true, Default: 0},
	{Page: -1, Addr: 6, Offset: 0, Length: 16, Default: 32000},
	{Page: -1, Addr: 8, Offset: 0, Length: 16, Default: 1000},
	{Page: -1, Addr: 10, Offset: 0, Length: 32, ReadOnly: true, Default: 0},
	{Page: -1, Addr: 127, Offset: 0, Length: 8, Default: 0},
})

func mustTable(regs []Descriptor) Table {
	t, err := NewTable(regs)
	if err != nil {
		panic(err)
	}
	return t
}
