package sim

// EEPROM is an in-memory hal.EEPROMController backed by a byte slice
// sized to the reference EEPROM region (dfu.EEPROMRegion.TotalSize).
type EEPROM struct {
	mem []byte
}

// NewEEPROM returns an EEPROM controller of size bytes.
func NewEEPROM(size int) *EEPROM {
	return &EEPROM{mem: make([]byte, size)}
}

func (e *EEPROM) ReadByte(addr uint16) byte { return e.mem[addr] }

func (e *EEPROM) WriteByte(addr uint16, value byte) { e.mem[addr] = value }

// Contents returns the backing memory for test assertions.
func (e *EEPROM) Contents() []byte { return e.mem }
