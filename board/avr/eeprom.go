//go:build tinygo && avr

package avr

import "device/avr"

// EECR bits.
const (
	eecrEERE = 1 << 0 // EEPROM read enable
	eecrEEPE = 1 << 1 // EEPROM write enable
	eecrEEMPE = 1 << 2 // EEPROM master write enable
)

// EEPROM drives the byte-addressable EEPROM primitives. WriteByte blocks
// to completion internally (§5 "Resource discipline").
type EEPROM struct{}

// NewEEPROM returns an EEPROM controller.
func NewEEPROM() *EEPROM { return &EEPROM{} }

func (EEPROM) ReadByte(addr uint16) byte {
	waitEEPROMReady()
	avr.EEARL.Set(uint8(addr))
	avr.EEARH.Set(uint8(addr >> 8))
	avr.EECR.SetBits(eecrEERE)
	return avr.EEDR.Get()
}

func (EEPROM) WriteByte(addr uint16, value byte) {
	waitEEPROMReady()
	avr.EEARL.Set(uint8(addr))
	avr.EEARH.Set(uint8(addr >> 8))
	avr.EEDR.Set(value)
	avr.EECR.SetBits(eecrEEMPE)
	avr.EECR.SetBits(eecrEEPE)
	waitEEPROMReady()
}

func waitEEPROMReady() {
	for avr.EECR.Get()&eecrEEPE != 0 {
	}
}
