//go:build tinygo && avr

package avr

import (
	"device"
	"device/avr"
)

// SPMCSR bits (ATmega32U4 datasheet, boot loader section).
const (
	spmcsrSPMEN  = 1 << 0 // self programming enable
	spmcsrPGERS  = 1 << 1 // page erase
	spmcsrPGWRT  = 1 << 2 // page write
	spmcsrRWWSRE = 1 << 4 // read-while-write section re-enable
	spmcsrRWWSB  = 1 << 6 // read-while-write section busy
	spmcsrSELFPRGEN = spmcsrSPMEN
)

// Flash drives the ATmega32U4 self-programming primitives (§4.3 commit
// ordering, §9 "FLASH page commit ordering"). Each operation blocks on
// SPMCSR's busy bit before returning, matching the platform's "safe"
// variants avr-libc's boot.h macros provide.
type Flash struct {
	pageSize int
	wordBuf  []uint16
}

// NewFlash returns a flash controller for the given page size in bytes.
func NewFlash(pageSize int) *Flash {
	return &Flash{pageSize: pageSize, wordBuf: make([]uint16, pageSize/2)}
}

func (f *Flash) PageSize() int { return f.pageSize }

func (f *Flash) ErasePage(addr uint16) {
	waitNotBusy()
	setZPointer(addr)
	device.AsmFull("out {spmcsr}, {bits}\nspm\n", map[string]interface{}{
		"spmcsr": avr.SPMCSR,
		"bits":   uint8(spmcsrPGERS | spmcsrSELFPRGEN),
	})
	waitNotBusy()
}

func (f *Flash) FillWord(wordOffset uint16, word uint16) {
	f.wordBuf[wordOffset] = word
}

func (f *Flash) WritePage(addr uint16) {
	for i, w := range f.wordBuf {
		offset := addr + uint16(i*2)
		setZPointer(offset)
		device.AsmFull("movw r0, {word}\nout {spmcsr}, {bits}\nspm\n", map[string]interface{}{
			"word":   w,
			"spmcsr": avr.SPMCSR,
			"bits":   uint8(spmcsrSELFPRGEN),
		})
	}
	waitNotBusy()
	setZPointer(addr)
	device.AsmFull("out {spmcsr}, {bits}\nspm\n", map[string]interface{}{
		"spmcsr": avr.SPMCSR,
		"bits":   uint8(spmcsrPGWRT | spmcsrSELFPRGEN),
	})
	waitNotBusy()
}

func (f *Flash) EnableRWW() {
	device.AsmFull("out {spmcsr}, {bits}\nspm\n", map[string]interface{}{
		"spmcsr": avr.SPMCSR,
		"bits":   uint8(spmcsrRWWSRE | spmcsrSELFPRGEN),
	})
	waitNotBusy()
}

func (f *Flash) ReadByte(addr uint16) byte {
	return programMemoryByte(addr)
}

func waitNotBusy() {
	for avr.SPMCSR.Get()&(spmcsrSPMEN|spmcsrRWWSB) != 0 {
	}
}

func setZPointer(addr uint16) {
	avr.RAMPZ.Set(0)
	device.AsmFull("movw r30, {addr}\n", map[string]interface{}{"addr": addr})
}

// programMemoryByte fetches one byte from program memory via the lpm
// instruction, matching the FLASH access path READ_PAGE/bulk IN uses.
func programMemoryByte(addr uint16) byte {
	setZPointer(addr)
	var b uint8
	device.AsmFull("lpm {b}, Z\n", map[string]interface{}{"b": &b})
	return b
}
