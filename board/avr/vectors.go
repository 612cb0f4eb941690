//go:build tinygo && avr

package avr

import (
	"device"
	"device/avr"
)

// MCUCR bits controlling interrupt vector table placement.
const (
	mcucrIVCE = 1 << 0 // interrupt vector change enable
	mcucrIVSEL = 1 << 1 // interrupt vector select (1 = bootloader section)
)

// Vectors relocates the interrupt vector table between the application
// region (address 0) and the bootloader region (§4.1, §9 "Two-phase
// vector relocation write"). The hardware requires the IVCE write and
// the IVSEL write land within four clock cycles of each other with no
// interleaving; device.AsmFull pins both writes as one inline-assembly
// block so the compiler cannot reorder or interrupt them.
type Vectors struct{}

// NewVectors returns a vector table controller.
func NewVectors() *Vectors { return &Vectors{} }

func (Vectors) RelocateToBootloader() {
	relocate(mcucrIVCE | mcucrIVSEL)
}

func (Vectors) RelocateToApplication() {
	relocate(mcucrIVCE)
}

// relocate performs the two-step MCUCR write: set IVCE alone, then write
// the target IVSEL state (with IVCE cleared) on the next instruction.
func relocate(target uint8) {
	device.AsmFull(
		"cli\n"+
			"out {mcucr}, {ivce}\n"+
			"out {mcucr}, {target}\n",
		map[string]interface{}{
			"mcucr":  avr.MCUCR,
			"ivce":   uint8(mcucrIVCE),
			"target": target &^ mcucrIVCE,
		},
	)
}
