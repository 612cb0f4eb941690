//go:build tinygo && avr

package avr

import "device"

// Interrupts drives the AVR global interrupt enable flag via the sei/cli
// instructions (§4.1).
type Interrupts struct{}

// NewInterrupts returns an interrupt controller.
func NewInterrupts() *Interrupts { return &Interrupts{} }

func (Interrupts) EnableGlobal()  { device.Asm("sei") }
func (Interrupts) DisableGlobal() { device.Asm("cli") }
