//go:build tinygo && avr

package avr

import "device"

// Jumper transfers control to the application image at address 0
// (§4.1). AVR has no indirect jump-to-immediate-zero instruction
// reachable from Go, so this emits a raw "jmp 0"; it never returns.
type Jumper struct{}

// NewJumper returns an application jumper.
func NewJumper() *Jumper { return &Jumper{} }

func (Jumper) Jump() {
	device.Asm("jmp 0")
}
