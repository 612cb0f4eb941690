//go:build tinygo && avr

package avr

import "device/avr"

// WDTCSR bits (ATmega32U4 datasheet).
const (
	wdtcsrWDCE = 1 << 4 // watchdog change enable
	wdtcsrWDE  = 1 << 3 // watchdog system reset enable
)

// Watchdog drives the ATmega32U4 watchdog timer (§4.1).
type Watchdog struct{}

// NewWatchdog returns a watchdog controller.
func NewWatchdog() *Watchdog { return &Watchdog{} }

// Disable clears any pending watchdog-reset flag (MCUSR.WDRF) and stops
// the watchdog, per the boot arbiter's entry sequence.
func (Watchdog) Disable() {
	avr.MCUSR.ClearBits(1 << 3) // WDRF
	avr.WDTCSR.SetBits(wdtcsrWDCE | wdtcsrWDE)
	avr.WDTCSR.Set(0)
}

// ArmShortest arms the shortest available timeout (16ms, WDP=0b0000) and
// spins; the watchdog fires and resets the device. Does not return.
func (Watchdog) ArmShortest() {
	avr.WDTCSR.SetBits(wdtcsrWDCE | wdtcsrWDE)
	avr.WDTCSR.Set(wdtcsrWDE)
	for {
	}
}
