//go:build tinygo && avr

package avr

import (
	"device/avr"

	"github.com/chenzhuoyu/KeyboardBootloader/hal"
)

// Pin assignments on PORTB, matching original_source/main.c's SW_BTN,
// LED_RED, LED_BLUE bit positions.
const (
	pinSWBTN  = 0 // PB0, active-low
	pinLEDRed = 1 // PB1
	pinLEDBlu = 2 // PB2
)

// GPIO drives the boot-time control surface (§6) on PORTB.
type GPIO struct{}

// NewGPIO returns a GPIO bound to PORTB.
func NewGPIO() *GPIO { return &GPIO{} }

func (GPIO) ConfigureButton() {
	avr.DDRB.ClearBits(1 << pinSWBTN)
	avr.PORTB.SetBits(1 << pinSWBTN) // enable pull-up; button reads low when pressed
}

func (GPIO) ConfigureIndicators() {
	avr.DDRB.SetBits((1 << pinLEDRed) | (1 << pinLEDBlu))
}

func (GPIO) ButtonPressed() bool {
	return avr.PINB.Get()&(1<<pinSWBTN) == 0
}

func (GPIO) SetIndicator(led hal.Indicator, on bool) {
	var bit uint8
	switch led {
	case hal.IndicatorRed:
		bit = 1 << pinLEDRed
	case hal.IndicatorBlue:
		bit = 1 << pinLEDBlu
	default:
		return
	}
	if on {
		avr.PORTB.SetBits(bit)
	} else {
		avr.PORTB.ClearBits(bit)
	}
}
