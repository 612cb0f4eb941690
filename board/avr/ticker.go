//go:build tinygo && avr

package avr

import (
	"device/avr"
	"runtime/interrupt"
)

// Ticker drives the idle/indicator ticker (§4.5) from Timer1's overflow
// interrupt, matching original_source/main.c's ISR(TIMER1_OVF_vect).
// TCCR1B/TIMSK1 configuration mirrors the original's timer init.
type Ticker struct {
	handle interrupt.Interrupt
}

// NewTicker returns a ticker bound to Timer1 overflow, not yet started.
func NewTicker() *Ticker { return &Ticker{} }

func (t *Ticker) Start(fn func()) {
	avr.TCCR1B.Set(0x03) // clk/64 prescaler, matching original_source/main.c
	t.handle = interrupt.New(avr.IRQ_TIMER1_OVF, func(interrupt.Interrupt) {
		fn()
	})
	t.handle.Enable()
	avr.TIMSK1.SetBits(1 << 0) // TOIE1
}

func (t *Ticker) Stop() {
	avr.TIMSK1.ClearBits(1 << 0)
	t.handle.Disable()
}
