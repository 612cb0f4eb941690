package dfu

import (
	"github.com/chenzhuoyu/KeyboardBootloader/hal"
	"github.com/chenzhuoyu/KeyboardBootloader/pkg"
)

// Ticker runs in interrupt context at the platform's fixed tick rate and
// implements §4.5: decrement the idle timeout, drive the red indicator's
// command-activity pulse, and blink the blue heartbeat LED at one-third
// the tick rate.
type Ticker struct {
	session *Session
	gpio    indicatorGPIO
}

// indicatorGPIO narrows hal.GPIO to the indicator method the ticker
// needs.
type indicatorGPIO interface {
	SetIndicator(led hal.Indicator, on bool)
}

// NewTicker builds a ticker driving gpio's indicators for session.
func NewTicker(session *Session, gpio indicatorGPIO) *Ticker {
	return &Ticker{session: session, gpio: gpio}
}

// Tick runs one tick's worth of work (§4.5). It is the function handed
// to hal.Ticker.Start and must be safe to call from interrupt context:
// the session fields it shares with the foreground are atomic, the blue
// blink counter and state are touched by nothing else, and the debug log call
// below is the same zero-cost-when-disabled check pkg.LogDebug always is.
func (t *Ticker) Tick() {
	s := t.session

	if s.idleTicks.Load() == 0 {
		pkg.LogDebug(pkg.ComponentTicker, "idle timeout, ending session")
		s.End()
		return
	}

	if s.redPulse.CompareAndSwap(true, false) {
		t.gpio.SetIndicator(hal.IndicatorRed, true)
	} else {
		t.gpio.SetIndicator(hal.IndicatorRed, false)
	}

	s.blueCounter++
	if s.blueCounter >= BlueBlinkDivisor {
		s.blueCounter = 0
		s.blueOn = !s.blueOn
		t.gpio.SetIndicator(hal.IndicatorBlue, s.blueOn)
	}

	s.idleTicks.Add(-1)
}
