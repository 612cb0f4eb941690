package dfu_test

import (
	"testing"

	"github.com/chenzhuoyu/KeyboardBootloader/board/sim"
	"github.com/chenzhuoyu/KeyboardBootloader/dfu"
	"github.com/chenzhuoyu/KeyboardBootloader/usb"
)

// Blue LED blinks at one-third the tick rate (§4.5 divide-by-three).
func TestTickerBlueBlinkDivideByThree(t *testing.T) {
	session := dfu.NewSession()
	gpio := sim.NewGPIO()
	ticker := dfu.NewTicker(session, gpio)

	var toggles int
	last := gpio.BlueState()
	for i := 0; i < dfu.BlueBlinkDivisor*4; i++ {
		ticker.Tick()
		if gpio.BlueState() != last {
			toggles++
			last = gpio.BlueState()
		}
	}
	if toggles != 4 {
		t.Fatalf("blue toggled %d times in %d ticks, want %d", toggles, dfu.BlueBlinkDivisor*4, 4)
	}
}

// Red LED pulses solid on exactly the tick after a successful command,
// then returns off (§4.5).
func TestTickerRedPulse(t *testing.T) {
	session := dfu.NewSession()
	descriptors := dfu.NewDescriptors()
	flash := sim.NewFlash(int(dfu.FlashRegion.TotalSize), int(dfu.FlashRegion.PageSize))
	eeprom := sim.NewEEPROM(int(dfu.EEPROMRegion.TotalSize))
	control := dfu.NewControl(session, descriptors, flash, eeprom)
	gpio := sim.NewGPIO()
	ticker := dfu.NewTicker(session, gpio)

	nopSetup := &usb.SetupPacket{RequestType: 0xC1, Request: dfu.CmdNop, Value: 0, Index: dfu.InterfaceNumber, Length: 1}
	if _, handled := control.HandleSetup(nopSetup, nil); !handled {
		t.Fatal("NOP not handled")
	}

	ticker.Tick()
	if !gpio.RedState() {
		t.Fatal("expected red indicator on for the tick after a successful command")
	}

	ticker.Tick()
	if gpio.RedState() {
		t.Fatal("expected red indicator off on the following tick")
	}
}

// Session liveness: idle timeout ends the session within one tick once
// idle_ticks reaches zero (§8 invariant 6). IdleReload ticks run the
// counter down to zero; the following tick ends the session.
func TestTickerIdleTimeoutEndsSession(t *testing.T) {
	session := dfu.NewSession()
	gpio := sim.NewGPIO()
	ticker := dfu.NewTicker(session, gpio)

	for i := 0; i <= dfu.IdleReload; i++ {
		if !session.Active() {
			t.Fatalf("session ended early at tick %d", i)
		}
		ticker.Tick()
	}
	if session.Active() {
		t.Fatal("expected session inactive after IdleReload+1 ticks")
	}
}
