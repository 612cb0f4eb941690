//go:build tinygo && avr

package avr

import (
	"github.com/chenzhuoyu/KeyboardBootloader/hal"
	"github.com/chenzhuoyu/KeyboardBootloader/pkg"
)

// Platform aggregates every ATmega32U4 facade into one hal.Platform.
type Platform struct {
	usb        *USB
	flash      *Flash
	eeprom     *EEPROM
	gpio       *GPIO
	ticker     *Ticker
	watchdog   *Watchdog
	vectors    *Vectors
	interrupts *Interrupts
	jumper     *Jumper
}

// flashPageSize is the reference FLASH region's page size (dfu.FlashRegion.PageSize).
const flashPageSize = 128

// New returns the concrete ATmega32U4 platform.
func New() *Platform {
	pkg.LogInfo(pkg.ComponentPlatform, "binding ATmega32U4 platform")
	return &Platform{
		usb:        NewUSB(),
		flash:      NewFlash(flashPageSize),
		eeprom:     NewEEPROM(),
		gpio:       NewGPIO(),
		ticker:     NewTicker(),
		watchdog:   NewWatchdog(),
		vectors:    NewVectors(),
		interrupts: NewInterrupts(),
		jumper:     NewJumper(),
	}
}

func (p *Platform) USB() hal.USBController            { return p.usb }
func (p *Platform) Flash() hal.FlashController        { return p.flash }
func (p *Platform) EEPROM() hal.EEPROMController       { return p.eeprom }
func (p *Platform) GPIO() hal.GPIO                     { return p.gpio }
func (p *Platform) Ticker() hal.Ticker                 { return p.ticker }
func (p *Platform) Watchdog() hal.Watchdog             { return p.watchdog }
func (p *Platform) Vectors() hal.VectorTable           { return p.vectors }
func (p *Platform) Interrupts() hal.InterruptController { return p.interrupts }
func (p *Platform) Jumper() hal.ApplicationJumper       { return p.jumper }
