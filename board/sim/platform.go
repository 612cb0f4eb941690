package sim

import "github.com/chenzhuoyu/KeyboardBootloader/hal"

// Platform aggregates every in-memory facade into one hal.Platform,
// sized to the reference FLASH/EEPROM regions (dfu.FlashRegion,
// dfu.EEPROMRegion) by the caller.
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

// NewPlatform builds a fully in-memory platform. flashSize/flashPageSize
// and eepromSize size the backing memories; tests pass the reference
// region parameters from package dfu.
func NewPlatform(flashSize, flashPageSize, eepromSize int) *Platform {
	return &Platform{
		usb:        NewUSB(),
		flash:      NewFlash(flashSize, flashPageSize),
		eeprom:     NewEEPROM(eepromSize),
		gpio:       NewGPIO(),
		ticker:     NewTicker(),
		watchdog:   NewWatchdog(),
		vectors:    NewVectors(),
		interrupts: NewInterrupts(),
		jumper:     NewJumper(),
	}
}

func (p *Platform) USB() hal.USBController             { return p.usb }
func (p *Platform) Flash() hal.FlashController          { return p.flash }
func (p *Platform) EEPROM() hal.EEPROMController         { return p.eeprom }
func (p *Platform) GPIO() hal.GPIO                       { return p.gpio }
func (p *Platform) Ticker() hal.Ticker                   { return p.ticker }
func (p *Platform) Watchdog() hal.Watchdog               { return p.watchdog }
func (p *Platform) Vectors() hal.VectorTable              { return p.vectors }
func (p *Platform) Interrupts() hal.InterruptController  { return p.interrupts }
func (p *Platform) Jumper() hal.ApplicationJumper         { return p.jumper }

// USBSim exposes the concrete USB test double for InjectSetup/DrainBulkIn calls.
func (p *Platform) USBSim() *USB { return p.usb }

// FlashSim exposes the concrete flash test double for Contents assertions.
func (p *Platform) FlashSim() *Flash { return p.flash }

// EEPROMSim exposes the concrete EEPROM test double for Contents assertions.
func (p *Platform) EEPROMSim() *EEPROM { return p.eeprom }

// GPIOSim exposes the concrete GPIO test double for SetButton/RedState/BlueState.
func (p *Platform) GPIOSim() *GPIO { return p.gpio }

// TickerSim exposes the concrete ticker test double for manual Tick calls.
func (p *Platform) TickerSim() *Ticker { return p.ticker }

// WatchdogSim exposes the concrete watchdog test double for Armed assertions.
func (p *Platform) WatchdogSim() *Watchdog { return p.watchdog }

// JumperSim exposes the concrete jumper test double for Jumped assertions.
func (p *Platform) JumperSim() *Jumper { return p.jumper }

// InterruptsSim exposes the concrete interrupt controller test double for Enabled assertions.
func (p *Platform) InterruptsSim() *Interrupts { return p.interrupts }

// VectorsSim exposes the concrete vector table test double for AtBootloader assertions.
func (p *Platform) VectorsSim() *Vectors { return p.vectors }
