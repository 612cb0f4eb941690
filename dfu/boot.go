package dfu

import (
	"github.com/chenzhuoyu/KeyboardBootloader/hal"
	"github.com/chenzhuoyu/KeyboardBootloader/pkg"
	"github.com/chenzhuoyu/KeyboardBootloader/usb"
)

// debounceIterations is the coarse busy-wait loop count for button
// debounce (§4.1: "on the order of tens of milliseconds... exactness is
// not required"). original_source/main.c used a 500x500 nop loop; the
// exact count is platform-timing-dependent, left as a tunable constant
// rather than derived from a wall clock the bootloader doesn't have.
const debounceIterations = 500 * 500

// Bootloader ties the boot arbiter, control handler, bulk pump, and
// ticker together over a hal.Platform (§2 "Control flow").
type Bootloader struct {
	platform hal.Platform
	session  *Session
	control  *Control
	pump     *Pump
	ticker   *Ticker
}

// New builds a Bootloader wired to platform's facade.
func New(platform hal.Platform) *Bootloader {
	session := NewSession()
	descriptors := NewDescriptors()
	control := NewControl(session, descriptors, platform.Flash(), platform.EEPROM())
	pump := NewPump(session, platform.USB(), platform.Flash(), platform.EEPROM())
	ticker := NewTicker(session, platform.GPIO())
	return &Bootloader{platform: platform, session: session, control: control, pump: pump, ticker: ticker}
}

// Run is the boot arbiter of §4.1: on reset, decide DFU-vs-application
// and perform the ritual transitions for whichever is chosen. Run does
// not return when the application path is taken.
func Run(platform hal.Platform) {
	b := New(platform)
	b.platform.Watchdog().Disable()
	b.platform.GPIO().ConfigureButton()
	b.platform.GPIO().ConfigureIndicators()

	debounce()

	if !b.platform.GPIO().ButtonPressed() {
		pkg.LogInfo(pkg.ComponentBoot, "button not held, jumping to application")
		b.platform.Jumper().Jump()
		return
	}

	b.runDFU()
}

// EnterBootloader lets the running application re-enter DFU without a
// reset (§4.1): the application performs its own hardware init, then
// calls this. It skips the button sample entirely.
func EnterBootloader(platform hal.Platform) {
	b := New(platform)
	b.runDFU()
}

func debounce() {
	for i := 0; i < debounceIterations; i++ {
		// Busy-wait; the platform provides no wall clock this early in
		// boot, so the delay is a fixed iteration count (§4.1).
	}
}

// runDFU implements DFU entry, the event loop, and DFU exit (§4.1).
func (b *Bootloader) runDFU() {
	pkg.LogInfo(pkg.ComponentBoot, "entering DFU")

	b.platform.Vectors().RelocateToBootloader()
	b.platform.Ticker().Start(b.ticker.Tick)
	b.platform.USB().Init()
	b.platform.Interrupts().EnableGlobal()

	for b.session.Active() {
		b.serviceControl()
		b.pump.Service()
	}

	pkg.LogInfo(pkg.ComponentBoot, "exiting DFU")

	b.platform.USB().Shutdown()
	b.platform.Interrupts().DisableGlobal()
	b.platform.Ticker().Stop()
	b.platform.Vectors().RelocateToApplication()
	b.platform.Watchdog().ArmShortest()
}

// serviceControl drains one pending SETUP packet, if any, dispatching
// standard GET_DESCRIPTOR requests to the descriptor provider and vendor
// requests to the vendor control handler, and stalling EP0 for anything
// else (§9: "the core exposes two pure handlers... the USB stack invokes").
func (b *Bootloader) serviceControl() {
	ctl := b.platform.USB()
	if !ctl.SetupReady() {
		return
	}

	var raw [usb.SetupPacketSize]byte
	ctl.ReadSetup(raw[:])

	var setup usb.SetupPacket
	if err := usb.ParseSetupPacket(raw[:], &setup); err != nil {
		ctl.StallEP0()
		return
	}

	if setup.IsStandard() && setup.Request == usb.RequestGetDescriptor {
		b.serveDescriptor(ctl, &setup)
		return
	}

	if setup.IsVendor() {
		b.serveVendor(ctl, &setup)
		return
	}

	ctl.StallEP0()
}

func (b *Bootloader) serveDescriptor(ctl hal.USBController, setup *usb.SetupPacket) {
	data, ok := b.control.LookupDescriptor(setup.DescriptorType(), setup.DescriptorIndex())
	if !ok {
		ctl.StallEP0()
		return
	}
	n := len(data)
	if int(setup.Length) < n {
		n = int(setup.Length)
	}
	ctl.WriteEP0(data[:n])
	ctl.AckEP0()
}

func (b *Bootloader) serveVendor(ctl hal.USBController, setup *usb.SetupPacket) {
	if setup.Length >= FixedControlEndpointSize {
		// Mirrors Control.HandleSetup's own filter (§4.3): a wLength this
		// large can never be a valid vendor request on this interface, and
		// reading it into the fixed EP0 buffer below would overrun it.
		ctl.StallEP0()
		return
	}

	var outData []byte
	if setup.Length > 0 && !setup.IsDeviceToHost() {
		var buf [FixedControlEndpointSize]byte
		n := ctl.ReadEP0(buf[:setup.Length])
		outData = buf[:n]
	}

	resp, handled := b.control.HandleSetup(setup, outData)
	if !handled {
		ctl.StallEP0()
		return
	}
	if len(resp) > 0 {
		ctl.WriteEP0(resp)
	}
	ctl.AckEP0()
}
