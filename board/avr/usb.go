//go:build tinygo && avr

package avr

import "device/avr"

// ATmega32U4 USB controller register bits this driver touches. The full
// USB device stack (enumeration, standard requests) is explicitly out of
// scope for the CORE (§1): this file implements only the primitive
// endpoint operations hal.USBController specifies, at the same register
// level original_source/main.c's LUFA-based stack used underneath.
const (
	usbconUSBE  = 1 << 7 // USB controller enable
	usbconFRZCLK = 1 << 5 // freeze USB clock

	udconDETACH = 1 << 0 // detach from bus

	ueconxEPEN = 1 << 0 // endpoint enable

	uecfg0xEPTYPEMask = 0xC0
	uecfg0xEPTYPEControl = 0x00
	uecfg0xEPTYPEBulk    = 0xC0
	uecfg0xEPDIRIN       = 1 << 0

	uecfg1xEPSIZE64 = 0x30
	uecfg1xALLOC    = 1 << 1

	ueintxRXSTPI = 1 << 2 // SETUP received
	ueintxTXINI  = 1 << 0 // bank ready for IN data
	ueintxRXOUTI = 1 << 2 // OUT data received (alias with RXSTPI depending on endpoint)
	ueintxFIFOCON = 1 << 7
	ueintxNAKOUTI = 1 << 4
)

// Endpoint numbers this device declares (§4.2, §6): EP0 control, EP1 IN,
// EP2 OUT.
const (
	epControl = 0
	epBulkIn  = 1
	epBulkOut = 2
)

// USB implements hal.USBController on the ATmega32U4 USB controller.
type USB struct{}

// NewUSB returns a USB controller bound to the on-chip peripheral.
func NewUSB() *USB { return &USB{} }

func (USB) Init() {
	avr.UHWCON.SetBits(1 << 0) // UVREGE: enable USB pad regulator
	avr.USBCON.SetBits(usbconUSBE)
	avr.USBCON.ClearBits(usbconFRZCLK)
	avr.UDCON.ClearBits(udconDETACH)

	selectEndpoint(epControl)
	avr.UECONX.SetBits(ueconxEPEN)
	avr.UECFG0X.Set(uecfg0xEPTYPEControl)
	avr.UECFG1X.Set(uecfg1xEPSIZE64 | uecfg1xALLOC)

	selectEndpoint(epBulkIn)
	avr.UECONX.SetBits(ueconxEPEN)
	avr.UECFG0X.Set(uecfg0xEPTYPEBulk | uecfg0xEPDIRIN)
	avr.UECFG1X.Set(uecfg1xEPSIZE64 | uecfg1xALLOC)

	selectEndpoint(epBulkOut)
	avr.UECONX.SetBits(ueconxEPEN)
	avr.UECFG0X.Set(uecfg0xEPTYPEBulk)
	avr.UECFG1X.Set(uecfg1xEPSIZE64 | uecfg1xALLOC)
}

func (USB) Shutdown() {
	avr.UDCON.SetBits(udconDETACH)
	avr.USBCON.ClearBits(usbconUSBE)
}

func selectEndpoint(ep uint8) { avr.UENUM.Set(ep) }

func (USB) SetupReady() bool {
	selectEndpoint(epControl)
	return avr.UEINTX.Get()&ueintxRXSTPI != 0
}

func (USB) ReadSetup(buf []byte) {
	selectEndpoint(epControl)
	for i := range buf {
		if i >= 8 {
			break
		}
		buf[i] = avr.UEDATX.Get()
	}
	avr.UEINTX.ClearBits(ueintxRXSTPI)
}

func (USB) WriteEP0(data []byte) int {
	selectEndpoint(epControl)
	for _, b := range data {
		avr.UEDATX.Set(b)
	}
	avr.UEINTX.ClearBits(ueintxTXINI)
	return len(data)
}

func (USB) ReadEP0(buf []byte) int {
	selectEndpoint(epControl)
	n := 0
	for n < len(buf) && avr.UEBCLX.Get() > 0 {
		buf[n] = avr.UEDATX.Get()
		n++
	}
	avr.UEINTX.ClearBits(ueintxRXOUTI)
	return n
}

func (USB) AckEP0() {
	selectEndpoint(epControl)
	avr.UEINTX.ClearBits(ueintxTXINI)
}

func (USB) StallEP0() {
	selectEndpoint(epControl)
	avr.UECONX.SetBits(1 << 5) // STALLRQ
}

func (USB) BulkInReady() bool {
	selectEndpoint(epBulkIn)
	return avr.UEINTX.Get()&ueintxTXINI != 0
}

func (USB) WriteBulkIn(data []byte) int {
	selectEndpoint(epBulkIn)
	for _, b := range data {
		avr.UEDATX.Set(b)
	}
	avr.UEINTX.ClearBits(ueintxFIFOCON)
	return len(data)
}

func (USB) BulkOutReady() bool {
	selectEndpoint(epBulkOut)
	return avr.UEINTX.Get()&ueintxRXOUTI != 0
}

func (USB) ReadBulkOut(buf []byte) int {
	selectEndpoint(epBulkOut)
	n := 0
	for n < len(buf) && avr.UEBCLX.Get() > 0 {
		buf[n] = avr.UEDATX.Get()
		n++
	}
	avr.UEINTX.ClearBits(ueintxFIFOCON)
	avr.UEINTX.ClearBits(ueintxRXOUTI)
	return n
}
