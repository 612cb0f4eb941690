package dfu

import (
	"github.com/chenzhuoyu/KeyboardBootloader/hal"
	"github.com/chenzhuoyu/KeyboardBootloader/pkg"
)

// Pump is the bulk transfer pump of §4.4: cooperative polling that drains
// host-written bytes into the page buffer and streams memory contents
// out to the host, one loop iteration at a time.
type Pump struct {
	session *Session
	usbCtl  hal.USBController
	flash   flashRegion
	eeprom  eepromRegion
}

// NewPump builds a bulk pump over session using usbCtl for endpoint I/O
// and flash/eeprom for region reads.
func NewPump(session *Session, usbCtl hal.USBController, flash flashRegion, eeprom eepromRegion) *Pump {
	return &Pump{session: session, usbCtl: usbCtl, flash: flash, eeprom: eeprom}
}

// Service runs one iteration of both pump halves. Called from the main
// loop on every iteration (§4.4); each half is a no-op when its endpoint
// is not ready, so a call never blocks.
func (p *Pump) Service() {
	p.serviceIn()
	p.serviceOut()
}

// serviceIn implements the IN half (device->host) of §4.4.
func (p *Pump) serviceIn() {
	s := p.session
	if s.readRemaining == 0 || !p.usbCtl.BulkInReady() {
		return
	}

	var chunk [DFUReadSize]byte
	n := 0
	for n < DFUReadSize && s.readRemaining > 0 && s.addr < s.totalSize {
		b, ok := p.readByte(s.memKind, s.addr)
		if !ok {
			pkg.LogWarn(pkg.ComponentBulk, "READ_PAGE stream hit unknown memory kind", "kind", s.memKind)
			s.lastErr = ErrType
			break
		}
		chunk[n] = b
		n++
		s.addr++
		s.readRemaining--
	}
	if n == 0 {
		return
	}
	p.usbCtl.WriteBulkIn(chunk[:n])
}

func (p *Pump) readByte(kind MemoryKind, addr uint16) (byte, bool) {
	switch kind {
	case MemFlash:
		return p.flash.ReadByte(addr), true
	case MemEEPROM:
		return p.eeprom.ReadByte(addr), true
	default:
		return 0, false
	}
}

// serviceOut implements the OUT half (host->device) of §4.4.
func (p *Pump) serviceOut() {
	s := p.session
	if !p.usbCtl.BulkOutReady() {
		return
	}

	room := s.pageSize - s.fill
	if room == 0 {
		return
	}
	max := DFUWriteSize
	if int(room) < max {
		max = int(room)
	}

	var chunk [DFUWriteSize]byte
	n := p.usbCtl.ReadBulkOut(chunk[:max])
	if n == 0 {
		return
	}
	copy(s.pageBuf[s.fill:], chunk[:n])
	s.fill += uint16(n)
}
