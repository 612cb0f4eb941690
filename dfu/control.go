package dfu

import (
	"encoding/binary"

	"github.com/chenzhuoyu/KeyboardBootloader/pkg"
	"github.com/chenzhuoyu/KeyboardBootloader/usb"
)

// Control is the DFU control-request handler of §4.3: the command
// dispatcher invoked by the USB stack for every SETUP on the vendor
// interface.
type Control struct {
	session     *Session
	descriptors *Descriptors
	flash       flashRegion
	eeprom      eepromRegion
}

// flashRegion and eepromRegion narrow hal.FlashController/EEPROMController
// to what the control handler and pump need, so tests can fake them
// without pulling in all of hal.Platform.
type flashRegion interface {
	PageSize() int
	ErasePage(addr uint16)
	FillWord(wordOffset uint16, word uint16)
	WritePage(addr uint16)
	EnableRWW()
	ReadByte(addr uint16) byte
}

type eepromRegion interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, value byte)
}

// NewControl builds a control handler over session, serving descriptors
// and programming flash/eeprom.
func NewControl(session *Session, descriptors *Descriptors, flash flashRegion, eeprom eepromRegion) *Control {
	return &Control{session: session, descriptors: descriptors, flash: flash, eeprom: eeprom}
}

// HandleSetup processes one SETUP packet plus any OUT data already
// staged for it (e.g. SET_ADDR's 2-byte payload, SET_TYPE's 1-byte
// payload). It returns the response bytes to send on EP0 (possibly
// empty) and whether the request was handled at all; false means the
// request is outside the filter (wIndex != InterfaceNumber or wLength >=
// FixedControlEndpointSize) and the caller should stall EP0. An unknown
// bRequest is handled: it sets lastErr to ErrCmd and returns no data.
func (c *Control) HandleSetup(setup *usb.SetupPacket, outData []byte) (resp []byte, handled bool) {
	if setup.Index != InterfaceNumber || setup.Length >= FixedControlEndpointSize {
		return nil, false
	}

	switch setup.Request {
	case CmdNop:
		resp := []byte{byte(c.session.lastErr)}
		c.commandSucceeded()
		return resp, true

	case CmdReset:
		// RESET's own effect on idle_ticks (clearing it to force loop
		// termination) supersedes the general "reset idle to
		// IDLE_RELOAD" rule every other successful command follows; it
		// still pulses the red indicator like any successful dispatch.
		c.session.redPulse.Store(true)
		c.session.lastErr = ErrOK
		c.session.idleTicks.Store(0)
		c.session.End()
		return []byte{byte(ErrOK)}, true

	case CmdGetAddr:
		addr := c.session.addr
		resp := []byte{byte(ErrOK), byte(addr), byte(addr >> 8)}
		c.commandSucceeded()
		return resp, true

	case CmdGetType:
		resp := []byte{byte(ErrOK), byte(c.session.memKind)}
		c.commandSucceeded()
		return resp, true

	case CmdSetAddr:
		return c.handleSetAddr(outData), true

	case CmdSetType:
		return c.handleSetType(outData), true

	case CmdReadPage:
		c.session.readRemaining = c.session.pageSize
		addr := c.session.addr
		resp := []byte{byte(ErrOK), byte(addr), byte(addr >> 8)}
		c.commandSucceeded()
		return resp, true

	case CmdWritePage:
		return c.handleWritePage(), true

	default:
		pkg.LogWarn(pkg.ComponentControl, "unknown command", "request", setup.Request)
		c.session.lastErr = ErrCmd
		return nil, true
	}
}

// commandSucceeded applies §4.3's "on any successful dispatch" effects:
// reload the idle counter and pulse the red indicator.
func (c *Control) commandSucceeded() {
	c.session.ResetIdle()
	c.session.redPulse.Store(true)
}

func (c *Control) handleSetAddr(outData []byte) []byte {
	if len(outData) < 2 {
		c.session.lastErr = ErrCmd
		return nil
	}
	addr := binary.LittleEndian.Uint16(outData[:2])

	switch {
	case addr%c.session.pageSize != 0:
		c.session.lastErr = ErrAlign
	case addr >= c.session.totalSize:
		c.session.lastErr = ErrAddr
	default:
		c.session.addr = addr
		c.session.lastErr = ErrOK
		c.commandSucceeded()
	}
	return nil
}

func (c *Control) handleSetType(outData []byte) []byte {
	if len(outData) < 1 {
		c.session.lastErr = ErrCmd
		return nil
	}
	kind := MemoryKind(outData[0])

	region, ok := RegionFor(kind)
	if !ok {
		pkg.LogDebug(pkg.ComponentControl, "SET_TYPE unknown memory kind", "kind", kind)
		c.session.lastErr = ErrType
		return nil
	}
	c.session.loadRegion(region)
	c.session.lastErr = ErrOK
	c.commandSucceeded()
	return nil
}

func (c *Control) handleWritePage() []byte {
	s := c.session
	addr := s.addr

	if s.fill != s.pageSize {
		s.lastErr = ErrPage
		return []byte{byte(ErrPage), byte(addr), byte(addr >> 8)}
	}
	if uint32(addr)+uint32(s.pageSize) > uint32(s.writableUpperBound) {
		s.lastErr = ErrOverflow
		return []byte{byte(ErrOverflow), byte(addr), byte(addr >> 8)}
	}

	switch s.memKind {
	case MemFlash:
		c.commitFlashPage(addr)
	case MemEEPROM:
		c.commitEEPROMPage(addr)
	default:
		s.lastErr = ErrType
		return []byte{byte(ErrType), byte(addr), byte(addr >> 8)}
	}

	s.addr = addr + s.pageSize
	s.fill = 0
	s.lastErr = ErrOK
	c.commandSucceeded()

	newAddr := s.addr
	return []byte{byte(ErrOK), byte(newAddr), byte(newAddr >> 8)}
}

// commitFlashPage implements §4.3/§9's erase -> fill -> write -> RWW
// re-enable ordering. Any reordering leaves the part non-functional.
func (c *Control) commitFlashPage(addr uint16) {
	s := c.session
	c.flash.ErasePage(addr)
	for word := uint16(0); word*2 < s.pageSize; word++ {
		lo := s.pageBuf[word*2]
		hi := s.pageBuf[word*2+1]
		c.flash.FillWord(word, uint16(lo)|uint16(hi)<<8)
	}
	c.flash.WritePage(addr)
	c.flash.EnableRWW()
}

func (c *Control) commitEEPROMPage(addr uint16) {
	s := c.session
	for i := uint16(0); i < s.pageSize; i++ {
		c.eeprom.WriteByte(addr+i, s.pageBuf[i])
	}
}

// LookupDescriptor serves GET_DESCRIPTOR for the standard-request path
// boot.go's event loop dispatches before ever reaching HandleSetup (§4.2,
// §9 "the core exposes two pure handlers... the USB stack invokes").
func (c *Control) LookupDescriptor(descType, index uint8) ([]byte, bool) {
	return c.descriptors.Get(descType, index)
}
