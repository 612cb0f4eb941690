package dfu_test

import (
	"encoding/binary"
	"testing"

	"github.com/chenzhuoyu/KeyboardBootloader/board/sim"
	"github.com/chenzhuoyu/KeyboardBootloader/dfu"
	"github.com/chenzhuoyu/KeyboardBootloader/usb"
)

const (
	bmVendorOut = 0x41 // vendor, host->device, interface recipient
	bmVendorIn  = 0xC1 // vendor, device->host, interface recipient
)

func newTestControl(t *testing.T) (*dfu.Session, *dfu.Control, *sim.Flash, *sim.EEPROM) {
	t.Helper()
	session := dfu.NewSession()
	descriptors := dfu.NewDescriptors()
	flash := sim.NewFlash(int(dfu.FlashRegion.TotalSize), int(dfu.FlashRegion.PageSize))
	eeprom := sim.NewEEPROM(int(dfu.EEPROMRegion.TotalSize))
	control := dfu.NewControl(session, descriptors, flash, eeprom)
	return session, control, flash, eeprom
}

func setupPacket(bmRequestType, bRequest uint8, wValue, wIndex, wLength uint16) *usb.SetupPacket {
	return &usb.SetupPacket{RequestType: bmRequestType, Request: bRequest, Value: wValue, Index: wIndex, Length: wLength}
}

func setAddr(t *testing.T, control *dfu.Control, addr uint16) []byte {
	t.Helper()
	var payload [2]byte
	binary.LittleEndian.PutUint16(payload[:], addr)
	resp, handled := control.HandleSetup(setupPacket(bmVendorOut, dfu.CmdSetAddr, 0, dfu.InterfaceNumber, 2), payload[:])
	if !handled {
		t.Fatal("SET_ADDR not handled")
	}
	return resp
}

func setType(t *testing.T, control *dfu.Control, kind dfu.MemoryKind) []byte {
	t.Helper()
	resp, handled := control.HandleSetup(setupPacket(bmVendorOut, dfu.CmdSetType, 0, dfu.InterfaceNumber, 1), []byte{byte(kind)})
	if !handled {
		t.Fatal("SET_TYPE not handled")
	}
	return resp
}

func nop(t *testing.T, control *dfu.Control) dfu.ErrCode {
	t.Helper()
	resp, handled := control.HandleSetup(setupPacket(bmVendorIn, dfu.CmdNop, 0, dfu.InterfaceNumber, 1), nil)
	if !handled || len(resp) != 1 {
		t.Fatalf("NOP malformed: handled=%v resp=%v", handled, resp)
	}
	return dfu.ErrCode(resp[0])
}

// S1: unknown command.
func TestUnknownCommand(t *testing.T) {
	_, control, _, _ := newTestControl(t)
	resp, handled := control.HandleSetup(setupPacket(bmVendorOut, 0x33, 0, dfu.InterfaceNumber, 0), nil)
	if !handled {
		t.Fatal("expected unknown command to be handled (stack already handles the stall)")
	}
	if len(resp) != 0 {
		t.Fatalf("expected no data phase, got %v", resp)
	}
	if err := nop(t, control); err != dfu.ErrCmd {
		t.Fatalf("NOP after unknown command = 0x%02x, want 0x%02x", err, dfu.ErrCmd)
	}
}

// S2: misaligned SET_ADDR.
func TestMisalignedSetAddr(t *testing.T) {
	_, control, _, _ := newTestControl(t)
	setType(t, control, dfu.MemFlash)
	setAddr(t, control, 0x0001)

	if err := nop(t, control); err != dfu.ErrAlign {
		t.Fatalf("NOP after misaligned SET_ADDR = 0x%02x, want 0x%02x", err, dfu.ErrAlign)
	}

	resp, handled := control.HandleSetup(setupPacket(bmVendorIn, dfu.CmdGetAddr, 0, dfu.InterfaceNumber, 0), nil)
	if !handled || resp[1] != 0 || resp[2] != 0 {
		t.Fatalf("GET_ADDR after rejected SET_ADDR = %v, want addr 0", resp)
	}
}

// S3: writable-bound WRITE_PAGE behavior.
func TestWritePageAtWritableBound(t *testing.T) {
	session, control, flash, _ := newTestControl(t)
	setType(t, control, dfu.MemFlash)
	setAddr(t, control, 0x2F80)

	payload := make([]byte, dfu.FlashRegion.PageSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	session.StagePage(payload)

	resp, handled := control.HandleSetup(setupPacket(bmVendorIn, dfu.CmdWritePage, 0, dfu.InterfaceNumber, 0), nil)
	if !handled {
		t.Fatal("WRITE_PAGE not handled")
	}
	if dfu.ErrCode(resp[0]) != dfu.ErrOK {
		t.Fatalf("WRITE_PAGE at exact writable bound failed: 0x%02x", resp[0])
	}
	newAddr := binary.LittleEndian.Uint16(resp[1:3])
	if newAddr != 0x3000 {
		t.Fatalf("addr after commit = 0x%04x, want 0x3000", newAddr)
	}
	for i, want := range payload {
		if got := flash.Contents()[0x2F80+i]; got != want {
			t.Fatalf("flash[0x%04x] = 0x%02x, want 0x%02x", 0x2F80+i, got, want)
		}
	}

	// addr is now exactly at the writable bound (0x3000). §4.3's literal
	// SET_ADDR rule only rejects addr >= total_size (0x4000), so
	// SET_ADDR(0x3000) itself succeeds here; it is WRITE_PAGE from that
	// address that overflows the writable bound, since 0x3000+0x80 >
	// 0x3000. See DESIGN.md for why this test follows the §4.3 rule
	// table rather than the S3 narrative's claim that SET_ADDR(0x3000)
	// itself fails.
	setAddr(t, control, 0x3000)
	if err := nop(t, control); err != dfu.ErrOK {
		t.Fatalf("SET_ADDR(0x3000) should succeed per the literal rule, got 0x%02x", err)
	}
	session.StagePage(payload)
	resp, handled = control.HandleSetup(setupPacket(bmVendorIn, dfu.CmdWritePage, 0, dfu.InterfaceNumber, 0), nil)
	if !handled || dfu.ErrCode(resp[0]) != dfu.ErrOverflow {
		t.Fatalf("WRITE_PAGE from the writable bound = %v, want ERR_OVERFLOW", resp)
	}
}

// S4: EEPROM round-trip.
func TestEEPROMRoundTrip(t *testing.T) {
	session, control, _, eeprom := newTestControl(t)
	setType(t, control, dfu.MemEEPROM)
	setAddr(t, control, 0x0010)

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	session.StagePage(payload)

	resp, handled := control.HandleSetup(setupPacket(bmVendorIn, dfu.CmdWritePage, 0, dfu.InterfaceNumber, 0), nil)
	if !handled || dfu.ErrCode(resp[0]) != dfu.ErrOK {
		t.Fatalf("WRITE_PAGE failed: %v", resp)
	}
	newAddr := binary.LittleEndian.Uint16(resp[1:3])
	if newAddr != 0x0014 {
		t.Fatalf("addr after commit = 0x%04x, want 0x0014", newAddr)
	}
	for i, want := range payload {
		if got := eeprom.Contents()[0x0010+i]; got != want {
			t.Fatalf("eeprom[0x%04x] = 0x%02x, want 0x%02x", 0x0010+i, got, want)
		}
	}
}

// S5: WRITE_PAGE without a full page streamed.
func TestWritePageWithoutFullPage(t *testing.T) {
	session, control, _, _ := newTestControl(t)
	setType(t, control, dfu.MemFlash)
	setAddr(t, control, 0x0000)
	session.StagePage(make([]byte, 64)) // half a 128-byte page

	resp, handled := control.HandleSetup(setupPacket(bmVendorIn, dfu.CmdWritePage, 0, dfu.InterfaceNumber, 0), nil)
	if !handled {
		t.Fatal("WRITE_PAGE not handled")
	}
	if dfu.ErrCode(resp[0]) != dfu.ErrPage {
		t.Fatalf("WRITE_PAGE with partial fill = 0x%02x, want 0x%02x", resp[0], dfu.ErrPage)
	}
	if session.Fill() != 64 {
		t.Fatalf("fill after rejected WRITE_PAGE = %d, want 64 (unconsumed)", session.Fill())
	}
}

// Idempotence of NOP (invariant 5).
func TestNopIdempotent(t *testing.T) {
	_, control, _, _ := newTestControl(t)
	setType(t, control, dfu.MemFlash)
	setAddr(t, control, 0x0080)

	first := nop(t, control)
	for i := 0; i < 3; i++ {
		if got := nop(t, control); got != first {
			t.Fatalf("NOP #%d = 0x%02x, want 0x%02x", i, got, first)
		}
	}
}

// Out-of-filter requests (wIndex != 1 or wLength >= 32) are ignored.
func TestControlFilterRejectsWrongInterface(t *testing.T) {
	_, control, _, _ := newTestControl(t)
	_, handled := control.HandleSetup(setupPacket(bmVendorIn, dfu.CmdNop, 0, 0, 1), nil)
	if handled {
		t.Fatal("expected request with wIndex != 1 to be filtered out")
	}
}

func TestControlFilterRejectsLongPayload(t *testing.T) {
	_, control, _, _ := newTestControl(t)
	_, handled := control.HandleSetup(setupPacket(bmVendorOut, dfu.CmdSetAddr, 0, dfu.InterfaceNumber, 32), nil)
	if handled {
		t.Fatal("expected request with wLength >= 32 to be filtered out")
	}
}

func TestSetTypeUnknownKind(t *testing.T) {
	_, control, _, _ := newTestControl(t)
	setType(t, control, dfu.MemoryKind(0xFF))
	if err := nop(t, control); err != dfu.ErrType {
		t.Fatalf("NOP after bad SET_TYPE = 0x%02x, want 0x%02x", err, dfu.ErrType)
	}
}

// LookupDescriptor delegates to the descriptor provider (§9).
func TestLookupDescriptor(t *testing.T) {
	_, control, _, _ := newTestControl(t)

	data, ok := control.LookupDescriptor(usb.DescriptorTypeDevice, 0)
	if !ok || len(data) == 0 {
		t.Fatalf("LookupDescriptor(device) = %v, %v", data, ok)
	}

	if _, ok := control.LookupDescriptor(usb.DescriptorTypeString, 3); ok {
		t.Fatal("expected no descriptor for unknown string index")
	}
}

// RESET ends the session directly, independent of idle timeout
// (§8 invariant 6).
func TestReset(t *testing.T) {
	session, control, _, _ := newTestControl(t)
	setType(t, control, dfu.MemFlash)
	setAddr(t, control, 0x0080)

	if !session.Active() {
		t.Fatal("session should be active before RESET")
	}

	resp, handled := control.HandleSetup(setupPacket(bmVendorOut, dfu.CmdReset, 0, dfu.InterfaceNumber, 0), nil)
	if !handled {
		t.Fatal("RESET not handled")
	}
	if len(resp) != 1 || dfu.ErrCode(resp[0]) != dfu.ErrOK {
		t.Fatalf("RESET response = %v, want {ERR_OK}", resp)
	}
	if session.Active() {
		t.Fatal("expected session inactive after RESET")
	}
}
