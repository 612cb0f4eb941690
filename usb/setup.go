package usb

import (
	"encoding/binary"
	"fmt"

	"github.com/chenzhuoyu/KeyboardBootloader/pkg"
)

// Standard USB request codes (USB 2.0 Spec Table 9-4). Of these, dfu's
// event loop serves only GET_DESCRIPTOR, before ever reaching the vendor
// handler; other standard requests are stalled.
const (
	RequestGetDescriptor    = 0x06
	RequestGetConfiguration = 0x08
	RequestSetConfiguration = 0x09
)

// Request type masks (USB 2.0 Spec Table 9-2).
const (
	RequestTypeDirectionMask = 0x80
	RequestTypeTypeMask      = 0x60
	RequestTypeRecipientMask = 0x1F
)

// Request type direction values.
const (
	RequestDirectionHostToDevice = 0x00
	RequestDirectionDeviceToHost = 0x80
)

// Request type values.
const (
	RequestTypeStandard = 0x00
	RequestTypeClass    = 0x20
	RequestTypeVendor   = 0x40
)

// Request recipient values.
const (
	RequestRecipientDevice    = 0x00
	RequestRecipientInterface = 0x01
	RequestRecipientEndpoint  = 0x02
)

// SetupPacket represents an 8-byte USB SETUP packet.
type SetupPacket struct {
	RequestType uint8  // bmRequestType: direction, type, recipient
	Request     uint8  // bRequest: specific request code
	Value       uint16 // wValue: request-specific parameter
	Index       uint16 // wIndex: request-specific index
	Length      uint16 // wLength: number of bytes to transfer
}

// SetupPacketSize is the size of a USB SETUP packet in bytes.
const SetupPacketSize = 8

// ParseSetupPacket parses a setup packet from 8 bytes into out.
func ParseSetupPacket(data []byte, out *SetupPacket) error {
	if len(data) < SetupPacketSize {
		return pkg.ErrBufferTooSmall
	}
	out.RequestType = data[0]
	out.Request = data[1]
	out.Value = binary.LittleEndian.Uint16(data[2:4])
	out.Index = binary.LittleEndian.Uint16(data[4:6])
	out.Length = binary.LittleEndian.Uint16(data[6:8])
	return nil
}

// Direction returns the transfer direction.
func (s *SetupPacket) Direction() uint8 { return s.RequestType & RequestTypeDirectionMask }

// IsDeviceToHost returns true if this is a device-to-host transfer.
func (s *SetupPacket) IsDeviceToHost() bool { return s.Direction() == RequestDirectionDeviceToHost }

// Type returns the request type (Standard, Class, or Vendor).
func (s *SetupPacket) Type() uint8 { return s.RequestType & RequestTypeTypeMask }

// IsStandard returns true if this is a standard request.
func (s *SetupPacket) IsStandard() bool { return s.Type() == RequestTypeStandard }

// IsVendor returns true if this is a vendor-specific request.
func (s *SetupPacket) IsVendor() bool { return s.Type() == RequestTypeVendor }

// Recipient returns the request recipient.
func (s *SetupPacket) Recipient() uint8 { return s.RequestType & RequestTypeRecipientMask }

// IsInterfaceRecipient returns true if the recipient is an interface.
func (s *SetupPacket) IsInterfaceRecipient() bool {
	return s.Recipient() == RequestRecipientInterface
}

// DescriptorType returns the descriptor type from wValue high byte.
func (s *SetupPacket) DescriptorType() uint8 { return uint8(s.Value >> 8) }

// DescriptorIndex returns the descriptor index from wValue low byte.
func (s *SetupPacket) DescriptorIndex() uint8 { return uint8(s.Value & 0xFF) }

// InterfaceNumber returns the interface number from wIndex.
func (s *SetupPacket) InterfaceNumber() uint16 { return s.Index }

// String returns a human-readable representation of the setup packet.
func (s *SetupPacket) String() string {
	dir := "OUT"
	if s.IsDeviceToHost() {
		dir = "IN"
	}
	reqType := "Standard"
	switch s.Type() {
	case RequestTypeClass:
		reqType = "Class"
	case RequestTypeVendor:
		reqType = "Vendor"
	}
	return fmt.Sprintf("SETUP[%s %s] bRequest=0x%02X wValue=0x%04X wIndex=0x%04X wLength=%d",
		dir, reqType, s.Request, s.Value, s.Index, s.Length)
}
