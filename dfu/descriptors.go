package dfu

import (
	"github.com/chenzhuoyu/KeyboardBootloader/pkg"
	"github.com/chenzhuoyu/KeyboardBootloader/usb"
)

// Build-time descriptor configuration (§6: "VID/PID and strings are
// configurable but stable per build"). Values carried over from
// original_source/usb_desc.c.
const (
	vendorID     = 0x01a1
	productID    = 0x07c8
	deviceBCD    = 0x0110
	stringVendor = "Oxygen"
	stringProd   = "Oxygen's Keyboard DFU Mode"
)

// Bulk endpoint addresses and sizes (§4.2, §6).
const (
	bulkInAddress  = 0x81
	bulkOutAddress = 0x02
	bulkMaxPacket  = 64
)

// configurationTotalLength is the byte length of the full configuration
// descriptor chain this device returns for a GET_DESCRIPTOR(CONFIGURATION)
// request: configuration header + one interface + two endpoints.
const configurationTotalLength = usb.ConfigurationDescriptorSize +
	usb.InterfaceDescriptorSize +
	2*usb.EndpointDescriptorSize

// Descriptors is the static device/configuration/string descriptor
// provider of §4.2. It is byte-for-byte stable; its layout is dictated by
// USB and is not open to redesign.
type Descriptors struct {
	device [usb.DeviceDescriptorSize]byte
	config [configurationTotalLength]byte
}

// NewDescriptors builds the static descriptor set once.
func NewDescriptors() *Descriptors {
	d := &Descriptors{}

	dev := usb.DeviceDescriptor{
		USBVersion:        0x0200,
		DeviceClass:       0,
		DeviceSubClass:    0,
		DeviceProtocol:    0,
		MaxPacketSize0:    FixedControlEndpointSize,
		VendorID:          vendorID,
		ProductID:         productID,
		DeviceVersion:     deviceBCD,
		ManufacturerIndex: 1,
		ProductIndex:      2,
		SerialNumberIndex: 0,
		NumConfigurations: 1,
	}
	dev.MarshalTo(d.device[:])

	cfg := usb.ConfigurationDescriptor{
		TotalLength:        configurationTotalLength,
		NumInterfaces:      1,
		ConfigurationValue: 1,
		ConfigurationIndex: 0,
		Attributes:         usb.ConfigAttrReserved,
		MaxPower:           50, // 100 mA in 2 mA units
	}
	off := cfg.MarshalTo(d.config[:])

	iface := usb.InterfaceDescriptor{
		InterfaceNumber:   InterfaceNumber,
		AlternateSetting:  0,
		NumEndpoints:      2,
		InterfaceClass:    usb.ClassVendor,
		InterfaceSubClass: 0,
		InterfaceProtocol: 0,
		InterfaceIndex:    0,
	}
	off += iface.MarshalTo(d.config[off:])

	epIn := usb.EndpointDescriptor{
		EndpointAddress: bulkInAddress,
		Attributes:      usb.EndpointTypeBulk,
		MaxPacketSize:   bulkMaxPacket,
		Interval:        0,
	}
	off += epIn.MarshalTo(d.config[off:])

	epOut := usb.EndpointDescriptor{
		EndpointAddress: bulkOutAddress,
		Attributes:      usb.EndpointTypeBulk,
		MaxPacketSize:   bulkMaxPacket,
		Interval:        0,
	}
	off += epOut.MarshalTo(d.config[off:])

	_ = off
	return d
}

// Get returns the descriptor bytes for (descType, index), and true if one
// exists. Any other string index than 0, 1, or 2 yields false (§4.2: "no
// descriptor").
func (d *Descriptors) Get(descType uint8, index uint8) ([]byte, bool) {
	switch descType {
	case usb.DescriptorTypeDevice:
		return d.device[:], true
	case usb.DescriptorTypeConfiguration:
		return d.config[:], true
	case usb.DescriptorTypeString:
		return d.stringDescriptor(index)
	default:
		pkg.LogDebug(pkg.ComponentDescriptor, "no descriptor for type", "type", descType)
		return nil, false
	}
}

func (d *Descriptors) stringDescriptor(index uint8) ([]byte, bool) {
	var buf [64]byte
	switch index {
	case 0:
		n := usb.LanguageDescriptorTo(buf[:], usb.LangIDUSEnglish)
		return buf[:n], n > 0
	case 1:
		n := usb.StringDescriptorTo(buf[:], stringVendor)
		return buf[:n], n > 0
	case 2:
		n := usb.StringDescriptorTo(buf[:], stringProd)
		return buf[:n], n > 0
	default:
		return nil, false
	}
}
