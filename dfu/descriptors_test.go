package dfu_test

import (
	"testing"

	"github.com/chenzhuoyu/KeyboardBootloader/dfu"
	"github.com/chenzhuoyu/KeyboardBootloader/usb"
)

func TestDescriptorsGet(t *testing.T) {
	d := dfu.NewDescriptors()

	cases := []struct {
		name     string
		descType uint8
		index    uint8
		wantOK   bool
	}{
		{"device", usb.DescriptorTypeDevice, 0, true},
		{"configuration", usb.DescriptorTypeConfiguration, 0, true},
		{"string language", usb.DescriptorTypeString, 0, true},
		{"string vendor", usb.DescriptorTypeString, 1, true},
		{"string product", usb.DescriptorTypeString, 2, true},
		{"string unknown index", usb.DescriptorTypeString, 3, false},
		{"unknown descriptor type", 0x06, 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, ok := d.Get(c.descType, c.index)
			if ok != c.wantOK {
				t.Fatalf("Get(0x%02x, %d) ok = %v, want %v", c.descType, c.index, ok, c.wantOK)
			}
			if !ok {
				if data != nil {
					t.Fatalf("Get(0x%02x, %d) returned non-nil data on failure: %v", c.descType, c.index, data)
				}
				return
			}
			if len(data) == 0 {
				t.Fatalf("Get(0x%02x, %d) returned no bytes", c.descType, c.index)
			}
			if data[1] != c.descType {
				t.Fatalf("Get(0x%02x, %d) descriptor type byte = 0x%02x, want 0x%02x", c.descType, c.index, data[1], c.descType)
			}
		})
	}
}

// The configuration descriptor chain carries exactly one interface with
// two bulk endpoints (§4.2, §6).
func TestDescriptorsGetConfigurationLayout(t *testing.T) {
	d := dfu.NewDescriptors()

	data, ok := d.Get(usb.DescriptorTypeConfiguration, 0)
	if !ok {
		t.Fatal("configuration descriptor not found")
	}

	wantLen := usb.ConfigurationDescriptorSize + usb.InterfaceDescriptorSize + 2*usb.EndpointDescriptorSize
	if len(data) != wantLen {
		t.Fatalf("configuration descriptor length = %d, want %d", len(data), wantLen)
	}

	numInterfaces := data[4]
	if numInterfaces != 1 {
		t.Fatalf("bNumInterfaces = %d, want 1", numInterfaces)
	}

	ifaceOff := usb.ConfigurationDescriptorSize
	if data[ifaceOff] != usb.InterfaceDescriptorSize || data[ifaceOff+1] != usb.DescriptorTypeInterface {
		t.Fatalf("interface descriptor header at offset %d = %v", ifaceOff, data[ifaceOff:ifaceOff+2])
	}
	numEndpoints := data[ifaceOff+4]
	if numEndpoints != 2 {
		t.Fatalf("bNumEndpoints = %d, want 2", numEndpoints)
	}

	ep1Off := ifaceOff + usb.InterfaceDescriptorSize
	ep2Off := ep1Off + usb.EndpointDescriptorSize
	if data[ep1Off] != usb.EndpointDescriptorSize || data[ep1Off+1] != usb.DescriptorTypeEndpoint {
		t.Fatalf("first endpoint descriptor header at offset %d = %v", ep1Off, data[ep1Off:ep1Off+2])
	}
	if data[ep2Off] != usb.EndpointDescriptorSize || data[ep2Off+1] != usb.DescriptorTypeEndpoint {
		t.Fatalf("second endpoint descriptor header at offset %d = %v", ep2Off, data[ep2Off:ep2Off+2])
	}

	epAddr1 := data[ep1Off+2]
	epAddr2 := data[ep2Off+2]
	if epAddr1&usb.EndpointDirectionIn == 0 {
		t.Fatalf("first endpoint address 0x%02x is not IN", epAddr1)
	}
	if epAddr2&usb.EndpointDirectionIn != 0 {
		t.Fatalf("second endpoint address 0x%02x is not OUT", epAddr2)
	}
}
