// Package usb implements the wire-format pieces of USB 2.0 this
// bootloader needs to serve a single vendor-class interface: SETUP
// packet parsing and device/configuration/interface/endpoint/string
// descriptor marshaling.
//
// Descriptor layouts are normative (USB 2.0 Chapter 9); nothing in this
// package is open to redesign. It is trimmed from a general-purpose
// device stack down to marshal-only, single-configuration use: this
// firmware never parses a descriptor, only serves the one it owns, and
// never needs more than one configuration or interface.
package usb
