// Package pkg provides shared utilities for the bootloader: structured
// logging and the sentinel error returned by package usb's parsing
// helpers.
//
// The wire-visible DFU error codes (§6 of the distilled specification)
// are not modeled here — they are a closed, numeric host protocol
// defined in package dfu as a typed uint8, not Go errors.
package pkg
