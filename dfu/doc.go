// Package dfu implements the CORE of the USB device firmware update
// bootloader: the control-request dispatcher, the bulk transfer pump, the
// idle/indicator ticker, and the boot arbiter that ties them together
// over a hal.Platform. Nothing in this package talks to hardware
// directly; every platform interaction goes through hal.
package dfu
