//go:build tinygo && avr

// Command bootldr is the firmware entrypoint: it wires the ATmega32U4
// platform binding into the DFU boot arbiter (§4.1 "Session is created
// by bootldr_main on entry").
package main

import (
	"github.com/chenzhuoyu/KeyboardBootloader/board/avr"
	"github.com/chenzhuoyu/KeyboardBootloader/dfu"
)

func main() {
	dfu.Run(avr.New())
}
