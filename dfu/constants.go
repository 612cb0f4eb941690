package dfu

// Command codes dispatched on the vendor control interface (§4.3, §6).
const (
	CmdSetAddr   = 0x50
	CmdSetType   = 0x51
	CmdWritePage = 0x52
	CmdGetAddr   = 0xA0
	CmdGetType   = 0xA1
	CmdReadPage  = 0xA2
	CmdNop       = 0xFE
	CmdReset     = 0xFF
)

// ErrCode is the closed, wire-visible error taxonomy of §6. It crosses
// the USB wire in command responses and must keep exactly these byte
// values; it is a typed uint8, not a Go error.
type ErrCode uint8

// Error codes (§6, §7).
const (
	ErrOK       ErrCode = 0x00
	ErrCmd      ErrCode = 0x80
	ErrLen      ErrCode = 0x81 // reserved: defined by the taxonomy but never issued (§9 Open Question)
	ErrAddr     ErrCode = 0x82
	ErrType     ErrCode = 0x83
	ErrAlign    ErrCode = 0x84
	ErrPage     ErrCode = 0x85
	ErrOverflow ErrCode = 0x86
)

// DFU interface number and control-request filter (§4.3). The handler
// only processes SETUP packets addressed to this interface with a data
// stage shorter than FixedControlEndpointSize.
const (
	InterfaceNumber            = 1
	FixedControlEndpointSize   = 32
	IdleReload                 = 60 // ticks loaded into idle_ticks on each successful command (§4.5, GLOSSARY)
	BlueBlinkDivisor           = 3  // ticker drives the blue LED at one-third the tick rate (§4.5)
	DFUReadSize                = 64 // max bytes per bulk IN chunk (§4.4)
	DFUWriteSize               = 64 // max bytes accepted per bulk OUT packet (§4.4)
)
