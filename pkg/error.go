package pkg

import "errors"

// ErrBufferTooSmall indicates the provided buffer is too small to hold a
// parsed or marshaled value. Distinct from the wire-visible dfu.ErrCode
// taxonomy: this never crosses the USB wire, it's a caller-side misuse of
// the parsing helpers in package usb.
var ErrBufferTooSmall = errors.New("buffer too small")
