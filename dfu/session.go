package dfu

import "sync/atomic"

// Session is the mutable DFU protocol state of §3. It is process-wide:
// single device, single host, static allocation, no dynamic memory.
//
// active, idleTicks and redPulse are the fields shared between the
// foreground and the ticker ISR (§5); they are accessed only through
// atomic operations so the foreground never needs a lock. blueCounter
// and blueOn are touched only by the ticker. Every other field is
// touched exclusively by the foreground (control handler and bulk pump),
// which run on the same cooperative thread.
type Session struct {
	active    atomic.Bool
	idleTicks atomic.Int32

	memKind            MemoryKind
	addr               uint16
	pageSize           uint16
	totalSize          uint16
	writableUpperBound uint16

	pageBuf [MaxPageSize]byte
	fill    uint16

	readRemaining uint16
	lastErr       ErrCode

	// redPulse is set true by the foreground on a successful command and
	// cleared by the ticker on the next tick; it drives the red
	// indicator's "solid on for one tick" behavior (§4.5). Like active
	// and idleTicks it crosses the foreground/ISR boundary, so it is
	// atomic too.
	redPulse atomic.Bool
	// blueCounter and blueOn implement the divide-by-three blue blink
	// (§4.5). Both are touched only by the ticker, never the foreground,
	// so they need no synchronization.
	blueCounter uint8
	blueOn      bool
}

// NewSession returns a freshly initialized session: active, region FLASH
// (§3 "initial = FLASH"), address 0, idle counter loaded.
func NewSession() *Session {
	s := &Session{}
	s.active.Store(true)
	s.idleTicks.Store(IdleReload)
	s.loadRegion(FlashRegion)
	return s
}

// loadRegion installs a region descriptor's parameters and resets addr,
// mirroring SET_TYPE's effect (§4.3).
func (s *Session) loadRegion(r RegionDescriptor) {
	s.memKind = r.Kind
	s.pageSize = r.PageSize
	s.totalSize = r.TotalSize
	s.writableUpperBound = r.WritableUpperBound
	s.addr = 0
}

// Active reports whether the session is still alive. Safe to call from
// the foreground; backed by an atomic read of the ISR-shared flag.
func (s *Session) Active() bool { return s.active.Load() }

// End clears the active flag. Called by RESET (foreground) or by the
// ticker when idleTicks reaches zero (ISR); either path transitions
// true→false exactly once per boot (§3 invariant).
func (s *Session) End() { s.active.Store(false) }

// ResetIdle reloads the idle countdown. Called on every successful
// command (§4.3, §4.5 GLOSSARY: IDLE_RELOAD).
func (s *Session) ResetIdle() { s.idleTicks.Store(IdleReload) }

// MemKind returns the current region kind.
func (s *Session) MemKind() MemoryKind { return s.memKind }

// Addr returns the current address within the active region.
func (s *Session) Addr() uint16 { return s.addr }

// PageSize returns the active region's page size.
func (s *Session) PageSize() uint16 { return s.pageSize }

// TotalSize returns the active region's total size.
func (s *Session) TotalSize() uint16 { return s.totalSize }

// WritableUpperBound returns the active region's writable upper bound.
func (s *Session) WritableUpperBound() uint16 { return s.writableUpperBound }

// Fill returns the page buffer's current fill cursor.
func (s *Session) Fill() uint16 { return s.fill }

// ReadRemaining returns the bytes still to stream for the in-progress
// READ_PAGE, or 0 if none is in progress.
func (s *Session) ReadRemaining() uint16 { return s.readRemaining }

// LastErr returns the most recent command's result code.
func (s *Session) LastErr() ErrCode { return s.lastErr }

// StagePage loads data directly into the page buffer and sets fill to
// len(data), as if the bulk OUT pump had streamed it. Exposed for tests
// that exercise WRITE_PAGE without driving a full bulk transfer through
// a hal.USBController.
func (s *Session) StagePage(data []byte) {
	copy(s.pageBuf[:], data)
	s.fill = uint16(len(data))
}

// ArmRead sets read_remaining directly, as READ_PAGE would. Exposed for
// pump tests that exercise the IN half without driving a full control
// transfer through dfu.Control.
func (s *Session) ArmRead(n uint16) { s.readRemaining = n }
