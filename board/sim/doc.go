// Package sim implements hal.Platform entirely in memory, for use by
// dfu's tests. It stands in for real hardware the way the teacher's
// device/hal/fifo.HAL stands in for a USB transceiver under go test:
// both are already non-blocking by construction, so no goroutines or
// OS-level plumbing are needed here, only in-memory queues and byte
// arrays a test can inspect directly.
//
// Methods beyond the hal interfaces (Inject*, Drain*, Was*) are test
// hooks, not part of the Platform contract; callers outside _test.go
// files should only ever use the hal interfaces themselves.
package sim
