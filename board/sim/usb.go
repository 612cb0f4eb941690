package sim

// USB is an in-memory hal.USBController. A test drives it from the host
// side with InjectSetup/InjectBulkOut and inspects device output with
// DrainEP0/DrainBulkIn.
type USB struct {
	initialized bool

	setupPending bool
	setupBuf     [8]byte

	ep0Out     []byte
	ep0In      []byte
	ep0Acked   bool
	ep0Stalled bool

	bulkOutPending bool
	bulkOutBuf     []byte

	bulkIn [][]byte
}

// NewUSB returns a USB controller with nothing pending.
func NewUSB() *USB { return &USB{} }

func (u *USB) Init()     { u.initialized = true }
func (u *USB) Shutdown() { u.initialized = false }

func (u *USB) SetupReady() bool { return u.setupPending }

func (u *USB) ReadSetup(buf []byte) {
	n := copy(buf, u.setupBuf[:])
	_ = n
	u.setupPending = false
}

func (u *USB) WriteEP0(data []byte) int {
	u.ep0In = append(u.ep0In[:0], data...)
	return len(data)
}

func (u *USB) ReadEP0(buf []byte) int {
	n := copy(buf, u.ep0Out)
	u.ep0Out = nil
	return n
}

func (u *USB) AckEP0()   { u.ep0Acked = true }
func (u *USB) StallEP0() { u.ep0Stalled = true }

func (u *USB) BulkInReady() bool { return true }

func (u *USB) WriteBulkIn(data []byte) int {
	chunk := append([]byte(nil), data...)
	u.bulkIn = append(u.bulkIn, chunk)
	return len(data)
}

func (u *USB) BulkOutReady() bool { return u.bulkOutPending }

func (u *USB) ReadBulkOut(buf []byte) int {
	n := copy(buf, u.bulkOutBuf)
	u.bulkOutPending = false
	u.bulkOutBuf = nil
	return n
}

// InjectSetup stages an 8-byte SETUP packet and, if it carries an OUT
// data stage, the data to be returned by the next ReadEP0.
func (u *USB) InjectSetup(raw [8]byte, outData []byte) {
	u.setupBuf = raw
	u.setupPending = true
	u.ep0Acked = false
	u.ep0Stalled = false
	if len(outData) > 0 {
		u.ep0Out = append([]byte(nil), outData...)
	}
}

// InjectBulkOut stages one OUT packet for the next BulkOutReady/ReadBulkOut.
func (u *USB) InjectBulkOut(data []byte) {
	u.bulkOutBuf = append([]byte(nil), data...)
	u.bulkOutPending = true
}

// LastEP0In returns the most recent EP0 IN response.
func (u *USB) LastEP0In() []byte { return u.ep0In }

// WasStalled reports whether EP0 was stalled since the last InjectSetup.
func (u *USB) WasStalled() bool { return u.ep0Stalled }

// DrainBulkIn returns and clears all bulk IN chunks written so far.
func (u *USB) DrainBulkIn() [][]byte {
	chunks := u.bulkIn
	u.bulkIn = nil
	return chunks
}
