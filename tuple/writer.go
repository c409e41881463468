package tuple

import "bytes"

// Writer is an append-only byte sink with nesting depth tracking. The
// Format layer consults Depth to decide whether Nil needs the two-byte
// escaped form. Writer never rewinds what it has already written.
type Writer struct {
	buf   bytes.Buffer
	depth int
}

// NewWriter returns an empty Writer ready to encode a tuple at the top
// level (depth 0).
func NewWriter() *Writer {
	return &Writer{}
}

// Depth returns the current nesting depth; 0 is the top level.
func (w *Writer) Depth() int {
	return w.depth
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) {
	// bytes.Buffer.WriteByte only errors when the buffer cannot grow, which
	// panics out of Grow/Write long before it would return an error here.
	_ = w.buf.WriteByte(b)
}

// WriteBytes appends a byte slice.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// Reserve is a capacity hint; failing to call it does not change
// correctness, only possibly the number of reallocations.
func (w *Writer) Reserve(n int) {
	w.buf.Grow(n)
}

// BeginNested writes the nested-tuple tag and increments depth. Elements
// written before the matching EndNested are encoded with escaped Nil, since
// depth is now >= 1.
func (w *Writer) BeginNested() {
	w.WriteByte(tagNested)
	w.depth++
}

// EndNested writes the nested tuple's terminator and decrements depth. It
// panics if called at depth 0, which would indicate a programming error in
// the caller rather than a data error.
func (w *Writer) EndNested() {
	if w.depth == 0 {
		panic("tuple: EndNested called at depth 0")
	}
	w.WriteByte(tagNil)
	w.depth--
}

// Finish yields the final byte string, transferring ownership of the
// buffer's contents to the caller. It fails with ErrUnbalancedNesting if
// depth is not 0, i.e. some BeginNested was never matched by EndNested.
func (w *Writer) Finish() ([]byte, error) {
	if w.depth != 0 {
		return nil, newError(ErrUnbalancedNesting, w.buf.Len(), "writer finished at depth %d", w.depth)
	}
	return w.buf.Bytes(), nil
}
