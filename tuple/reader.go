package tuple

import "bytes"

// Reader is a streaming tokenizer over a borrowed byte slice. It yields the
// byte extent of the next element without decoding its payload, honoring
// the same depth-sensitive Nil rules as Writer. Reader never copies its
// input; ParseNext's returned slices alias buf.
type Reader struct {
	buf      []byte
	pos      int
	depth    int
	maxDepth int // 0 means unbounded
}

// NewReader begins tokenization of b at the top level (depth 0).
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Embedded begins tokenization of the raw payload of a nested tuple (its
// outer tag and terminator already stripped by the caller) at depth 1, the
// depth every element directly inside a nested tuple lives at.
func Embedded(b []byte) *Reader {
	return &Reader{buf: b, depth: 1}
}

// SetMaxDepth imposes a soft cap on nested-tuple depth; ParseNext fails
// with ErrDepthExceeded if decoding would exceed it. The format itself
// places no bound on depth; this exists only so callers can defend against
// adversarial or corrupt input. 0 (the default) means unbounded.
func (r *Reader) SetMaxDepth(n int) {
	r.maxDepth = n
}

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Pos returns the current byte offset into the original slice, for
// building error messages and for unpack_lazy's span bookkeeping.
func (r *Reader) Pos() int {
	return r.pos
}

// PeekByte returns the next unconsumed byte without advancing, or ok=false
// at end-of-stream.
func (r *Reader) PeekByte() (b byte, ok bool) {
	if r.pos >= len(r.buf) {
		return 0, false
	}
	return r.buf[r.pos], true
}

// isEndOfNested reports whether the byte at pos, read at the given depth,
// is an unescaped terminator: a bare 0x00 not followed by 0xFF, seen at
// depth >= 1. At depth 0 there is no such thing as end-of-nested.
func isEndOfNested(buf []byte, pos int, depth int) bool {
	if depth == 0 || pos >= len(buf) || buf[pos] != tagNil {
		return false
	}
	return pos+1 >= len(buf) || buf[pos+1] != 0xFF
}

// ParseNext returns the byte slice covering the next element's complete
// on-wire form (tag through any terminator, exclusive of end-of-nested
// markers), or ok=false at end-of-stream or when an end-of-nested-tuple
// marker is consumed at depth >= 1. It decodes no payload; it only
// advances past the element.
func (r *Reader) ParseNext() (tok []byte, ok bool, err error) {
	if r.pos >= len(r.buf) {
		return nil, false, nil
	}
	if isEndOfNested(r.buf, r.pos, r.depth) {
		r.pos++
		return nil, false, nil
	}
	end, err := scanElement(r.buf, r.pos, r.depth, r.maxDepth)
	if err != nil {
		return nil, false, err
	}
	tok = r.buf[r.pos:end]
	r.pos = end
	return tok, true, nil
}

// Skip advances past the next n elements without returning them.
func (r *Reader) Skip(n int) error {
	for i := 0; i < n; i++ {
		_, ok, err := r.ParseNext()
		if err != nil {
			return err
		}
		if !ok {
			return newError(ErrMalformedInput, r.pos, "skip past end of stream")
		}
	}
	return nil
}

// fixedLengths maps a type tag to its total on-wire length (tag included)
// for every element kind whose length does not depend on its payload.
var fixedLengths = map[byte]int{
	tagFloat32:        5,
	tagFloat64:        9,
	tagDecimal:        17,
	tagFalse:          1,
	tagTrue:           1,
	tagUuid128:        17,
	tagUuid64:         9,
	tagVersionstamp80: 11,
	tagVersionstamp96: 13,
	tagUserDirectory:  1,
	tagUserSystem:     1,
}

// scanElement computes the exclusive end offset of the single element
// starting at buf[pos], given the depth it lives at. It does not recurse
// through the Go call stack for anything but nested tuples, and even there
// the recursion is bounded by maxDepth when one is configured; depth is
// threaded explicitly rather than mutating any shared state, per the
// "stack-less scan" design note: what matters is that parsing a nested
// tuple does not need to unwind into the decoder, only advance a position.
func scanElement(buf []byte, pos int, depth int, maxDepth int) (end int, err error) {
	if pos >= len(buf) {
		return 0, newError(ErrMalformedInput, pos, "truncated element")
	}
	tag := buf[pos]

	switch {
	case tag == tagNil:
		// depth == 0: bare Nil. depth >= 1 and escaped (0x00 0xFF): escaped Nil.
		// An unescaped 0x00 at depth >= 1 is the caller's job to detect via
		// isEndOfNested before calling scanElement.
		if depth == 0 {
			return pos + 1, nil
		}
		if pos+1 < len(buf) && buf[pos+1] == 0xFF {
			return pos + 2, nil
		}
		return 0, newError(ErrMalformedInput, pos, "unescaped NUL inside nested tuple")

	case tag == tagBytes || tag == tagUtf8:
		return scanEscaped(buf, pos+1)

	case tag == tagNestedLegacy:
		return 0, newError(ErrMalformedInput, pos, "legacy nested tuple tag 0x03 is not supported")

	case tag == tagNested:
		return scanNested(buf, pos, depth, maxDepth)

	case tag >= tagIntNegMin && tag <= tagIntPosMax:
		n := absTagOffset(tag)
		if pos+1+n > len(buf) {
			return 0, newError(ErrMalformedInput, pos, "truncated integer")
		}
		return pos + 1 + n, nil

	default:
		if ln, ok := fixedLengths[tag]; ok {
			if pos+ln > len(buf) {
				return 0, newError(ErrMalformedInput, pos, "truncated fixed-width element")
			}
			return pos + ln, nil
		}
		return 0, newError(ErrMalformedInput, pos, "unknown type tag 0x%02x", tag)
	}
}

func absTagOffset(tag byte) int {
	d := int(tag) - int(tagIntZero)
	if d < 0 {
		return -d
	}
	return d
}

// scanEscaped scans forward from start (the first payload byte after a
// Bytes/Utf8 tag) for an unescaped 0x00 terminator, honoring the 0x00 0xFF
// escaping of embedded NUL bytes. It returns the exclusive end offset,
// terminator included.
func scanEscaped(buf []byte, start int) (end int, err error) {
	i := start
	for {
		idx := bytes.IndexByte(buf[i:], tagNil)
		if idx < 0 {
			return 0, newError(ErrMalformedInput, start-1, "missing string/bytes terminator")
		}
		abs := i + idx
		if abs+1 < len(buf) && buf[abs+1] == 0xFF {
			i = abs + 2
			continue
		}
		return abs + 1, nil
	}
}

// scanNested scans a nested tuple starting at buf[pos] (buf[pos] ==
// tagNested), recursively consuming its elements at depth+1 until the
// terminating 0x00 is consumed, and returns the span covering tag through
// terminator inclusive.
func scanNested(buf []byte, pos int, depth int, maxDepth int) (end int, err error) {
	childDepth := depth + 1
	if maxDepth > 0 && childDepth > maxDepth {
		return 0, newError(ErrDepthExceeded, pos, "nested tuple depth %d exceeds max %d", childDepth, maxDepth)
	}

	cur := pos + 1
	for {
		if cur >= len(buf) {
			return 0, newError(ErrMalformedInput, pos, "unterminated nested tuple")
		}
		if isEndOfNested(buf, cur, childDepth) {
			cur++
			return cur, nil
		}
		next, err := scanElement(buf, cur, childDepth, maxDepth)
		if err != nil {
			return 0, err
		}
		cur = next
	}
}
