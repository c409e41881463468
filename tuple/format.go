package tuple

import (
	"encoding/binary"
	"math"
)

// Wire type tags. The reserved tag space matches the FoundationDB Tuple
// Layer exactly; every other language binding that speaks this wire format
// must agree byte-for-byte with these values.
const (
	tagNil          byte = 0x00
	tagBytes        byte = 0x01
	tagUtf8         byte = 0x02
	tagNestedLegacy byte = 0x03 // rejected on decode
	tagNested       byte = 0x05

	tagIntNegMin byte = 0x0C // negative integer, 8-byte magnitude
	tagIntZero   byte = 0x14
	tagIntPosMax byte = 0x1C // positive integer, 8-byte magnitude

	tagFloat32 byte = 0x20
	tagFloat64 byte = 0x21
	tagTriple  byte = 0x22 // reserved, not assigned a format
	tagDecimal byte = 0x23

	tagFalse byte = 0x26
	tagTrue  byte = 0x27

	tagUuid128 byte = 0x30
	tagUuid64  byte = 0x31

	tagVersionstamp80 byte = 0x32
	tagVersionstamp96 byte = 0x33

	tagUserDirectory byte = 0xFE
	tagUserSystem    byte = 0xFF
)

// sizeLimits[n] is the largest unsigned value representable in n bytes.
// Kept from the teacher's tuple.go verbatim; it is the lookup table that
// minBytesFor scans and decodeIntMagnitude indexes.
var sizeLimits = [9]uint64{
	1<<(0*8) - 1,
	1<<(1*8) - 1,
	1<<(2*8) - 1,
	1<<(3*8) - 1,
	1<<(4*8) - 1,
	1<<(5*8) - 1,
	1<<(6*8) - 1,
	1<<(7*8) - 1,
	math.MaxUint64,
}

// minBytesFor returns the minimum number of bytes (1..8) needed to hold u.
func minBytesFor(u uint64) int {
	n := 0
	for sizeLimits[n] < u {
		n++
	}
	return n
}

// --- Nil -------------------------------------------------------------------

// encodeNil writes Nil in the form appropriate to w's current depth: a bare
// 0x00 at the top level, or the escaped 0x00 0xFF form inside a nested
// tuple, where a bare 0x00 would be read as the tuple's own terminator.
func encodeNil(w *Writer) {
	w.WriteByte(tagNil)
	if w.depth > 0 {
		w.WriteByte(0xFF)
	}
}

// --- Bytes / UTF-8 string ----------------------------------------------------

// escapeInto writes tag and then payload to w with every 0x00 byte doubled
// to 0x00 0xFF, followed by the unescaped terminator.
func escapeInto(w *Writer, tag byte, payload []byte) {
	w.WriteByte(tag)
	start := 0
	for i, b := range payload {
		if b == 0x00 {
			w.WriteBytes(payload[start : i+1])
			w.WriteByte(0xFF)
			start = i + 1
		}
	}
	w.WriteBytes(payload[start:])
	w.WriteByte(tagNil)
}

func encodeBytes(w *Writer, b []byte) { escapeInto(w, tagBytes, b) }
func encodeUtf8(w *Writer, s string)  { escapeInto(w, tagUtf8, []byte(s)) }

// unescape reverses escapeInto's doubling over the payload span (terminator
// excluded by the caller).
func unescape(payload []byte) []byte {
	out := make([]byte, 0, len(payload))
	for i := 0; i < len(payload); i++ {
		out = append(out, payload[i])
		if payload[i] == 0x00 {
			i++ // skip the 0xFF that follows every escaped NUL
		}
	}
	return out
}

// --- Integers ----------------------------------------------------------------

// encodeInt writes the signed integer i per spec.md §4.1: zero as the bare
// tag 0x14, otherwise tag 0x14±n followed by n bytes of big-endian magnitude
// (one's-complemented for negative values so that lexicographic order
// tracks numeric order).
func encodeInt(w *Writer, i int64) {
	if i == 0 {
		w.WriteByte(tagIntZero)
		return
	}

	var mag uint64
	neg := i < 0
	if neg {
		mag = uint64(-(i + 1)) + 1 // avoid overflow on math.MinInt64
	} else {
		mag = uint64(i)
	}

	n := minBytesFor(mag)
	if neg {
		w.WriteByte(byte(int(tagIntZero) - n))
		mag = sizeLimits[n] - mag
	} else {
		w.WriteByte(byte(int(tagIntZero) + n))
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], mag)
	w.WriteBytes(buf[8-n:])
}

// encodeUint writes an unsigned integer, whose magnitude may use the full
// 8-byte positive range, unlike encodeInt, whose int64 argument limits
// positive magnitudes to 2^63-1.
func encodeUint(w *Writer, u uint64) {
	if u == 0 {
		w.WriteByte(tagIntZero)
		return
	}
	n := minBytesFor(u)
	w.WriteByte(byte(int(tagIntZero) + n))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	w.WriteBytes(buf[8-n:])
}

// decodeIntMagnitude reads the payload of an integer element (tok includes
// the tag byte) and returns its raw magnitude, sign, and byte count.
func decodeIntMagnitude(tok []byte) (mag uint64, neg bool, n int) {
	tag := tok[0]
	if tag == tagIntZero {
		return 0, false, 0
	}
	d := int(tag) - int(tagIntZero)
	if d < 0 {
		neg = true
		n = -d
	} else {
		n = d
	}
	var buf [8]byte
	copy(buf[8-n:], tok[1:1+n])
	mag = binary.BigEndian.Uint64(buf[:])
	if neg {
		mag = sizeLimits[n] - mag
	}
	return mag, neg, n
}

// --- Floats --------------------------------------------------------------

// floatBitFlip transforms an IEEE-754 big-endian bit pattern so that
// lexicographic byte order agrees with float order: if the sign bit is set
// (negative, including -0), invert every bit; otherwise invert only the
// sign bit. floatBitUnflip is its inverse.
func floatBitFlip(bits uint64, width int) uint64 {
	signBit := uint64(1) << (width - 1)
	if bits&signBit != 0 {
		mask := uint64(1)<<width - 1
		return bits ^ mask
	}
	return bits | signBit
}

// floatBitUnflip reverses floatBitFlip: if the sign bit is set (an encoded
// non-negative value), clear it; otherwise invert every bit.
func floatBitUnflip(bits uint64, width int) uint64 {
	signBit := uint64(1) << (width - 1)
	if bits&signBit != 0 {
		return bits &^ signBit
	}
	mask := uint64(1)<<width - 1
	return bits ^ mask
}

func encodeFloat32(w *Writer, f float32) {
	if math.IsNaN(float64(f)) {
		f = float32(math.NaN())
	}
	bits := uint64(math.Float32bits(f))
	flipped := uint32(floatBitFlip(bits, 32))
	w.WriteByte(tagFloat32)
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], flipped)
	w.WriteBytes(buf[:])
}

func encodeFloat64(w *Writer, f float64) {
	if math.IsNaN(f) {
		f = math.NaN()
	}
	bits := math.Float64bits(f)
	flipped := floatBitFlip(bits, 64)
	w.WriteByte(tagFloat64)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], flipped)
	w.WriteBytes(buf[:])
}

func decodeFloat32(tok []byte) float32 {
	bits := binary.BigEndian.Uint32(tok[1:5])
	unflipped := uint32(floatBitUnflip(uint64(bits), 32))
	return math.Float32frombits(unflipped)
}

func decodeFloat64(tok []byte) float64 {
	bits := binary.BigEndian.Uint64(tok[1:9])
	unflipped := floatBitUnflip(bits, 64)
	return math.Float64frombits(unflipped)
}

// --- Booleans --------------------------------------------------------------

func encodeBool(w *Writer, b bool) {
	if b {
		w.WriteByte(tagTrue)
	} else {
		w.WriteByte(tagFalse)
	}
}

// --- UUIDs -------------------------------------------------------------------

func encodeUuid128(w *Writer, u [16]byte) {
	w.WriteByte(tagUuid128)
	w.WriteBytes(u[:])
}

func decodeUuid128(tok []byte) [16]byte {
	var u [16]byte
	copy(u[:], tok[1:17])
	return u
}

func encodeUuid64(w *Writer, u uint64) {
	w.WriteByte(tagUuid64)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	w.WriteBytes(buf[:])
}

func decodeUuid64(tok []byte) uint64 {
	return binary.BigEndian.Uint64(tok[1:9])
}

// --- User types --------------------------------------------------------------

// encodeUserType writes a tag byte and, if payload is non-empty, the payload
// verbatim with no escaping or terminator: the receiver must know the
// length out-of-band. Pack uses it for every UserType element, payload
// included. The Reader treats the Directory (0xFE) and System (0xFF) tags
// as single-byte elements, so a payload is not part of the span it returns
// for them.
func encodeUserType(w *Writer, tag byte, payload []byte) {
	w.WriteByte(tag)
	if len(payload) > 0 {
		w.WriteBytes(payload)
	}
}
