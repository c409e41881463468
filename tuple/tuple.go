// Package tuple provides a layer for encoding and decoding multi-element
// tuples into keys usable by a lexicographically ordered key/value store.
// The encoded key maintains the same sort order as the original tuple:
// sorted first by the first element, then by the second element, etc. This
// makes the tuple layer ideal for building a variety of higher-level data
// models.
//
// This codec implements the FoundationDB Tuple Layer wire format, so that
// keys it produces interoperate byte-for-byte with other language bindings
// that speak the same format.
package tuple

import (
	"fmt"

	"github.com/abdullin/lex-go"
)

// An Element is one of the types that may be encoded in a Tuple. Although
// the Go compiler cannot enforce this, it is a programming error to use an
// unsupported type as an Element (Pack will return an error).
//
// Valid Element types are: nil, bool, the signed and unsigned integer
// families, float32, float64, string, []byte (or lex.KeyConvertible),
// Uuid128, Uuid64, VersionStamp, Decimal, UserType, and Tuple (for nested
// tuples). *[]byte, *Uuid128, *Uuid64, and *VersionStamp are also valid,
// encoding as Nil when the pointer is nil ("optional values encode as Nil
// when absent"); the Primitive types have the same optional form via
// EncodeOptional/DecodeOptional.
type Element = any

// Tuple is a slice of Elements that can be encoded as a lexicographically
// ordered key. If any Elements are of unsupported types, Pack returns an
// error (or MustPack/LexKey panic).
//
// Given a Tuple T containing only supported types, decoding the byte slice
// obtained by packing T yields a Tuple equal to T, modulo type
// normalization (e.g. an int becomes an int64).
type Tuple []Element

// UserType is a user-defined element tagged with one of the reserved user
// type tags (Directory 0xFE, System 0xFF). With an empty Payload it
// encodes as a single tag byte; with a payload, the payload follows the
// tag verbatim, with no escaping or terminator — the receiver must know
// the length out-of-band.
type UserType struct {
	Tag     byte
	Payload []byte
}

// TagDirectory and TagSystem are the two reserved user type tags.
const (
	TagDirectory = tagUserDirectory
	TagSystem    = tagUserSystem
)

// Pack returns a new byte slice encoding the Tuple, or an error if it
// contains an element of an unsupported type, or if encoding a contained
// Decimal is attempted (Decimal encode is unimplemented).
func (t Tuple) Pack() ([]byte, error) {
	w := NewWriter()
	if err := t.encodeInto(w); err != nil {
		return nil, err
	}
	return w.Finish()
}

// MustPack is like Pack but panics instead of returning an error, for
// callers building keys from data they know is encodable (e.g. subspace
// prefixes assembled from literals).
func (t Tuple) MustPack() []byte {
	b, err := t.Pack()
	if err != nil {
		panic(err)
	}
	return b
}

func (t Tuple) encodeInto(w *Writer) error {
	for i, e := range t {
		if err := encodeElement(w, e); err != nil {
			return fmt.Errorf("tuple: element %d: %w", i, err)
		}
	}
	return nil
}

func encodeElement(w *Writer, e Element) error {
	switch x := e.(type) {
	case nil:
		encodeNil(w)
	case bool:
		encodeBool(w, x)
	case int:
		encodeInt(w, int64(x))
	case int8:
		encodeInt(w, int64(x))
	case int16:
		encodeInt(w, int64(x))
	case int32:
		encodeInt(w, int64(x))
	case int64:
		encodeInt(w, x)
	case uint:
		encodeUint(w, uint64(x))
	case uint8:
		encodeUint(w, uint64(x))
	case uint16:
		encodeUint(w, uint64(x))
	case uint32:
		encodeUint(w, uint64(x))
	case uint64:
		encodeUint(w, x)
	case float32:
		encodeFloat32(w, x)
	case float64:
		encodeFloat64(w, x)
	case string:
		encodeUtf8(w, x)
	case []byte:
		encodeBytes(w, x)
	case Uuid128:
		encodeUuid128(w, x)
	case Uuid64:
		encodeUuid64(w, uint64(x))
	case VersionStamp:
		encodeVersionStamp(w, x)
	case Decimal:
		return EncodeDecimal(w, x)
	case UserType:
		encodeUserType(w, x.Tag, x.Payload)
	case *[]byte:
		EncodeBytesOptional(w, x)
	case *Uuid128:
		EncodeUuid128Optional(w, x)
	case *Uuid64:
		EncodeUuid64Optional(w, x)
	case *VersionStamp:
		EncodeVersionStampOptional(w, x)
	case Tuple:
		w.BeginNested()
		if err := x.encodeInto(w); err != nil {
			return err
		}
		w.EndNested()
	case lex.KeyConvertible:
		encodeBytes(w, []byte(x.LexKey()))
	default:
		if _, ok := e.(BoxedEncoder); !ok {
			return newError(ErrUnsupportedCoercion, 0, "unencodable element (%v, type %T)", e, e)
		}
		dispatchBoxed(w, e)
	}
	return nil
}

// Unpack returns the tuple encoded by the provided byte slice, or an error
// if the key does not correctly encode a tuple.
func Unpack(b []byte) (Tuple, error) {
	r := NewReader(b)
	t := Tuple{}
	for {
		tok, ok, err := r.ParseNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		el, err := decodeElementAny(tok)
		if err != nil {
			return nil, err
		}
		t = append(t, el)
	}
	return t, nil
}

// decodeElementAny decodes a single element span into its "natural" Go
// representation: the same normalization Unpack applies to every element.
func decodeElementAny(tok []byte) (any, error) {
	tag := tok[0]
	switch {
	case tag == tagNil:
		return nil, nil
	case tag == tagBytes:
		return decodeToBytes(tok)
	case tag == tagUtf8:
		return decodeToString(tok)
	case isIntegerTag(tag):
		mag, neg, _ := decodeIntMagnitude(tok)
		if neg {
			if mag > 1<<63 {
				return nil, newError(ErrMalformedInput, 0, "magnitude %d too large for a signed 64-bit value", mag)
			}
			return -int64(mag), nil
		}
		if mag <= maxInt64 {
			return int64(mag), nil
		}
		return mag, nil
	case tag == tagFloat32:
		return decodeFloat32(tok), nil
	case tag == tagFloat64:
		return decodeFloat64(tok), nil
	case tag == tagFalse:
		return false, nil
	case tag == tagTrue:
		return true, nil
	case tag == tagUuid128:
		return Uuid128(decodeUuid128(tok)), nil
	case tag == tagUuid64:
		return Uuid64(decodeUuid64(tok)), nil
	case tag == tagVersionstamp80, tag == tagVersionstamp96:
		return decodeVersionStamp(tok), nil
	case tag == tagDecimal:
		return decodeDecimal(tok)
	case tag == tagUserDirectory, tag == tagUserSystem:
		var payload []byte
		if len(tok) > 1 {
			payload = append([]byte(nil), tok[1:]...)
		}
		return UserType{Tag: tag, Payload: payload}, nil
	case tag == tagNested:
		return unpackNested(tok[1 : len(tok)-1])
	default:
		return nil, newError(ErrMalformedInput, 0, "unknown type tag 0x%02x", tag)
	}
}

const maxInt64 = 1<<63 - 1

func unpackNested(payload []byte) (Tuple, error) {
	r := Embedded(payload)
	t := Tuple{}
	for {
		tok, ok, err := r.ParseNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		el, err := decodeElementAny(tok)
		if err != nil {
			return nil, err
		}
		t = append(t, el)
	}
	return t, nil
}

// EncodeTyped packs values as a Tuple; it is a thin, named entry point for
// callers that prefer not to spell out Tuple(values).Pack().
func EncodeTyped(values ...Element) ([]byte, error) {
	return Tuple(values).Pack()
}

// DecodeTyped decodes b into targets, which must be pointers to supported
// Go types (or *any, which receives Unpack's natural representation).
// Numeric widening and Nil-to-zero-value rules follow DecodeValue.
func DecodeTyped(b []byte, targets ...any) error {
	r := NewReader(b)
	for i, target := range targets {
		tok, ok, err := r.ParseNext()
		if err != nil {
			return err
		}
		if !ok {
			return newError(ErrMalformedInput, r.Pos(), "not enough elements to decode %d targets", len(targets))
		}
		if err := decodeInto(tok, target); err != nil {
			return fmt.Errorf("tuple: target %d: %w", i, err)
		}
	}
	return nil
}

func decodeInto(tok []byte, target any) error {
	switch p := target.(type) {
	case *bool:
		v, err := DecodeValue[bool](tok)
		if err != nil {
			return err
		}
		*p = v
	case *string:
		v, err := DecodeValue[string](tok)
		if err != nil {
			return err
		}
		*p = v
	case *int:
		v, err := DecodeValue[int](tok)
		if err != nil {
			return err
		}
		*p = v
	case *int8:
		v, err := DecodeValue[int8](tok)
		if err != nil {
			return err
		}
		*p = v
	case *int16:
		v, err := DecodeValue[int16](tok)
		if err != nil {
			return err
		}
		*p = v
	case *int32:
		v, err := DecodeValue[int32](tok)
		if err != nil {
			return err
		}
		*p = v
	case *int64:
		v, err := DecodeValue[int64](tok)
		if err != nil {
			return err
		}
		*p = v
	case *uint:
		v, err := DecodeValue[uint](tok)
		if err != nil {
			return err
		}
		*p = v
	case *uint8:
		v, err := DecodeValue[uint8](tok)
		if err != nil {
			return err
		}
		*p = v
	case *uint16:
		v, err := DecodeValue[uint16](tok)
		if err != nil {
			return err
		}
		*p = v
	case *uint32:
		v, err := DecodeValue[uint32](tok)
		if err != nil {
			return err
		}
		*p = v
	case *uint64:
		v, err := DecodeValue[uint64](tok)
		if err != nil {
			return err
		}
		*p = v
	case *float32:
		v, err := DecodeValue[float32](tok)
		if err != nil {
			return err
		}
		*p = v
	case *float64:
		v, err := DecodeValue[float64](tok)
		if err != nil {
			return err
		}
		*p = v
	case *[]byte:
		v, err := decodeToBytes(tok)
		if err != nil {
			return err
		}
		*p = v
	case *Uuid128:
		if tok[0] == tagNil {
			*p = Uuid128{}
			break
		}
		if tok[0] != tagUuid128 {
			return newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as Uuid128", tok[0])
		}
		*p = Uuid128(decodeUuid128(tok))
	case *Uuid64:
		if tok[0] == tagNil {
			*p = 0
			break
		}
		if tok[0] != tagUuid64 {
			return newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as Uuid64", tok[0])
		}
		*p = Uuid64(decodeUuid64(tok))
	case *VersionStamp:
		if tok[0] == tagNil {
			*p = VersionStamp{}
			break
		}
		if tok[0] != tagVersionstamp80 && tok[0] != tagVersionstamp96 {
			return newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as VersionStamp", tok[0])
		}
		*p = decodeVersionStamp(tok)
	case *Tuple:
		if tok[0] != tagNested {
			return newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as a nested Tuple", tok[0])
		}
		nested, err := unpackNested(tok[1 : len(tok)-1])
		if err != nil {
			return err
		}
		*p = nested
	case *any:
		v, err := decodeElementAny(tok)
		if err != nil {
			return err
		}
		*p = v
	default:
		return newError(ErrUnsupportedCoercion, 0, "unsupported decode target type %T", target)
	}
	return nil
}

// DecodeFirst returns the wire-form bytes of the first element of b,
// without deserializing it.
func DecodeFirst(b []byte) ([]byte, error) {
	r := NewReader(b)
	tok, ok, err := r.ParseNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(ErrMalformedInput, 0, "no elements to decode")
	}
	return tok, nil
}

// DecodeLast returns the wire-form bytes of the last element of b, without
// deserializing any element.
func DecodeLast(b []byte) ([]byte, error) {
	r := NewReader(b)
	var last []byte
	found := false
	for {
		tok, ok, err := r.ParseNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		last, found = tok, true
	}
	if !found {
		return nil, newError(ErrMalformedInput, 0, "no elements to decode")
	}
	return last, nil
}

// DecodeSingle returns the wire-form bytes of b's only element, failing
// with ErrMalformedInput if b encodes zero or more than one element.
func DecodeSingle(b []byte) ([]byte, error) {
	r := NewReader(b)
	tok, ok, err := r.ParseNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(ErrMalformedInput, 0, "no elements to decode")
	}
	if r.Remaining() != 0 {
		return nil, newError(ErrMalformedInput, r.Pos(), "bytes remaining after singleton parse")
	}
	return tok, nil
}

// LexKey returns the packed representation of a Tuple, and allows Tuple to
// satisfy the lex.KeyConvertible interface. LexKey panics under the same
// circumstances as Pack returning an error.
func (t Tuple) LexKey() lex.Key {
	return lex.Key(t.MustPack())
}

// LexRangeKeys allows Tuple to satisfy the lex.ExactRange interface. The
// range represents all keys that encode tuples strictly starting with this
// Tuple (that is, all tuples of greater length than this Tuple, of which
// this Tuple is a prefix).
func (t Tuple) LexRangeKeys() (lex.KeyConvertible, lex.KeyConvertible) {
	p := t.MustPack()
	return lex.Key(concat(p, 0x00)), lex.Key(concat(p, 0xFF))
}

// LexRangeKeySelectors allows Tuple to satisfy the lex.Range interface.
func (t Tuple) LexRangeKeySelectors() (lex.Selectable, lex.Selectable) {
	b, e := t.LexRangeKeys()
	return lex.FirstGreaterOrEqual(b), lex.FirstGreaterOrEqual(e)
}

func concat(a []byte, b ...byte) []byte {
	r := make([]byte, len(a)+len(b))
	copy(r, a)
	copy(r[len(a):], b)
	return r
}
