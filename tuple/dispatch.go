package tuple

import (
	"fmt"
	"reflect"
	"sync"
)

// Primitive is the closed, compile-time-known set of Go types that get a
// direct encoder/decoder selected without reflection. This is the fast
// path spec.md §4.4 calls for: "a direct encoder function that the
// dispatch selects without runtime reflection." Go generics make the
// selection a compile-time instantiation rather than a runtime switch over
// a reflect.Kind, which is the idiomatic Go rendering of the source
// pattern's statically-resolved "Encode for T" trait.
type Primitive interface {
	bool |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 |
		string
}

// EncodeValue writes v with the encoder selected for T at compile time.
func EncodeValue[T Primitive](w *Writer, v T) {
	switch x := any(v).(type) {
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
	default:
		panic(fmt.Sprintf("tuple: unreachable primitive type %T", v))
	}
}

// EncodeOptional writes *v if non-nil, or Nil if v is nil. "Optional values
// encode as Nil when absent."
func EncodeOptional[T Primitive](w *Writer, v *T) {
	if v == nil {
		encodeNil(w)
		return
	}
	EncodeValue(w, *v)
}

// DecodeValue decodes the single wire element tok into T, applying the
// numeric widening and cross-type coercion rules of spec.md §4.4: any
// integer may decode into any numeric target that fits (else
// ErrNumericOverflow), a float may decode into an integer via narrowing
// cast, a string may decode into a numeric target by invariant-culture
// parsing, and Nil decodes to T's zero value.
func DecodeValue[T Primitive](tok []byte) (T, error) {
	var zero T
	if len(tok) == 0 {
		return zero, newError(ErrMalformedInput, 0, "empty element")
	}

	switch any(zero).(type) {
	case bool:
		v, err := decodeToBool(tok)
		return any(v).(T), err
	case string:
		v, err := decodeToString(tok)
		return any(v).(T), err
	case float32:
		v, err := decodeToFloat64(tok)
		return any(float32(v)).(T), err
	case float64:
		v, err := decodeToFloat64(tok)
		return any(v).(T), err
	default:
		return decodeToSignedOrUnsigned[T](tok)
	}
}

// DecodeOptional decodes tok into a *T, returning nil if tok encodes Nil.
func DecodeOptional[T Primitive](tok []byte) (*T, error) {
	if len(tok) > 0 && tok[0] == tagNil {
		return nil, nil
	}
	v, err := DecodeValue[T](tok)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Byte slices, Uuid128, Uuid64, and VersionStamp sit outside the Primitive
// constraint (a []byte isn't comparable, and the UUID/VersionStamp types
// need their own wire framing rather than an int64/float64/string fast
// path), so they get their own Optional pair instead of an instantiation of
// EncodeOptional/DecodeOptional. The contract is identical: "Optional
// values encode as Nil when absent."

// EncodeBytesOptional writes *v if non-nil, or Nil if v is nil.
func EncodeBytesOptional(w *Writer, v *[]byte) {
	if v == nil {
		encodeNil(w)
		return
	}
	encodeBytes(w, *v)
}

// DecodeBytesOptional decodes tok into a *[]byte, returning nil if tok
// encodes Nil.
func DecodeBytesOptional(tok []byte) (*[]byte, error) {
	if len(tok) > 0 && tok[0] == tagNil {
		return nil, nil
	}
	v, err := decodeToBytes(tok)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// EncodeUuid128Optional writes *v if non-nil, or Nil if v is nil.
func EncodeUuid128Optional(w *Writer, v *Uuid128) {
	if v == nil {
		encodeNil(w)
		return
	}
	encodeUuid128(w, *v)
}

// DecodeUuid128Optional decodes tok into a *Uuid128, returning nil if tok
// encodes Nil.
func DecodeUuid128Optional(tok []byte) (*Uuid128, error) {
	if tok[0] == tagNil {
		return nil, nil
	}
	if tok[0] != tagUuid128 {
		return nil, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as Uuid128", tok[0])
	}
	v := Uuid128(decodeUuid128(tok))
	return &v, nil
}

// EncodeUuid64Optional writes *v if non-nil, or Nil if v is nil.
func EncodeUuid64Optional(w *Writer, v *Uuid64) {
	if v == nil {
		encodeNil(w)
		return
	}
	encodeUuid64(w, uint64(*v))
}

// DecodeUuid64Optional decodes tok into a *Uuid64, returning nil if tok
// encodes Nil.
func DecodeUuid64Optional(tok []byte) (*Uuid64, error) {
	if tok[0] == tagNil {
		return nil, nil
	}
	if tok[0] != tagUuid64 {
		return nil, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as Uuid64", tok[0])
	}
	v := Uuid64(decodeUuid64(tok))
	return &v, nil
}

// EncodeVersionStampOptional writes *v if non-nil, or Nil if v is nil.
func EncodeVersionStampOptional(w *Writer, v *VersionStamp) {
	if v == nil {
		encodeNil(w)
		return
	}
	encodeVersionStamp(w, *v)
}

// DecodeVersionStampOptional decodes tok into a *VersionStamp, returning nil
// if tok encodes Nil.
func DecodeVersionStampOptional(tok []byte) (*VersionStamp, error) {
	if tok[0] == tagNil {
		return nil, nil
	}
	if tok[0] != tagVersionstamp80 && tok[0] != tagVersionstamp96 {
		return nil, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as VersionStamp", tok[0])
	}
	v := decodeVersionStamp(tok)
	return &v, nil
}

// decodeToSignedOrUnsigned handles every integer-family T by decoding
// through the shared int64/uint64 widening path and range-checking the
// result against T's width.
func decodeToSignedOrUnsigned[T Primitive](tok []byte) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int, int8, int16, int32, int64:
		v, err := decodeToInt64(tok)
		if err != nil {
			return zero, err
		}
		return narrowSigned[T](v)
	case uint, uint8, uint16, uint32, uint64:
		v, err := decodeToUint64(tok)
		if err != nil {
			return zero, err
		}
		return narrowUnsigned[T](v)
	default:
		return zero, newError(ErrUnsupportedCoercion, 0, "unsupported decode target %T", zero)
	}
}

func narrowSigned[T Primitive](v int64) (T, error) {
	var zero T
	var lo, hi int64
	switch any(zero).(type) {
	case int, int64:
		return any(v).(T), nil
	case int8:
		lo, hi = -1<<7, 1<<7-1
	case int16:
		lo, hi = -1<<15, 1<<15-1
	case int32:
		lo, hi = -1<<31, 1<<31-1
	}
	if v < lo || v > hi {
		return zero, newError(ErrNumericOverflow, 0, "value %d does not fit in %T", v, zero)
	}
	switch any(zero).(type) {
	case int8:
		return any(int8(v)).(T), nil
	case int16:
		return any(int16(v)).(T), nil
	case int32:
		return any(int32(v)).(T), nil
	}
	return zero, newError(ErrUnsupportedCoercion, 0, "unsupported signed target %T", zero)
}

func narrowUnsigned[T Primitive](v uint64) (T, error) {
	var zero T
	var hi uint64
	switch any(zero).(type) {
	case uint, uint64:
		return any(v).(T), nil
	case uint8:
		hi = 1<<8 - 1
	case uint16:
		hi = 1<<16 - 1
	case uint32:
		hi = 1<<32 - 1
	}
	if v > hi {
		return zero, newError(ErrNumericOverflow, 0, "value %d does not fit in %T", v, zero)
	}
	switch any(zero).(type) {
	case uint8:
		return any(uint8(v)).(T), nil
	case uint16:
		return any(uint16(v)).(T), nil
	case uint32:
		return any(uint32(v)).(T), nil
	}
	return zero, newError(ErrUnsupportedCoercion, 0, "unsupported unsigned target %T", zero)
}

// --- Slow path: boxed/opaque values -----------------------------------------

// BoxedEncoder is implemented by a value whose concrete type is not one of
// the fixed Primitive set but which still knows how to write itself onto
// a Writer. Types discovered this way are cached by reflect.Type the first
// time they are seen.
type BoxedEncoder interface {
	EncodeTuple(w *Writer)
}

// encoderFunc is the cached, type-erased form of a resolved encoder.
type encoderFunc func(w *Writer, v any)

// encoderCache is the process-wide Dispatch cache from spec.md §4.4/§5: a
// cache keyed by runtime type, populated lazily on first use, safe for
// concurrent readers with a serialized (here: compare-and-swap via
// LoadOrStore) insert path. sync.Map is the right primitive rather than an
// evicting cache such as hashicorp/golang-lru: the spec requires the cache
// to be "grown monotonically, never shrunk," which is the opposite of what
// an LRU does, and sync.Map's read path stays wait-free after first
// population, matching "safe for concurrent read with serialized
// insertion" exactly.
var encoderCache sync.Map // map[reflect.Type]encoderFunc

// dispatchBoxed resolves and invokes the encoder for a value whose type
// fell through Tuple.Pack's fixed type switch. It recognizes BoxedEncoder
// on first sight of a type and remembers the result; unrecognized types
// panic. Tuple.Pack checks for BoxedEncoder before calling it and returns
// an error for any other type.
func dispatchBoxed(w *Writer, v any) {
	t := reflect.TypeOf(v)
	if cached, ok := encoderCache.Load(t); ok {
		cached.(encoderFunc)(w, v)
		return
	}

	var fn encoderFunc
	if _, ok := v.(BoxedEncoder); ok {
		fn = func(w *Writer, v any) { v.(BoxedEncoder).EncodeTuple(w) }
	} else {
		panic(fmt.Sprintf("tuple: unencodable element (%v, type %T)", v, v))
	}

	// Concurrent resolution of the same type is allowed: every computed
	// entry for a given type is extensionally equal, so whichever goroutine
	// wins LoadOrStore is as good as any other ("last writer wins without
	// correctness impact").
	actual, _ := encoderCache.LoadOrStore(t, fn)
	actual.(encoderFunc)(w, v)
}
