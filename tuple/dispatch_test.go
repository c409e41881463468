package tuple

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeValuePrimitives(t *testing.T) {
	w := NewWriter()
	EncodeValue(w, int32(-7))
	b, err := w.Finish()
	require.NoError(t, err)

	v, err := DecodeValue[int32](b)
	require.NoError(t, err)
	require.Equal(t, int32(-7), v)
}

func TestDecodeValueWidening(t *testing.T) {
	w := NewWriter()
	EncodeValue(w, int64(100))
	b, err := w.Finish()
	require.NoError(t, err)

	v8, err := DecodeValue[int8](b)
	require.NoError(t, err)
	require.Equal(t, int8(100), v8)

	w2 := NewWriter()
	EncodeValue(w2, int64(200))
	b2, err := w2.Finish()
	require.NoError(t, err)

	_, err = DecodeValue[int8](b2)
	require.ErrorIs(t, err, ErrNumericOverflow)
}

func TestDecodeValueUnsignedOverflow(t *testing.T) {
	w := NewWriter()
	EncodeValue(w, int64(300))
	b, err := w.Finish()
	require.NoError(t, err)

	_, err = DecodeValue[uint8](b)
	require.ErrorIs(t, err, ErrNumericOverflow)
}

func TestDecodeValueNegativeToUnsignedFails(t *testing.T) {
	w := NewWriter()
	EncodeValue(w, int64(-1))
	b, err := w.Finish()
	require.NoError(t, err)

	_, err = DecodeValue[uint64](b)
	require.ErrorIs(t, err, ErrNumericOverflow)
}

func TestEncodeOptional(t *testing.T) {
	w := NewWriter()
	var v *int64
	EncodeOptional(w, v)
	b, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{tagNil}, b)

	w2 := NewWriter()
	x := int64(5)
	EncodeOptional(w2, &x)
	b2, err := w2.Finish()
	require.NoError(t, err)

	got, err := DecodeOptional[int64](b2)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(5), *got)
}

func TestDecodeOptionalNil(t *testing.T) {
	got, err := DecodeOptional[int64]([]byte{tagNil})
	require.NoError(t, err)
	require.Nil(t, got)
}

// boxedPoint exercises the slow BoxedEncoder path: it is not one of the
// fixed Primitive types, so Tuple.Pack must fall through to dispatchBoxed.
type boxedPoint struct {
	X, Y int64
}

func (p boxedPoint) EncodeTuple(w *Writer) {
	w.BeginNested()
	encodeInt(w, p.X)
	encodeInt(w, p.Y)
	w.EndNested()
}

func TestDispatchBoxedEncoder(t *testing.T) {
	tup := Tuple{boxedPoint{X: 1, Y: 2}}
	b, err := tup.Pack()
	require.NoError(t, err)

	got, err := Unpack(b)
	require.NoError(t, err)
	require.Equal(t, Tuple{Tuple{int64(1), int64(2)}}, got)
}

// TestDispatchBoxedEncoderConcurrent exercises encoderCache's concurrent
// first-use path: many goroutines racing to populate the same type's entry
// must all observe a correctly working encoder with no data race.
func TestDispatchBoxedEncoderConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			b, err := Tuple{boxedPoint{X: n, Y: n * 2}}.Pack()
			if err != nil {
				errs <- err
				return
			}
			got, err := Unpack(b)
			if err != nil {
				errs <- err
				return
			}
			want := Tuple{Tuple{n, n * 2}}
			if len(got) != 1 {
				errs <- ErrMalformedInput
				return
			}
			inner, ok := got[0].(Tuple)
			if !ok || len(inner) != 2 || inner[0] != want[0].(Tuple)[0] {
				errs <- ErrMalformedInput
			}
		}(int64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestDispatchBoxedUnencodableTypePanics(t *testing.T) {
	require.Panics(t, func() {
		Tuple{make(chan int)}.MustPack()
	})
}

func TestBytesOptional(t *testing.T) {
	w := NewWriter()
	EncodeBytesOptional(w, nil)
	b, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{tagNil}, b)

	got, err := DecodeBytesOptional(b)
	require.NoError(t, err)
	require.Nil(t, got)

	v := []byte{1, 2, 3}
	w2 := NewWriter()
	EncodeBytesOptional(w2, &v)
	b2, err := w2.Finish()
	require.NoError(t, err)

	got2, err := DecodeBytesOptional(b2)
	require.NoError(t, err)
	require.NotNil(t, got2)
	require.Equal(t, v, *got2)
}

func TestUuid128Optional(t *testing.T) {
	w := NewWriter()
	EncodeUuid128Optional(w, nil)
	b, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{tagNil}, b)

	got, err := DecodeUuid128Optional(b)
	require.NoError(t, err)
	require.Nil(t, got)

	u := Uuid128{1, 2, 3}
	w2 := NewWriter()
	EncodeUuid128Optional(w2, &u)
	b2, err := w2.Finish()
	require.NoError(t, err)

	got2, err := DecodeUuid128Optional(b2)
	require.NoError(t, err)
	require.NotNil(t, got2)
	require.Equal(t, u, *got2)
}

func TestUuid64Optional(t *testing.T) {
	w := NewWriter()
	EncodeUuid64Optional(w, nil)
	b, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{tagNil}, b)

	got, err := DecodeUuid64Optional(b)
	require.NoError(t, err)
	require.Nil(t, got)

	u := Uuid64(42)
	w2 := NewWriter()
	EncodeUuid64Optional(w2, &u)
	b2, err := w2.Finish()
	require.NoError(t, err)

	got2, err := DecodeUuid64Optional(b2)
	require.NoError(t, err)
	require.NotNil(t, got2)
	require.Equal(t, u, *got2)
}

func TestVersionStampOptional(t *testing.T) {
	w := NewWriter()
	EncodeVersionStampOptional(w, nil)
	b, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{tagNil}, b)

	got, err := DecodeVersionStampOptional(b)
	require.NoError(t, err)
	require.Nil(t, got)

	vs := VersionStamp{Commit: [10]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	w2 := NewWriter()
	EncodeVersionStampOptional(w2, &vs)
	b2, err := w2.Finish()
	require.NoError(t, err)

	got2, err := DecodeVersionStampOptional(b2)
	require.NoError(t, err)
	require.NotNil(t, got2)
	require.Equal(t, vs, *got2)
}

// TestTuplePackAcceptsOptionalPointerElements exercises the bug the review
// flagged directly: Pack must be able to emit an absent Uuid128/Uuid64/
// VersionStamp/[]byte as the wire Nil tag through the ordinary Tuple
// encode path, not just through the dedicated EncodeXOptional helpers.
func TestTuplePackAcceptsOptionalPointerElements(t *testing.T) {
	var (
		nilBytes  *[]byte
		nilUuid   *Uuid128
		nilUuid64 *Uuid64
		nilVs     *VersionStamp
	)
	tup := Tuple{nilBytes, nilUuid, nilUuid64, nilVs}
	b, err := tup.Pack()
	require.NoError(t, err)
	require.Equal(t, []byte{tagNil, tagNil, tagNil, tagNil}, b)

	got, err := Unpack(b)
	require.NoError(t, err)
	require.Equal(t, Tuple{nil, nil, nil, nil}, got)

	u := Uuid128{9}
	u64 := Uuid64(7)
	vs := VersionStamp{Commit: [10]byte{1}}
	bs := []byte{1, 2}
	present := Tuple{&bs, &u, &u64, &vs}
	b2, err := present.Pack()
	require.NoError(t, err)

	got2, err := Unpack(b2)
	require.NoError(t, err)
	require.Equal(t, Tuple{bs, u, u64, vs}, got2)
}
