package tuple

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConcreteScenarios exercises the hex table from spec.md §8 verbatim.
func TestConcreteScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   Tuple
		hex  []byte
	}{
		{"empty tuple", Tuple{}, []byte{}},
		{"nil", Tuple{nil}, []byte{0x00}},
		{"hello string", Tuple{"hello"}, []byte{0x02, 0x68, 0x65, 0x6C, 0x6C, 0x6F, 0x00}},
		{"embedded nul bytes", Tuple{[]byte{0x00, 0xFF, 0x00}}, []byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0xFF, 0x00}},
		{
			"integer family",
			Tuple{int64(0), int64(1), int64(-1), int64(255), int64(-255), int64(256), int64(-256)},
			[]byte{
				0x14,
				0x15, 0x01,
				0x13, 0xFE,
				0x15, 0xFF,
				0x13, 0x00,
				0x16, 0x01, 0x00,
				0x12, 0xFE, 0xFF,
			},
		},
		{
			"nested tuple",
			Tuple{Tuple{int64(1), int64(2)}, int64(3)},
			[]byte{0x05, 0x15, 0x01, 0x15, 0x02, 0x00, 0x15, 0x03},
		},
		{
			"nil then int at top level",
			Tuple{nil, int64(1)},
			[]byte{0x00, 0x15, 0x01},
		},
		{
			"float32",
			Tuple{float32(3.14)},
			[]byte{0x20, 0xC0, 0x48, 0xF5, 0xC3},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.in.Pack()
			require.NoError(t, err)
			require.Equal(t, c.hex, got)
		})
	}
}

func TestNilNestedInsideAnotherTuple(t *testing.T) {
	got, err := Tuple{Tuple{nil, int64(1)}}.Pack()
	require.NoError(t, err)
	require.Equal(t, []byte{0x05, 0x00, 0xFF, 0x15, 0x01, 0x00}, got)
}

func TestBoundaryIntegers(t *testing.T) {
	got, err := Tuple{int64(0x7FFFFFFFFFFFFFFF)}.Pack()
	require.NoError(t, err)
	require.Equal(t, []byte{0x1C, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, got)

	got, err = Tuple{int64(-0x8000000000000000)}.Pack()
	require.NoError(t, err)
	require.Equal(t, []byte{0x0C, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, got)
}

func TestEmptyByteStringAndUtf8(t *testing.T) {
	got, err := Tuple{[]byte{}}.Pack()
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00}, got)

	got, err = Tuple{""}.Pack()
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x00}, got)
}

func TestDecodeNilAtTopLevelVsTerminator(t *testing.T) {
	top, err := Unpack([]byte{0x00})
	require.NoError(t, err)
	require.Equal(t, Tuple{nil}, top)

	nested, err := Unpack([]byte{0x05, 0x00})
	require.NoError(t, err)
	require.Equal(t, Tuple{Tuple{}}, nested)
}

func TestLegacyNestedTagRejected(t *testing.T) {
	_, err := Unpack([]byte{0x03, 0x00})
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestUnknownTagRejected(t *testing.T) {
	_, err := Unpack([]byte{0x04})
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestFloatNaNCanonicalization(t *testing.T) {
	w := NewWriter()
	encodeFloat64(w, negativeNaN())
	b, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, tagFloat64, b[0])

	got := decodeFloat64(b)
	require.True(t, got != got) // NaN != NaN
}

func TestFloatOrderingSignAndNaN(t *testing.T) {
	// -0 < +0, and NaN sorts greater than +Inf after the bit-flip transform.
	neg0, _ := Tuple{math.Copysign(0, -1)}.Pack()
	pos0, _ := Tuple{float64(0)}.Pack()
	require.True(t, string(neg0) < string(pos0))

	posInf, _ := Tuple{math.Inf(1)}.Pack()
	nan, _ := Tuple{math.NaN()}.Pack()
	require.True(t, string(posInf) < string(nan))
}

func negativeNaN() float64 {
	return math.Copysign(math.NaN(), -1)
}
