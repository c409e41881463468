package tuple

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func packOne(t *testing.T, el Element) []byte {
	t.Helper()
	b, err := Tuple{el}.Pack()
	require.NoError(t, err)
	return b
}

func TestDecodeToBoolCoercions(t *testing.T) {
	require.Equal(t, false, mustBool(t, packOne(t, nil)))
	require.Equal(t, true, mustBool(t, packOne(t, int64(5))))
	require.Equal(t, false, mustBool(t, packOne(t, int64(0))))
	require.Equal(t, true, mustBool(t, packOne(t, float64(1.5))))
	require.Equal(t, false, mustBool(t, packOne(t, float64(0))))
	require.Equal(t, true, mustBool(t, packOne(t, "x")))
	require.Equal(t, false, mustBool(t, packOne(t, "")))
}

func mustBool(t *testing.T, tok []byte) bool {
	t.Helper()
	v, err := DecodeValue[bool](tok)
	require.NoError(t, err)
	return v
}

func TestDecodeCharCoercion(t *testing.T) {
	c, err := DecodeChar(packOne(t, []byte{}))
	require.NoError(t, err)
	require.Equal(t, byte(0), c)

	c, err = DecodeChar(packOne(t, []byte{'a'}))
	require.NoError(t, err)
	require.Equal(t, byte('a'), c)

	_, err = DecodeChar(packOne(t, []byte{'a', 'b'}))
	require.ErrorIs(t, err, ErrUnsupportedCoercion)
}

func TestDecodeIPCoercion(t *testing.T) {
	var u Uuid128
	copy(u[:], net.ParseIP("2001:db8::1").To16())
	ip, err := DecodeIP(packOne(t, u))
	require.NoError(t, err)
	require.True(t, ip.Equal(net.ParseIP("2001:db8::1")))

	v4 := uint32(0xC0A80001) // 192.168.0.1
	ip, err = DecodeIP(packOne(t, int64(v4)))
	require.NoError(t, err)
	require.True(t, ip.Equal(net.IPv4(192, 168, 0, 1)))
}

func TestUuidStringCoercions(t *testing.T) {
	want, err := ParseUuid128("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	require.NoError(t, err)
	require.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", want.String())

	_, err = ParseUuid128("not-a-uuid")
	require.ErrorIs(t, err, ErrUnsupportedCoercion)
}

func TestDecodeDateTimeFromTicks(t *testing.T) {
	// Ticks for 1970-01-01T00:00:00Z computed from epochOffsetSeconds.
	ticks := int64(epochOffsetSeconds * ticksPerSecond)
	got, err := DecodeDateTimeFromTicks(packOne(t, ticks))
	require.NoError(t, err)
	require.WithinDuration(t, time.Unix(0, 0).UTC(), got, time.Millisecond)
}

func TestDecodeDateTimeFromDays(t *testing.T) {
	got, err := DecodeDateTimeFromDays(packOne(t, float64(1)))
	require.NoError(t, err)
	require.WithinDuration(t, time.Unix(0, 0).UTC().AddDate(0, 0, 1), got, time.Millisecond)
}

func TestDecodeDuration(t *testing.T) {
	got, err := DecodeDuration(packOne(t, float64(1.5)))
	require.NoError(t, err)
	require.Equal(t, 1500*time.Millisecond, got)
}

func TestStringToNumericParsing(t *testing.T) {
	v, err := DecodeValue[int64](packOne(t, "42"))
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	_, err = DecodeValue[int64](packOne(t, "not a number"))
	require.ErrorIs(t, err, ErrUnsupportedCoercion)

	f, err := DecodeValue[float64](packOne(t, "3.5"))
	require.NoError(t, err)
	require.Equal(t, 3.5, f)
}

func TestFloatToIntNarrowing(t *testing.T) {
	v, err := DecodeValue[int64](packOne(t, float64(3.9)))
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
}

func TestBytesToStringCoercion(t *testing.T) {
	s, err := DecodeValue[string](packOne(t, []byte("hello")))
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}
