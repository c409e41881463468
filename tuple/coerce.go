package tuple

import (
	"math"
	"net"
	"strconv"
	"time"
)

// decodeToInt64 implements the "any integer element may decode into any
// signed ... target if the value fits" plus "a float element may decode
// into an integer with a narrowing cast" plus "a string element may decode
// into a numeric target by parsing (culture-invariant)" rules of spec.md
// §4.4, producing the widest signed result; callers range-check against
// their actual target width.
func decodeToInt64(tok []byte) (int64, error) {
	tag := tok[0]
	switch {
	case tag == tagNil:
		return 0, nil
	case isIntegerTag(tag):
		mag, neg, _ := decodeIntMagnitude(tok)
		if neg {
			if mag > 1<<63 {
				return 0, newError(ErrNumericOverflow, 0, "magnitude %d too large for int64", mag)
			}
			return -int64(mag), nil
		}
		if mag > math.MaxInt64 {
			return 0, newError(ErrNumericOverflow, 0, "magnitude %d too large for int64", mag)
		}
		return int64(mag), nil
	case tag == tagFloat32:
		return int64(decodeFloat32(tok)), nil
	case tag == tagFloat64:
		return int64(decodeFloat64(tok)), nil
	case tag == tagBytes || tag == tagUtf8:
		s, err := decodeToString(tok)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(s, 10, 64) // culture-invariant: strconv has no locale concept
		if err != nil {
			return 0, newError(ErrUnsupportedCoercion, 0, "cannot parse %q as integer: %v", s, err)
		}
		return v, nil
	default:
		return 0, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as integer", tag)
	}
}

func decodeToUint64(tok []byte) (uint64, error) {
	tag := tok[0]
	switch {
	case tag == tagNil:
		return 0, nil
	case isIntegerTag(tag):
		mag, neg, _ := decodeIntMagnitude(tok)
		if neg {
			return 0, newError(ErrNumericOverflow, 0, "negative value does not fit in an unsigned target")
		}
		return mag, nil
	case tag == tagFloat32:
		f := decodeFloat32(tok)
		if f < 0 {
			return 0, newError(ErrNumericOverflow, 0, "negative value does not fit in an unsigned target")
		}
		return uint64(f), nil
	case tag == tagFloat64:
		f := decodeFloat64(tok)
		if f < 0 {
			return 0, newError(ErrNumericOverflow, 0, "negative value does not fit in an unsigned target")
		}
		return uint64(f), nil
	case tag == tagBytes || tag == tagUtf8:
		s, err := decodeToString(tok)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, newError(ErrUnsupportedCoercion, 0, "cannot parse %q as unsigned integer: %v", s, err)
		}
		return v, nil
	default:
		return 0, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as unsigned integer", tag)
	}
}

func decodeToFloat64(tok []byte) (float64, error) {
	tag := tok[0]
	switch {
	case tag == tagNil:
		return 0, nil
	case isIntegerTag(tag):
		mag, neg, _ := decodeIntMagnitude(tok)
		f := float64(mag)
		if neg {
			f = -f
		}
		return f, nil
	case tag == tagFloat32:
		return float64(decodeFloat32(tok)), nil
	case tag == tagFloat64:
		return decodeFloat64(tok), nil
	case tag == tagBytes || tag == tagUtf8:
		s, err := decodeToString(tok)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, newError(ErrUnsupportedCoercion, 0, "cannot parse %q as float: %v", s, err)
		}
		return v, nil
	default:
		return 0, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as float", tag)
	}
}

// decodeToBool implements "Float/Double/Decimal → bool: non-zero is true",
// "Any integer → bool: non-zero is true", and a resolution of the open
// question in spec.md §9 around DeserializeBoolean's string/bytes case:
// rather than "wire size != 2," which misclassifies any malformed 2-byte
// payload as false, we use the safer rule spec.md itself recommends,
// "payload length > 0 after un-escaping."
func decodeToBool(tok []byte) (bool, error) {
	tag := tok[0]
	switch {
	case tag == tagNil:
		return false, nil
	case tag == tagTrue:
		return true, nil
	case tag == tagFalse:
		return false, nil
	case isIntegerTag(tag):
		mag, _, _ := decodeIntMagnitude(tok)
		return mag != 0, nil
	case tag == tagFloat32:
		return decodeFloat32(tok) != 0, nil
	case tag == tagFloat64:
		return decodeFloat64(tok) != 0, nil
	case tag == tagDecimal:
		d, err := decodeDecimal(tok)
		if err != nil {
			return false, err
		}
		for _, b := range d.Payload {
			if b != 0 {
				return true, nil
			}
		}
		return false, nil
	case tag == tagBytes || tag == tagUtf8:
		b, err := decodeToBytes(tok)
		if err != nil {
			return false, err
		}
		return len(b) > 0, nil
	default:
		return false, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as bool", tag)
	}
}

// decodeToBytes implements "Bytes → string: interpret as ASCII/UTF-8" from
// the string side: un-escape the Bytes/Utf8 payload into a plain slice.
func decodeToBytes(tok []byte) ([]byte, error) {
	tag := tok[0]
	switch tag {
	case tagNil:
		return nil, nil
	case tagBytes, tagUtf8:
		return unescape(tok[1 : len(tok)-1]), nil
	default:
		return nil, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as bytes", tag)
	}
}

func decodeToString(tok []byte) (string, error) {
	b, err := decodeToBytes(tok)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isIntegerTag(tag byte) bool {
	return tag >= tagIntNegMin && tag <= tagIntPosMax
}

// --- Cross-binding coercions not covered by DecodeValue ----------------------

// DecodeChar implements "Bytes → char: if length 0 yield NUL; if length 1
// yield that byte; else fail."
func DecodeChar(tok []byte) (byte, error) {
	b, err := decodeToBytes(tok)
	if err != nil {
		return 0, err
	}
	switch len(b) {
	case 0:
		return 0, nil
	case 1:
		return b[0], nil
	default:
		return 0, newError(ErrUnsupportedCoercion, 0, "bytes of length %d cannot decode as a single char", len(b))
	}
}

// DecodeIP implements "UUID128 → IP address: first 16 bytes as IPv6" and
// "Small integer → IP address: 32-bit value as IPv4," dispatching on the
// wire tag.
func DecodeIP(tok []byte) (net.IP, error) {
	switch tok[0] {
	case tagUuid128:
		u := decodeUuid128(tok)
		return net.IP(u[:]), nil
	default:
		if isIntegerTag(tok[0]) {
			v, err := decodeToUint64(tok)
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint32 {
				return nil, newError(ErrNumericOverflow, 0, "value %d does not fit in a 32-bit IPv4 address", v)
			}
			return net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v)), nil
		}
		return nil, newError(ErrUnsupportedCoercion, 0, "cannot decode tag 0x%02x as an IP address", tok[0])
	}
}

// ticksPerSecond is the number of 100-nanosecond ticks in one second, the
// resolution "Integer → DateTime" uses.
const ticksPerSecond = 10_000_000

// epochOffsetSeconds is the number of seconds between 0001-01-01 (the
// DateTime tick epoch) and the Unix epoch (1970-01-01).
var epochOffsetSeconds = float64(-time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix())

// DecodeDateTimeFromTicks implements "Integer → DateTime: interpret as
// 100-nanosecond ticks since an epoch of 0001-01-01."
func DecodeDateTimeFromTicks(tok []byte) (time.Time, error) {
	ticks, err := decodeToInt64(tok)
	if err != nil {
		return time.Time{}, err
	}
	seconds := float64(ticks)/ticksPerSecond - epochOffsetSeconds
	whole := math.Floor(seconds)
	frac := seconds - whole
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
}

// DecodeDateTimeFromDays implements "Float/Double → DateTime: interpret as
// days since the Unix epoch (1970-01-01), preserving fractional-day
// precision."
func DecodeDateTimeFromDays(tok []byte) (time.Time, error) {
	days, err := decodeToFloat64(tok)
	if err != nil {
		return time.Time{}, err
	}
	seconds := days * 24 * 3600
	whole := math.Floor(seconds)
	frac := seconds - whole
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
}

// DecodeDuration implements "Float/Double → TimeSpan: interpret as
// seconds."
func DecodeDuration(tok []byte) (time.Duration, error) {
	seconds, err := decodeToFloat64(tok)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
