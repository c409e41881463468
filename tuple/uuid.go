package tuple

import (
	satori "github.com/satori/go.uuid"
)

// Uuid128 is a 16-byte RFC 4122 UUID, stored big-endian exactly as it
// appears on the wire (tag 0x30). It is a plain array rather than a
// third-party UUID struct so that the wire encoder never risks a library
// normalizing byte order under it.
type Uuid128 [16]byte

// Uuid64 is an opaque 64-bit UUID (tag 0x31), stored big-endian.
type Uuid64 uint64

// String renders u in canonical textual form, grounded on
// github.com/satori/go.uuid's FromBytes/String, the same package
// krypt.co/kr uses to round-trip raw UUID bytes through canonical text
// (see src/common/protocol/pair.go).
func (u Uuid128) String() string {
	parsed, err := satori.FromBytes(u[:])
	if err != nil {
		// FromBytes only fails on wrong-length input; u is always 16 bytes.
		panic("tuple: unreachable: Uuid128 is always 16 bytes")
	}
	return parsed.String()
}

// ParseUuid128 parses a canonical textual UUID (e.g.
// "f47ac10b-58cc-4372-a567-0e02b2c3d479") into its 16-byte wire form. This
// is the "String → UUID: parse canonical textual form" cross-binding
// coercion.
func ParseUuid128(s string) (Uuid128, error) {
	parsed, err := satori.FromString(s)
	if err != nil {
		return Uuid128{}, newError(ErrUnsupportedCoercion, 0, "invalid UUID text %q: %v", s, err)
	}
	var u Uuid128
	copy(u[:], parsed.Bytes())
	return u, nil
}
