package tuple

// Decimal is the reserved tag-0x23 element. The wire format's length (17
// bytes: the tag, a sign/exponent byte, and a 15-byte body) is settled, but
// the digit encoding itself is not, per spec.md §9. Decoding stores the body
// in Payload[:15]; Payload[15] stays zero. Encode therefore always
// fails with ErrUnimplemented; decode is implemented behind
// decimalDecodeEnabled so that a binding that only ever reads tuples
// written by another implementation can still skip over (or, once this
// flag is flipped, actually read) a Decimal element instead of choking on
// an unknown format.
type Decimal struct {
	Sign    byte
	Payload [16]byte
}

// decimalDecodeEnabled gates Decimal decoding. It is a plain package
// constant rather than a build tag because nothing in spec.md asks for a
// build-time switch, only a flag guarding unfinished format work.
const decimalDecodeEnabled = true

// EncodeDecimal always fails: spec.md is explicit that Decimal encode must
// fail with Unimplemented until the digit format is finalized.
func EncodeDecimal(_ *Writer, _ Decimal) error {
	return newError(ErrUnimplemented, 0, "Decimal encoding is not implemented")
}

// decodeDecimal parses the 17-byte Decimal element (tag included) into its
// sign byte and the 15-byte body that follows it. It does not interpret the body as a numeric
// value; no arithmetic or comparison semantics are defined for Decimal yet.
func decodeDecimal(tok []byte) (Decimal, error) {
	if !decimalDecodeEnabled {
		return Decimal{}, newError(ErrUnimplemented, 0, "Decimal decoding is disabled")
	}
	if len(tok) != 17 {
		return Decimal{}, newError(ErrMalformedInput, 0, "Decimal element must be 17 bytes, got %d", len(tok))
	}
	var d Decimal
	d.Sign = tok[1]
	copy(d.Payload[:], tok[2:17])
	return d, nil
}
