package tuple

// LazyTuple is a decoded tuple that stores per-element byte spans rather
// than materialized values, deferring typed conversion until element
// access. It borrows its backing buffer, the same way Reader does; it does
// not copy b.
type LazyTuple struct {
	buf   []byte
	spans [][2]int
}

// UnpackLazy tokenizes b into a LazyTuple without materializing any
// element's typed value. Malformed input is still rejected up front: every
// element's span must parse cleanly, exactly as a full Unpack would
// require, the difference is only that conversion to a Go value is
// deferred to Get/Span/Tuple.
func UnpackLazy(b []byte) (LazyTuple, error) {
	r := NewReader(b)
	var spans [][2]int
	for {
		start := r.Pos()
		tok, ok, err := r.ParseNext()
		if err != nil {
			return LazyTuple{}, err
		}
		if !ok {
			break
		}
		spans = append(spans, [2]int{start, start + len(tok)})
	}
	return LazyTuple{buf: b, spans: spans}, nil
}

// Len returns the number of elements.
func (lt LazyTuple) Len() int {
	return len(lt.spans)
}

// Span returns the raw wire-form bytes of element i, without decoding it.
// It panics if i is out of range, like a slice index would.
func (lt LazyTuple) Span(i int) []byte {
	s := lt.spans[i]
	return lt.buf[s[0]:s[1]]
}

// Get decodes element i as T, applying the same numeric widening and
// coercion rules as DecodeValue.
func Get[T Primitive](lt LazyTuple, i int) (T, error) {
	return DecodeValue[T](lt.Span(i))
}

// Element decodes element i into its natural Go representation, the same
// normalization Unpack applies.
func (lt LazyTuple) Element(i int) (any, error) {
	return decodeElementAny(lt.Span(i))
}

// Tuple fully materializes every element, equivalent to (but potentially
// more efficient than, since the spans are already known) calling Unpack
// again on the original bytes.
func (lt LazyTuple) Tuple() (Tuple, error) {
	t := make(Tuple, 0, len(lt.spans))
	for i := range lt.spans {
		el, err := lt.Element(i)
		if err != nil {
			return nil, err
		}
		t = append(t, el)
	}
	return t, nil
}
