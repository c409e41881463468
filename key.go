package lex

// A Key represents a FoundationDB-style key, a lexicographically ordered
// sequence of bytes. It is an opaque data type; the wire format of a Key is
// defined by whatever encoded it, most commonly the tuple package.
type Key []byte

// LexKey allows Key to satisfy the KeyConvertible interface.
func (k Key) LexKey() Key {
	return k
}

// A KeyConvertible can be converted to a FoundationDB key. All functions in
// the FoundationDB API that address a specific key accept KeyConvertible.
//
// KeyConvertible is satisfied by Key itself, as well as by higher-level
// types that know how to project themselves onto a lexicographically
// ordered key, such as tuple.Tuple and subspace.Subspace.
type KeyConvertible interface {
	LexKey() Key
}
