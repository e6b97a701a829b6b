package hash

import "bytes"

const (
	// Seed is the initial state of the content hash.
	Seed uint32 = 2166136261
	// Prime is the multiplier applied before each byte is folded in.
	Prime uint32 = 16777619
)

// Bytes returns the content hash of b.
// Each byte is combined as h = h*Prime ^ b, with uint32 wraparound.
func Bytes(b []byte) uint32 {
	h := Seed
	for _, c := range b {
		h = (h * Prime) ^ uint32(c)
	}
	return h
}

// String is Bytes over the UTF-8 bytes of s without copying.
func String(s string) uint32 {
	h := Seed
	for i := 0; i < len(s); i++ {
		h = (h * Prime) ^ uint32(s[i])
	}
	return h
}

// Equal reports whether a and b hold the same bytes.
// A nil slice equals an empty one.
func Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// Equivalence is the comparison strategy injected into content-addressed
// containers.
type Equivalence interface {
	Hash(b []byte) uint32
	Equal(a, b []byte) bool
}

// Content compares byte sequences by value using Bytes and Equal.
type Content struct{}

// Hash implements Equivalence.
func (Content) Hash(b []byte) uint32 { return Bytes(b) }

// Equal implements Equivalence.
func (Content) Equal(a, b []byte) bool { return Equal(a, b) }
