// Package hash provides the content hashing used by the index containers and
// the integrity checks of serialized dumps.
//
// # Content Equality
//
// Every hash-based container in wikidex compares keys by content. Two byte
// sequences are equal iff their lengths match and every byte matches, and
// their Bytes hash is identical no matter where or when they were produced:
//
//	h := hash.Bytes(encoded)
//	same := hash.Equal(a, b)
//
// The hash is an FNV-style rolling hash with a fixed seed (2166136261) and
// multiplier (16777619). It is order-sensitive and never reads the address
// of the underlying array.
//
// # Integrity
//
// Dumps carry a CRC32-Castagnoli checksum of the whole frame and a BLAKE3
// digest of the entry section:
//
//	sum := hash.CRC32C(frame)
//	d := hash.Digest(entries)
package hash
