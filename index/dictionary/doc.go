// Package dictionary implements the exact-key value store of the index.
//
// A Builder accepts (query, record) pairs during startup. Keys and records
// are stored as encoded bytes; a record whose encoding is byte-identical to
// one already stored shares that copy instead of adding another. Close
// freezes the builder into a Dictionary, which has no mutating methods and is
// safe for concurrent readers.
//
//	b := dictionary.NewBuilder()
//	_ = b.Add("mobj_t", mobj)
//	dict := b.Close()
//	r, ok := dict.TryGet("mobj_t")
package dictionary
