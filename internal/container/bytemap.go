// Package container implements content-addressed container data structures.
package container

import (
	"iter"

	"github.com/hupe1980/wikidex/internal/hash"
)

type byteEntry[V any] struct {
	key   []byte
	value V
}

// ByteMap is a hash map keyed by byte sequences compared by content.
//
// Buckets are chained by the injected Equivalence hash; keys are never
// compared by address. Iteration follows insertion order.
// A ByteMap is not safe for concurrent mutation.
type ByteMap[V any] struct {
	eq      hash.Equivalence
	buckets map[uint32][]int
	entries []byteEntry[V]
}

// NewByteMap creates an empty ByteMap. A nil eq selects hash.Content.
func NewByteMap[V any](eq hash.Equivalence, sizeHint int) *ByteMap[V] {
	if eq == nil {
		eq = hash.Content{}
	}
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &ByteMap[V]{
		eq:      eq,
		buckets: make(map[uint32][]int, sizeHint),
		entries: make([]byteEntry[V], 0, sizeHint),
	}
}

func (m *ByteMap[V]) find(key []byte) (uint32, int) {
	h := m.eq.Hash(key)
	for _, i := range m.buckets[h] {
		if m.eq.Equal(m.entries[i].key, key) {
			return h, i
		}
	}
	return h, -1
}

// Get returns the value stored under key.
func (m *ByteMap[V]) Get(key []byte) (V, bool) {
	if _, i := m.find(key); i >= 0 {
		return m.entries[i].value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (m *ByteMap[V]) Contains(key []byte) bool {
	_, i := m.find(key)
	return i >= 0
}

// Put stores value under key, replacing any previous value.
// The map retains key; callers must not mutate it afterwards.
func (m *ByteMap[V]) Put(key []byte, value V) {
	h, i := m.find(key)
	if i >= 0 {
		m.entries[i].value = value
		return
	}
	m.insert(h, key, value)
}

// PutIfAbsent stores value under key unless key is present. It returns the
// value now associated with key and whether the call inserted it.
func (m *ByteMap[V]) PutIfAbsent(key []byte, value V) (V, bool) {
	h, i := m.find(key)
	if i >= 0 {
		return m.entries[i].value, false
	}
	m.insert(h, key, value)
	return value, true
}

func (m *ByteMap[V]) insert(h uint32, key []byte, value V) {
	m.buckets[h] = append(m.buckets[h], len(m.entries))
	m.entries = append(m.entries, byteEntry[V]{key: key, value: value})
}

// Len returns the number of keys.
func (m *ByteMap[V]) Len() int {
	return len(m.entries)
}

// All yields every key/value pair in insertion order.
func (m *ByteMap[V]) All() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		for _, e := range m.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Clear drops every entry and releases the backing storage.
func (m *ByteMap[V]) Clear() {
	m.buckets = make(map[uint32][]int)
	m.entries = nil
}
