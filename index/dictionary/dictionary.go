package dictionary

import (
	"iter"

	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/internal/container"
	"github.com/hupe1980/wikidex/record"
)

// Dictionary is the frozen store. All methods are safe for concurrent use.
type Dictionary struct {
	opts  codec.Options
	keys  *container.ByteMap[slotRef]
	arena [][]byte
	stats Stats
}

// TryGet returns the record stored under key. Unknown keys and payloads that
// fail to decode both report false.
func (d *Dictionary) TryGet(key string) (record.Record, bool) {
	return lookup(d.opts, d.keys, d.arena, key)
}

// Count returns the number of distinct keys.
func (d *Dictionary) Count() int { return d.keys.Len() }

// DistinctValues returns the number of stored value payloads.
func (d *Dictionary) DistinctValues() int { return len(d.arena) }

// Stats returns the counters captured at Close.
func (d *Dictionary) Stats() Stats { return d.stats }

// Options returns the encoding options the store was built with.
func (d *Dictionary) Options() codec.Options { return d.opts }

// Keys yields every key in insertion order.
func (d *Dictionary) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for ek := range d.keys.All() {
			key, ok := codec.DecodeKey(d.opts, ek)
			if !ok {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// Tags yields every key with the tag of its record.
func (d *Dictionary) Tags() iter.Seq2[string, record.Tag] {
	return func(yield func(string, record.Tag) bool) {
		for ek, ref := range d.keys.All() {
			key, ok := codec.DecodeKey(d.opts, ek)
			if !ok {
				continue
			}
			if !yield(key, ref.tag) {
				return
			}
		}
	}
}
