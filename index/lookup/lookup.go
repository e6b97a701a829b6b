// Package lookup implements the immutable multi-map the fuzzy resolver
// searches.
//
// A Lookup is built in one shot from (text, record) pairs. Each distinct text
// becomes a key; its records are kept in the order they were supplied and
// decoded only when iterated. Identical record payloads are stored once.
package lookup

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/internal/container"
	"github.com/hupe1980/wikidex/internal/hash"
	"github.com/hupe1980/wikidex/record"
)

// Stats describes a Lookup.
type Stats struct {
	Keys           int
	Values         int
	DistinctValues int
	KeysByTag      map[record.Tag]int
}

// Option configures New.
type Option func(*codec.Options)

// WithCodec sets the encoding options. The default is codec.Process().
func WithCodec(o codec.Options) Option {
	return func(dst *codec.Options) { *dst = o }
}

// Lookup is an immutable multi-map. All methods are safe for concurrent use.
type Lookup struct {
	opts     codec.Options
	index    *container.ByteMap[uint32] // encoded key -> ordinal
	keys     [][]byte                   // ordinal -> encoded key
	tags     []record.Tag               // ordinal -> tag of the first record
	postings [][]uint32                 // ordinal -> value slots, supply order
	arena    [][]byte                   // distinct encoded values
	byTag    map[record.Tag]*roaring.Bitmap
	values   int
}

// New builds a Lookup from pairs. The first record supplied for a key fixes
// the tag every value of that key is decoded with.
func New(pairs []record.Pair, optFns ...Option) (*Lookup, error) {
	opts := codec.Process()
	for _, fn := range optFns {
		fn(&opts)
	}

	l := &Lookup{
		opts:  opts,
		index: container.NewByteMap[uint32](hash.Content{}, len(pairs)),
		byTag: make(map[record.Tag]*roaring.Bitmap),
	}
	dedup := container.NewByteMap[uint32](hash.Content{}, len(pairs)/4)

	for _, p := range pairs {
		ek, err := codec.EncodeKey(opts, p.Query)
		if err != nil {
			return nil, fmt.Errorf("lookup: encode key %q: %w", p.Query, err)
		}
		tag, ev, err := codec.Encode(opts, p.Record)
		if err != nil {
			return nil, fmt.Errorf("lookup: encode value for %q: %w", p.Query, err)
		}

		ord, inserted := l.index.PutIfAbsent(ek, uint32(len(l.keys)))
		if inserted {
			l.keys = append(l.keys, ek)
			l.tags = append(l.tags, tag)
			l.postings = append(l.postings, nil)
			bm, ok := l.byTag[tag]
			if !ok {
				bm = roaring.New()
				l.byTag[tag] = bm
			}
			bm.Add(ord)
		}

		slot, fresh := dedup.PutIfAbsent(ev, uint32(len(l.arena)))
		if fresh {
			l.arena = append(l.arena, ev)
		}
		l.postings[ord] = append(l.postings[ord], slot)
		l.values++
	}

	for _, bm := range l.byTag {
		bm.RunOptimize()
	}
	return l, nil
}

// Len returns the number of distinct keys.
func (l *Lookup) Len() int { return len(l.keys) }

// Keys yields every distinct key in first-occurrence order.
func (l *Lookup) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, ek := range l.keys {
			key, ok := codec.DecodeKey(l.opts, ek)
			if !ok {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// Values yields the records of key in supply order, decoding each one as it
// is reached. A value that fails to decode yields (nil, false). Unknown keys
// yield nothing.
func (l *Lookup) Values(key string) iter.Seq2[record.Record, bool] {
	return func(yield func(record.Record, bool) bool) {
		ord, ok := l.ordinal(key)
		if !ok {
			return
		}
		tag := l.tags[ord]
		for _, slot := range l.postings[ord] {
			r, ok := codec.Decode(l.opts, tag, l.arena[slot])
			if !yield(r, ok) {
				return
			}
		}
	}
}

// Records returns the decodable records of key.
func (l *Lookup) Records(key string) []record.Record {
	var out []record.Record
	for r, ok := range l.Values(key) {
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many values key holds without decoding them.
func (l *Lookup) Count(key string) int {
	ord, ok := l.ordinal(key)
	if !ok {
		return 0
	}
	return len(l.postings[ord])
}

// Tag returns the tag values of key decode with.
func (l *Lookup) Tag(key string) (record.Tag, bool) {
	ord, ok := l.ordinal(key)
	if !ok {
		return record.TagInvalid, false
	}
	return l.tags[ord], true
}

// KeysWithTags yields the keys whose tag is one of tags, in first-occurrence
// order. With no tags it yields every key.
func (l *Lookup) KeysWithTags(tags ...record.Tag) iter.Seq[string] {
	if len(tags) == 0 {
		return l.Keys()
	}
	var sets []*roaring.Bitmap
	for _, t := range tags {
		if bm, ok := l.byTag[t]; ok {
			sets = append(sets, bm)
		}
	}
	union := roaring.FastOr(sets...)

	return func(yield func(string) bool) {
		it := union.Iterator()
		for it.HasNext() {
			key, ok := codec.DecodeKey(l.opts, l.keys[it.Next()])
			if !ok {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// Stats returns counts describing the Lookup.
func (l *Lookup) Stats() Stats {
	s := Stats{
		Keys:           len(l.keys),
		Values:         l.values,
		DistinctValues: len(l.arena),
		KeysByTag:      make(map[record.Tag]int, len(l.byTag)),
	}
	for t, bm := range l.byTag {
		s.KeysByTag[t] = int(bm.GetCardinality())
	}
	return s
}

func (l *Lookup) ordinal(key string) (uint32, bool) {
	ek, err := codec.EncodeKey(l.opts, key)
	if err != nil {
		return 0, false
	}
	return l.index.Get(ek)
}
