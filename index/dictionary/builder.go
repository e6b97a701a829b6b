package dictionary

import (
	"errors"
	"fmt"

	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/internal/container"
	"github.com/hupe1980/wikidex/internal/hash"
	"github.com/hupe1980/wikidex/record"
)

// ErrClosed is returned by Builder.Add after Close.
var ErrClosed = errors.New("dictionary: builder is closed")

// slotRef points a key at its shared value bytes.
type slotRef struct {
	slot uint32
	tag  record.Tag
}

// Stats describes the contents of a store.
type Stats struct {
	// Keys is the number of distinct keys.
	Keys int
	// DistinctValues is the number of stored value payloads.
	DistinctValues int
	// DedupHits counts keys that reused an existing payload.
	DedupHits int
	// Collisions counts Add calls for a key that was already present.
	Collisions int
	// KeyBytes and ValueBytes are the encoded sizes held in memory.
	KeyBytes   int
	ValueBytes int
}

// Option configures a Builder.
type Option func(*options)

type options struct {
	codec    codec.Options
	sizeHint int
}

// WithCodec sets the encoding options. The default is codec.Process().
func WithCodec(o codec.Options) Option {
	return func(opts *options) { opts.codec = o }
}

// WithSizeHint preallocates room for n keys.
func WithSizeHint(n int) Option {
	return func(opts *options) { opts.sizeHint = n }
}

// Builder is the open phase of the store. It is not safe for concurrent use.
type Builder struct {
	opts   codec.Options
	keys   *container.ByteMap[slotRef]
	values *container.ByteMap[uint32] // encoded value -> slot, build phase only
	arena  [][]byte
	stats  Stats
	frozen *Dictionary
}

// NewBuilder creates an empty, open Builder.
func NewBuilder(optFns ...Option) *Builder {
	o := options{codec: codec.Process()}
	for _, fn := range optFns {
		fn(&o)
	}
	return &Builder{
		opts:   o.codec,
		keys:   container.NewByteMap[slotRef](hash.Content{}, o.sizeHint),
		values: container.NewByteMap[uint32](hash.Content{}, o.sizeHint/4),
	}
}

// Add stores r under key. The first record added for a key wins; later adds
// for the same key are counted as collisions and leave it unchanged.
// After Close, Add returns ErrClosed and changes nothing.
func (b *Builder) Add(key string, r record.Record) error {
	if b.frozen != nil {
		return ErrClosed
	}
	if codec.IsNil(r) {
		return fmt.Errorf("dictionary: value for %q: %w", key, codec.ErrNilRecord)
	}
	ek, err := codec.EncodeKey(b.opts, key)
	if err != nil {
		return fmt.Errorf("dictionary: encode key %q: %w", key, err)
	}
	if b.keys.Contains(ek) {
		b.stats.Collisions++
		return nil
	}
	tag, ev, err := codec.Encode(b.opts, r)
	if err != nil {
		return fmt.Errorf("dictionary: encode value for %q: %w", key, err)
	}

	slot, inserted := b.values.PutIfAbsent(ev, uint32(len(b.arena)))
	if inserted {
		b.arena = append(b.arena, ev)
		b.stats.ValueBytes += len(ev)
	} else {
		b.stats.DedupHits++
	}
	b.keys.Put(ek, slotRef{slot: slot, tag: tag})
	b.stats.KeyBytes += len(ek)
	return nil
}

// TryGet returns the record stored under key.
func (b *Builder) TryGet(key string) (record.Record, bool) {
	return lookup(b.opts, b.keys, b.arena, key)
}

// Count returns the number of distinct keys.
func (b *Builder) Count() int { return b.keys.Len() }

// DistinctValues returns the number of stored value payloads.
func (b *Builder) DistinctValues() int { return len(b.arena) }

// Stats returns a snapshot of the builder's counters.
func (b *Builder) Stats() Stats {
	s := b.stats
	s.Keys = b.keys.Len()
	s.DistinctValues = len(b.arena)
	return s
}

// Closed reports whether Close has been called.
func (b *Builder) Closed() bool { return b.frozen != nil }

// Close drops the deduplication index and returns the frozen store.
// It is idempotent: every call returns the same Dictionary.
func (b *Builder) Close() *Dictionary {
	if b.frozen != nil {
		return b.frozen
	}
	b.values.Clear()
	b.values = nil
	b.frozen = &Dictionary{
		opts:  b.opts,
		keys:  b.keys,
		arena: b.arena,
		stats: b.Stats(),
	}
	return b.frozen
}

func lookup(o codec.Options, keys *container.ByteMap[slotRef], arena [][]byte, key string) (record.Record, bool) {
	ek, err := codec.EncodeKey(o, key)
	if err != nil {
		return nil, false
	}
	ref, ok := keys.Get(ek)
	if !ok || int(ref.slot) >= len(arena) {
		return nil, false
	}
	return codec.Decode(o, ref.tag, arena[ref.slot])
}
