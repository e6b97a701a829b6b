package codec

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/hupe1980/wikidex/record"
)

// Options fixes how keys and records are encoded. Every structure built with
// one Options value must be read with the same value.
type Options struct {
	Codec       Codec
	Compression Compression
}

// DefaultOptions returns CBOR with LZ4 compression.
func DefaultOptions() Options {
	return Options{Codec: CBOR{}, Compression: CompressionLZ4}
}

func (o Options) codec() Codec {
	if o.Codec == nil {
		return Default
	}
	return o.Codec
}

// String describes o, e.g. "cbor+lz4".
func (o Options) String() string {
	return o.codec().Name() + "+" + o.Compression.String()
}

var processOptions atomic.Pointer[Options]

// Process returns the process-wide options.
func Process() Options {
	if p := processOptions.Load(); p != nil {
		return *p
	}
	return DefaultOptions()
}

// SetProcess replaces the process-wide options. Call it once at startup,
// before anything is encoded.
func SetProcess(o Options) {
	processOptions.Store(&o)
}

var (
	// ErrUnknownTag is returned when encoding a record whose tag is not registered.
	ErrUnknownTag = errors.New("codec: unregistered record tag")
	// ErrNilRecord is returned when encoding a nil record, typed or not.
	ErrNilRecord = errors.New("codec: nil record")
)

// EncodeKey encodes a query string.
func EncodeKey(o Options, key string) ([]byte, error) {
	raw, err := o.codec().Marshal(key)
	if err != nil {
		return nil, err
	}
	return Compress(raw, o.Compression)
}

// DecodeKey reverses EncodeKey.
func DecodeKey(o Options, data []byte) (string, bool) {
	var key string
	ok := safely(func() error {
		raw, err := Decompress(data, o.Compression)
		if err != nil {
			return err
		}
		return o.codec().Unmarshal(raw, &key)
	})
	return key, ok
}

// Encode encodes r. The result starts with the tag byte, so Decode can tell
// a payload of one type from another.
func Encode(o Options, r record.Record) (record.Tag, []byte, error) {
	if IsNil(r) {
		return record.TagInvalid, nil, ErrNilRecord
	}
	tag := r.Tag()
	if !record.Registered(tag) {
		return tag, nil, fmt.Errorf("%w: %d", ErrUnknownTag, uint8(tag))
	}
	raw, err := o.codec().Marshal(r)
	if err != nil {
		return tag, nil, fmt.Errorf("codec: encode %s: %w", tag, err)
	}
	frame, err := Compress(raw, o.Compression)
	if err != nil {
		return tag, nil, err
	}
	out := make([]byte, 0, 1+len(frame))
	out = append(out, byte(tag))
	return tag, append(out, frame...), nil
}

// Decode rebuilds the record encoded under tag. It never panics; a wrong tag,
// truncated bytes or a decoder failure all yield (nil, false).
func Decode(o Options, tag record.Tag, data []byte) (record.Record, bool) {
	if len(data) == 0 || record.Tag(data[0]) != tag {
		return nil, false
	}
	r, ok := record.New(tag)
	if !ok {
		return nil, false
	}
	if !safely(func() error {
		raw, err := Decompress(data[1:], o.Compression)
		if err != nil {
			return err
		}
		return o.codec().Unmarshal(raw, r)
	}) {
		return nil, false
	}
	return r, true
}

// EncodeAs is Encode for call sites that know the concrete type.
func EncodeAs[T record.Record](o Options, r T) ([]byte, error) {
	_, b, err := Encode(o, r)
	return b, err
}

// DecodeAs decodes data and reports false unless the result is a T.
func DecodeAs[T record.Record](o Options, data []byte) (T, bool) {
	var zero T
	if len(data) == 0 {
		return zero, false
	}
	r, ok := Decode(o, record.Tag(data[0]), data)
	if !ok {
		return zero, false
	}
	t, ok := r.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// IsNil reports whether r is nil or a nil pointer behind the interface.
func IsNil(r record.Record) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// safely runs fn and reports success, treating a panic as failure.
func safely(fn func() error) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return fn() == nil
}
