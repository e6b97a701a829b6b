// Package codec turns records into the opaque byte sequences the index stores.
//
// Encoding is a breaking-change boundary: bytes written with one Options value
// only decode with the same Options. Dumps record the codec name and
// compression in their header so they can be validated on read.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use and, for use as a record
// codec, deterministic: equal values must produce equal bytes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "cbor":
		return CBOR{}, true
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is like c.Marshal but panics on error. A nil c means Default.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

// Default is the record codec used when Options leaves Codec unset.
var Default Codec = CBOR{}
