package codec

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// JSON is a JSON codec backed by github.com/goccy/go-json.
//
// Struct fields are written in declaration order, so it is deterministic for
// records. It is larger than CBOR and mostly useful for inspecting dumps.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes the JSON data into v, rejecting unknown fields.
func (JSON) Unmarshal(data []byte, v any) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
