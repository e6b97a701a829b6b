package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items. The same
// record always produces identical bytes, which deduplication relies on.
var encMode cbor.EncMode

// decMode rejects unknown fields and duplicate map keys so that bytes of one
// record type do not silently decode as another.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBOR is the default record codec.
type CBOR struct{}

// Marshal encodes v with deterministic CBOR.
func (CBOR) Marshal(v any) ([]byte, error) { return encMode.Marshal(v) }

// Unmarshal decodes CBOR data into v.
func (CBOR) Unmarshal(data []byte, v any) error { return decMode.Unmarshal(data, v) }

// Name returns the unique name of the codec ("cbor").
func (CBOR) Name() string { return "cbor" }

// Diagnose returns the CBOR diagnostic notation of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
