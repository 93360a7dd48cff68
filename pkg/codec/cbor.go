package codec

import (
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// cborMode is the single shared deterministic CBOR encoder configuration:
// sorted map keys (by the bytewise order of the encoded key, per RFC 8949
// §4.2.1), definite-length arrays and maps, and no duplicate map keys. Every
// encoder in the module goes through this mode so that two equal values
// always produce the identical byte string.
var (
	cborMode     cbor.EncMode
	cborModeOnce sync.Once
)

func encMode() cbor.EncMode {
	cborModeOnce.Do(func() {
		opts := cbor.CanonicalEncOptions()
		mode, err := opts.EncMode()
		if err != nil {
			panic("codec: invalid canonical cbor options: " + err.Error())
		}
		cborMode = mode
	})
	return cborMode
}

// cborDecMode decodes untyped CBOR maps into map[string]interface{} instead
// of map[interface{}]interface{}, so a decoded log's event data remains
// canonicalizable as JSON (the digest path) without a conversion pass.
var (
	cborDecMode     cbor.DecMode
	cborDecModeOnce sync.Once
)

func decMode() cbor.DecMode {
	cborDecModeOnce.Do(func() {
		mode, err := cbor.DecOptions{
			DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
			DupMapKey:      cbor.DupMapKeyEnforcedAPF,
		}.DecMode()
		if err != nil {
			panic("codec: invalid cbor decode options: " + err.Error())
		}
		cborDecMode = mode
	})
	return cborDecMode
}

// CanonicalCBOR encodes v to deterministic CBOR. v should already be a value
// whose JSON shape is canonical (map[string]interface{}, structs with stable
// field order, or the package's own typed structs); CBOR's own canonical map
// ordering rule then makes the byte-level output deterministic independent
// of v's origin.
func CanonicalCBOR(v interface{}) ([]byte, error) {
	out, err := encMode().Marshal(v)
	if err != nil {
		return nil, newDecodeError("cbor marshal: %v", err)
	}
	return out, nil
}

// DecodeCBOR decodes deterministic CBOR bytes into v.
func DecodeCBOR(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		return newDecodeError("empty input")
	}
	if err := decMode().Unmarshal(raw, v); err != nil {
		return newDecodeError("cbor unmarshal: %v", err)
	}
	return nil
}
