// Package codec implements the canonical JSON and CBOR encodings that every
// digest and proof in the system is computed over. Two values that are
// structurally equal must canonicalize to the identical byte sequence
// regardless of field declaration order or map iteration order.
package codec

import (
	"bytes"
	"encoding/json"
	"sort"
)

// CanonicalJSON marshals v to JSON with map keys sorted lexicographically at
// every depth and arrays left in their original order. v is first passed
// through a plain json.Marshal/Unmarshal round trip so that structs, maps,
// and already-decoded json.RawMessage values are all normalized to the same
// representation before canonicalization.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, newDecodeError("marshal: %v", err)
	}
	return CanonicalizeJSON(raw)
}

// CanonicalizeJSON re-encodes raw JSON bytes into canonical form: decode into
// a generic tree, sort every map's keys, and re-marshal.
func CanonicalizeJSON(raw []byte) ([]byte, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, newDecodeError("invalid json: %v", err)
	}
	canon, err := json.Marshal(canonicalizeValue(v))
	if err != nil {
		return nil, newDecodeError("remarshal: %v", err)
	}
	return canon, nil
}

// canonicalizeValue recursively sorts map keys; arrays retain order. Scalars
// pass through unchanged, including json.Number so that integers are never
// reformatted as floats.
func canonicalizeValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make(orderedMap, 0, len(vv))
		for _, k := range keys {
			ordered = append(ordered, orderedEntry{key: k, value: canonicalizeValue(vv[k])})
		}
		return ordered
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, e := range vv {
			out[i] = canonicalizeValue(e)
		}
		return out
	default:
		return vv
	}
}

// orderedEntry and orderedMap preserve the sorted key order through
// json.Marshal, which would otherwise re-sort (harmlessly, but redundantly)
// or — for a plain map — re-derive the order itself. Keeping an explicit
// ordered representation makes the sort step auditable independent of
// encoding/json's own map-key-sorting behavior.
type orderedEntry struct {
	key   string
	value interface{}
}

type orderedMap []orderedEntry

func (m orderedMap) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, '{')
	for i, e := range m {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		valJSON, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// DecodeJSON unmarshals raw JSON into v using the standard library decoder.
// It exists alongside CanonicalJSON so callers have one place to route all
// wire-format decoding through, matching the package's DecodeError contract.
func DecodeJSON(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		return newDecodeError("empty input")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return newDecodeError("%v", err)
	}
	return nil
}

// PrettyJSON re-renders canonical JSON with two-space indentation for the
// *.cel.json on-disk artifact. Key order is preserved from CanonicalizeJSON.
func PrettyJSON(canon []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, canon, "", "  "); err != nil {
		return nil, newDecodeError("indent: %v", err)
	}
	return buf.Bytes(), nil
}
