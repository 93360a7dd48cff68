package telemetry

import (
	"reflect"
	"regexp"
)

// Redacted replaces the value of any field whose key matches
// sensitiveKeyPattern before it reaches a log sink.
const Redacted = "[REDACTED]"

var sensitiveKeyPattern = regexp.MustCompile(`(?i)private|key|secret|password|token|credential`)

// Sanitize walks v and returns a copy with every value whose map key
// matches the sensitive-key pattern replaced by Redacted, at any nesting
// depth. Slices and arrays are walked element-wise; structs are passed
// through untouched (loggable structures are expected to already be
// map/slice trees by the time they reach a sink).
func Sanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			if sensitiveKeyPattern.MatchString(k) {
				out[k] = Redacted
				continue
			}
			out[k] = Sanitize(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = Sanitize(inner)
		}
		return out
	}

	// Generic maps with string-kind keys (e.g. map[string]string) get the
	// same treatment via reflection.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if sensitiveKeyPattern.MatchString(k) {
				out[k] = Redacted
				continue
			}
			out[k] = Sanitize(iter.Value().Interface())
		}
		return out
	}
	return v
}

// SanitizeFields sanitizes a flat field map in place of building a new
// nested walk per field.
func SanitizeFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}
	out, _ := Sanitize(fields).(map[string]interface{})
	return out
}
