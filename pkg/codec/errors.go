package codec

import "fmt"

// DecodeError reports a malformed or structurally invalid wire artifact:
// an event log missing its events array, an entry with an out-of-range
// type, or a proof with a missing or wrongly-typed required field.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode failed: %s", e.Reason)
}

func newDecodeError(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}
