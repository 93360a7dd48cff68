package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/originals/cel/pkg/cel"
)

// readLog loads and decodes a serialized event log. CBOR is selected by
// file extension or, failing that, by the artifact not starting with
// JSON's opening brace.
func readLog(path string) (*cel.EventLog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("log file %s is empty", path)
	}
	if strings.HasSuffix(path, ".cbor") || raw[0] != '{' {
		return cel.DecodeCBOR(raw)
	}
	return cel.DecodeJSON(raw)
}

// writeLog serializes log in the requested format and writes it to output,
// or stdout when output is empty.
func writeLog(log *cel.EventLog, format, output string) error {
	var raw []byte
	var err error
	switch format {
	case "", "json":
		raw, err = cel.EncodeJSON(log)
		if err == nil {
			raw = append(raw, '\n')
		}
	case "cbor":
		raw, err = cel.EncodeCBOR(log)
	default:
		return fmt.Errorf("unknown format %q (want json or cbor)", format)
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	return os.WriteFile(output, raw, 0o644)
}
