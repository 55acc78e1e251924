// Package codec reads input documents and writes envelopes as JSON or YAML.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"
)

type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml (or yml) and auto, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatAuto):
		return FormatAuto, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format '%s': expected one of auto, json, yaml", s)
	}
}

// Decode parses a single document. Numbers are kept as json.Number so that
// integers are not widened to float64. Empty input decodes to nil.
func Decode(data []byte, format Format) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	switch format {
	case FormatJSON:
		v, err := decodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
		return v, nil
	case FormatYAML:
		v, err := decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
		return v, nil
	case FormatAuto, "":
		if v, err := decodeJSON(data); err == nil {
			return v, nil
		}
		v, err := decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode input as json or yaml: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown format '%s'", format)
	}
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	return v, nil
}

func decodeYAML(data []byte) (any, error) {
	// sigs.k8s.io/yaml converts to JSON first, so both formats share the
	// same number handling.
	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	return decodeJSON(j)
}

// Encode writes v to w. JSON is indented with two spaces and newline
// terminated.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON, FormatAuto, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format '%s'", format)
	}
}
