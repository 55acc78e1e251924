package util

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithKind reads the apiVersion/kind header of data, rejects it
// unless it matches expectedKind at a known version, and then decodes data
// into target. Callers invoking it from UnmarshalJSON must pass a pointer
// to an alias type to avoid recursing.
func UnmarshalWithKind(data []byte, target any, expectedKind string) error {
	var header TypeMeta
	if err := json.Unmarshal(data, &header); err != nil {
		return fmt.Errorf("failed to read document header: %w", err)
	}

	if err := header.Validate(expectedKind); err != nil {
		return fmt.Errorf("cannot decode document as kind '%s': %w", expectedKind, err)
	}

	return json.Unmarshal(data, target)
}
