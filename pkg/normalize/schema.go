package normalize

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema returns the JSON Schema describing an Envelope.
func Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[Envelope](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build envelope schema: %w", err)
	}

	schema.Description = "Single-key envelope wrapping a normalized value"
	if prop, ok := schema.Properties[ResultKey]; ok {
		prop.Description = "The normalized payload"
	}

	return schema, nil
}
