package util

import (
	"errors"
	"fmt"
)

const (
	APIVersionV1Alpha1 = "envelope/v1alpha1"

	// CurrentAPIVersion is written into documents this module creates.
	CurrentAPIVersion = APIVersionV1Alpha1
)

// TypeMeta identifies a config document. An empty APIVersion is read as
// the current version.
type TypeMeta struct {
	APIVersion string `json:"apiVersion,omitempty"`
	Kind       string `json:"kind"`
}

// NewTypeMeta returns metadata for kind at the current API version.
func NewTypeMeta(kind string) TypeMeta {
	return TypeMeta{APIVersion: CurrentAPIVersion, Kind: kind}
}

// Validate reports an unknown apiVersion and a kind other than
// expectedKind together.
func (t *TypeMeta) Validate(expectedKind string) error {
	return errors.Join(
		ValidateAPIVersion(t.APIVersion),
		validateKind(t.Kind, expectedKind),
	)
}

func ValidateAPIVersion(version string) error {
	switch version {
	case "", APIVersionV1Alpha1:
		return nil
	default:
		return fmt.Errorf("unknown apiVersion '%s': expected '%s'", version, CurrentAPIVersion)
	}
}

func validateKind(kind, expectedKind string) error {
	if kind == expectedKind {
		return nil
	}
	if kind == "" {
		return fmt.Errorf("missing kind: expected '%s'", expectedKind)
	}
	return fmt.Errorf("invalid kind '%s': expected '%s'", kind, expectedKind)
}
