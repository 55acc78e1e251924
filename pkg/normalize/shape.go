package normalize

import (
	"encoding/json"
	"reflect"
)

// Shape is the coarse classification of an input value.
type Shape int

const (
	ShapeOther Shape = iota
	ShapeText
	ShapeNumber
	ShapeMapping
)

func (s Shape) String() string {
	switch s {
	case ShapeText:
		return "text"
	case ShapeNumber:
		return "number"
	case ShapeMapping:
		return "mapping"
	default:
		return "other"
	}
}

// Classify reports the shape of input. Any map keyed by a string kind
// (including Symbol) or by interface values is a mapping. Anything that is
// not text, a number or a mapping is ShapeOther.
func Classify(input any) Shape {
	switch input.(type) {
	case string:
		return ShapeText
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64, json.Number:
		return ShapeNumber
	case map[string]any, map[any]any:
		return ShapeMapping
	}

	if isKeyedMap(reflect.TypeOf(input)) {
		return ShapeMapping
	}
	return ShapeOther
}

func isKeyedMap(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Map {
		return false
	}

	switch t.Key().Kind() {
	case reflect.String, reflect.Interface:
		return true
	default:
		return false
	}
}
