// Package normalize wraps arbitrary values in a single-key result envelope.
package normalize

import (
	"reflect"
)

const (
	// ResultKey is the only key of an envelope.
	ResultKey = "result"
	// DataKey is the mapping key whose value is unwrapped into the envelope.
	DataKey = "data"
)

// Symbol is the identifier-style form of a mapping key. A map[any]any can
// hold both Symbol("data") and "data"; the symbol form wins.
type Symbol string

var symbolType = reflect.TypeOf(Symbol(""))

// Envelope is the normalized form of a value: {"result": Result}.
type Envelope struct {
	Result any `json:"result"`
}

// AsMap returns the envelope as a one-key mapping.
func (e Envelope) AsMap() map[string]any {
	return map[string]any{ResultKey: e.Result}
}

// Normalize returns the envelope for input. Text, numbers and other values
// are wrapped unchanged. A mapping with a data key has that key's value
// unwrapped; any other mapping is wrapped whole. Input is never modified.
func Normalize(input any) Envelope {
	if Classify(input) != ShapeMapping {
		return Envelope{Result: input}
	}

	if v, ok := DataValue(input); ok {
		return Envelope{Result: v}
	}

	return Envelope{Result: input}
}

// DataValue returns the value Normalize would unwrap from a mapping. The
// symbol key is tried before the string key and the first present value
// wins. nil and false count as not present, so a falsy symbol value falls
// through to the string key and then to the whole mapping.
func DataValue(input any) (any, bool) {
	switch m := input.(type) {
	case map[string]any:
		return present(m[DataKey])
	case map[any]any:
		if v, ok := present(m[Symbol(DataKey)]); ok {
			return v, true
		}
		return present(m[DataKey])
	}

	return reflectDataValue(reflect.ValueOf(input))
}

// reflectDataValue handles typed maps such as map[string]string or
// map[Symbol]any with the same precedence as the fast paths above.
func reflectDataValue(m reflect.Value) (any, bool) {
	if !m.IsValid() || !isKeyedMap(m.Type()) {
		return nil, false
	}

	keyType := m.Type().Key()
	for _, key := range dataKeys(keyType) {
		if v, ok := presentValue(m.MapIndex(key)); ok {
			return v, true
		}
	}

	return nil, false
}

// dataKeys lists the lookups to try for a map with the given key type,
// symbol form first.
func dataKeys(keyType reflect.Type) []reflect.Value {
	var keys []reflect.Value

	if symbolType.AssignableTo(keyType) {
		keys = append(keys, reflect.ValueOf(Symbol(DataKey)))
	}

	switch {
	case keyType.Kind() == reflect.Interface:
		if stringKey := reflect.ValueOf(DataKey); stringKey.Type().AssignableTo(keyType) {
			keys = append(keys, stringKey)
		}
	case keyType.Kind() == reflect.String && keyType != symbolType:
		keys = append(keys, reflect.ValueOf(DataKey).Convert(keyType))
	}

	return keys
}

func presentValue(v reflect.Value) (any, bool) {
	if !v.IsValid() {
		return nil, false
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil, false
		}
	}

	return present(v.Interface())
}

func present(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	if b, ok := v.(bool); ok && !b {
		return nil, false
	}
	return v, true
}
