package outfmt

import (
	"encoding/json"
	"reflect"
)

// normalizeJSONOutput makes empty collections render as [] instead of null.
func normalizeJSONOutput(v any) any {
	if v == nil {
		return v
	}
	switch val := v.(type) {
	case json.RawMessage:
		if len(val) == 0 {
			return nil
		}
		return v
	case []byte:
		return v
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Slice && rv.IsNil() && rv.Type().Elem().Kind() != reflect.Uint8 {
		return []any{}
	}
	return v
}

// splitLines returns the values a JSONL writer emits: array elements one
// per line, anything else as a single line.
func splitLines(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{v}
}
