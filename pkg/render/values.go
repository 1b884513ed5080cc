package render

import "encoding/json"

// asValueMap views a value as a string-keyed map without conversion cost for
// the common shapes.
func asValueMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// ValueMap normalizes a nested value at the render boundary: plain maps pass
// through, anything JSON-marshalable (domain structs, pointer values) is
// serialized into a plain map. Returns false for scalars.
func ValueMap(value any) (map[string]any, bool) {
	if value == nil {
		return nil, false
	}
	if m, ok := asValueMap(value); ok {
		return m, true
	}

	payload, err := json.Marshal(value)
	if err != nil || len(payload) == 0 || payload[0] != '{' {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, false
	}
	return out, true
}

// ValueList normalizes an array field's value: slices pass through, a single
// mapping-like value is wrapped as a one-item list, nil becomes empty.
func ValueList(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	default:
		if m, ok := ValueMap(value); ok {
			return []any{m}
		}
		return []any{value}
	}
}
