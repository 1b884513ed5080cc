package render

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// HiddenField is a hidden form input emitted alongside the visible fields.
// Use the helpers (CSRFToken, AuthToken, VersionField) to add common fields
// without repeating boilerplate.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend expectations (for example,
// "_csrf" or "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// AuthToken constructs a hidden field carrying an authentication token or
// session hint.
func AuthToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField constructs a hidden field used for optimistic locking or
// version-aware submissions (for example, "if-match" or "version").
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		clean[key] = value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{
			Name:  name,
			Value: clean[name],
		})
	}
	return result
}

// pathTokenPattern splits a submitted field name into map keys and bracketed
// list indexes: "addresses[0].street" -> "addresses", 0, "street".
var pathTokenPattern = regexp.MustCompile(`([^\.\[\]]+)|\[(\d+)\]`)

type pathToken struct {
	key   string
	index int
}

func tokenizePath(name string) []pathToken {
	matches := pathTokenPattern.FindAllStringSubmatch(name, -1)
	out := make([]pathToken, 0, len(matches))
	for _, m := range matches {
		if m[1] != "" {
			out = append(out, pathToken{key: m[1], index: -1})
			continue
		}
		var idx int
		fmt.Sscanf(m[2], "%d", &idx)
		out = append(out, pathToken{index: idx})
	}
	return out
}

// ParseSubmission rebuilds the nested value structure from a flat form
// submission. Indexed names become slices, dotted names become maps, and
// checkbox/boolean strings are coerced.
func ParseSubmission(form url.Values) map[string]any {
	out := make(map[string]any)

	names := make([]string, 0, len(form))
	for name := range form {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := form[name]
		if len(values) == 0 {
			continue
		}
		var value any
		if len(values) > 1 {
			coerced := make([]any, len(values))
			for i, v := range values {
				coerced[i] = CoerceValue(v)
			}
			value = coerced
		} else {
			value = CoerceValue(values[0])
		}
		tokens := tokenizePath(name)
		if len(tokens) == 0 || tokens[0].index >= 0 {
			continue
		}
		out[tokens[0].key] = setPath(out[tokens[0].key], tokens[1:], value)
	}
	return out
}

// ParseSubmissionMap is ParseSubmission for pre-flattened single-value maps.
func ParseSubmissionMap(form map[string]string) map[string]any {
	values := make(url.Values, len(form))
	for name, value := range form {
		values[name] = []string{value}
	}
	return ParseSubmission(values)
}

// CoerceValue maps the browser's checkbox and switch spellings onto booleans
// and leaves everything else as the submitted string.
func CoerceValue(raw string) any {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "yes", "1":
		return true
	case "false", "off", "no", "0":
		return false
	}
	return raw
}

// setPath walks the token path creating intermediate maps and slices. Slices
// grow with nil padding to reach the target index; a container whose shape
// conflicts with the path is overwritten.
func setPath(container any, tokens []pathToken, value any) any {
	if len(tokens) == 0 {
		return value
	}

	token := tokens[0]
	if token.index >= 0 {
		slice, _ := container.([]any)
		slice = growSlice(slice, token.index)
		slice[token.index] = setPath(slice[token.index], tokens[1:], value)
		return slice
	}

	m, ok := container.(map[string]any)
	if !ok || m == nil {
		m = make(map[string]any)
	}
	m[token.key] = setPath(m[token.key], tokens[1:], value)
	return m
}

func growSlice(slice []any, index int) []any {
	for len(slice) <= index {
		slice = append(slice, nil)
	}
	return slice
}

// itemErrorPattern matches both spellings handlers produce for entry errors:
// "field[0].street" and "field.0.street".
var itemErrorPattern = regexp.MustCompile(`^(.+?)(?:\[(\d+)\]|\.(\d+))(?:\.(.+))?$`)

// ExtractItemErrors filters an error map down to one list field, rekeying
// entries as "index.subfield". Keys without a sub-field segment, including
// bare "field[0]" entries, are dropped.
func ExtractItemErrors(errors map[string]string, field string) map[string]string {
	out := make(map[string]string)
	for key, msg := range errors {
		m := itemErrorPattern.FindStringSubmatch(key)
		if m == nil || m[1] != field || m[4] == "" {
			continue
		}
		index := m[2]
		if index == "" {
			index = m[3]
		}
		out[index+"."+m[4]] = msg
	}
	return out
}
