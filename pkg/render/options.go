package render

import (
	"fmt"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Option is one selectable entry of a choice control after normalization.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// OptionsFor collects the selectable entries for a field: explicit ui choices
// win, then the schema enum. The current value decides selection.
func OptionsFor(s *schema.Schema, current any) []Option {
	hints := s.Hints()
	if len(hints.Choices) > 0 {
		return NormalizeOptions(hints.Choices, current)
	}
	if len(s.Enum) > 0 {
		return NormalizeOptions(s.Enum, current)
	}
	return nil
}

// NormalizeOptions accepts the three shapes schema authors use for choices:
// records with value/label keys (an "id" key doubles as value), two-element
// pairs, and bare scalars. Comparison against the current value is by string
// form; a collection current value selects by membership.
func NormalizeOptions(raw []any, current any) []Option {
	if len(raw) == 0 {
		return nil
	}

	selected := selectionSet(current)
	out := make([]Option, 0, len(raw))

	for _, entry := range raw {
		opt := normalizeOption(entry)
		if opt.Value == "" && opt.Label == "" {
			continue
		}
		if !opt.Selected {
			opt.Selected = selected[opt.Value]
		}
		out = append(out, opt)
	}
	return out
}

func normalizeOption(entry any) Option {
	switch v := entry.(type) {
	case map[string]any:
		opt := Option{}
		if value, ok := v["value"]; ok {
			opt.Value = stringify(value)
		} else if id, ok := v["id"]; ok {
			opt.Value = stringify(id)
		}
		if label, ok := v["label"]; ok {
			opt.Label = stringify(label)
		} else {
			opt.Label = opt.Value
		}
		if sel, ok := v["selected"].(bool); ok {
			opt.Selected = sel
		}
		return opt
	case []any:
		if len(v) == 2 {
			return Option{Value: stringify(v[0]), Label: stringify(v[1])}
		}
		return Option{}
	default:
		value := stringify(v)
		return Option{Value: value, Label: value}
	}
}

func selectionSet(current any) map[string]bool {
	out := make(map[string]bool)
	switch v := current.(type) {
	case nil:
		return out
	case []any:
		for _, item := range v {
			out[stringify(item)] = true
		}
	case []string:
		for _, item := range v {
			out[item] = true
		}
	default:
		out[stringify(v)] = true
	}
	return out
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
