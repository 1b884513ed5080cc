package schema

import (
	"encoding/json"
	"sort"
	"strings"
)

// Type is the simplified enum for form-friendly schema kinds.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema describes a single node in a field schema tree. The engine treats
// schemas as read-only: renderers and validators derive their own structures
// and never write back.
type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        Type               `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Title       string             `json:"title,omitempty" yaml:"title,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any                `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any              `json:"enum,omitempty" yaml:"enum,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	// PropertyOrder preserves declaration order for Properties; map iteration
	// alone would make rendering nondeterministic.
	PropertyOrder []string `json:"-" yaml:"-"`
	Items         *Schema  `json:"items,omitempty" yaml:"items,omitempty"`

	Minimum          *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	MinLength        *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinItems         *int     `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// Defs holds reusable schemas referenced through "#/$defs/Name".
	Defs map[string]*Schema `json:"$defs,omitempty" yaml:"$defs,omitempty"`

	UI *UIHints `json:"ui,omitempty" yaml:"ui,omitempty"`
}

// MarshalJSON emits JSON Schema draft-7 form. The exclusive flags follow the
// OpenAPI 3.0 boolean style in the struct; draft-7 wants numeric
// exclusiveMinimum/exclusiveMaximum bounds, so a set flag moves its bound
// over and drops minimum/maximum.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	doc := struct {
		*plain
		Minimum          *float64 `json:"minimum,omitempty"`
		Maximum          *float64 `json:"maximum,omitempty"`
		ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
		ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	}{plain: (*plain)(s)}

	if s.ExclusiveMinimum && s.Minimum != nil {
		doc.ExclusiveMinimum = s.Minimum
	} else {
		doc.Minimum = s.Minimum
	}
	if s.ExclusiveMaximum && s.Maximum != nil {
		doc.ExclusiveMaximum = s.Maximum
	} else {
		doc.Maximum = s.Maximum
	}
	return json.Marshal(doc)
}

// UIHints carries presentation metadata a schema author may attach to a node.
// Every field is optional; renderers fall back to heuristics when hints are
// absent.
type UIHints struct {
	Element     string `json:"element,omitempty" yaml:"element,omitempty"`
	InputType   string `json:"inputType,omitempty" yaml:"inputType,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Class       string `json:"class,omitempty" yaml:"class,omitempty"`
	Style       string `json:"style,omitempty" yaml:"style,omitempty"`
	HelpText    string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HideLabel   bool   `json:"hideLabel,omitempty" yaml:"hideLabel,omitempty"`

	// Order positions the field within its form; fields without an order sort
	// after every ordered field.
	Order *int `json:"order,omitempty" yaml:"order,omitempty"`

	MinItems *int `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *int `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// ModelClass names the schema type rendered for each item of a
	// repeatable list when the item schema is declared out of line.
	ModelClass string `json:"modelClass,omitempty" yaml:"modelClass,omitempty"`

	// Choices enumerates explicit option entries: records with value/label
	// keys, two-element pairs, or bare scalars.
	Choices []any `json:"choices,omitempty" yaml:"choices,omitempty"`

	// Attrs passes arbitrary HTML attributes straight through to the control.
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Hints returns the node's UI hints, or an empty value when none were
// declared, so callers never branch on nil.
func (s *Schema) Hints() UIHints {
	if s == nil || s.UI == nil {
		return UIHints{}
	}
	return *s.UI
}

// IsLayout reports whether the node is a layout construct rather than a data
// field.
func (s *Schema) IsLayout() bool {
	return s != nil && s.UI != nil && s.UI.Element == "layout"
}

// IsRequired reports whether name appears in the node's required list.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, entry := range s.Required {
		if entry == name {
			return true
		}
	}
	return false
}

// ResolveRef follows a local "#/$defs/Name" reference against the given
// definitions table. It returns nil when the reference cannot be resolved;
// callers surface that as an inline diagnostic instead of failing the render.
func ResolveRef(ref string, defs map[string]*Schema) *Schema {
	name := RefName(ref)
	if name == "" || len(defs) == 0 {
		return nil
	}
	return defs[name]
}

// RefName extracts the definition name from a local reference.
func RefName(ref string) string {
	ref = strings.TrimSpace(ref)
	for _, prefix := range []string{"#/$defs/", "#/definitions/", "#/components/schemas/"} {
		if strings.HasPrefix(ref, prefix) {
			return strings.TrimPrefix(ref, prefix)
		}
	}
	return ""
}

// OrderedProperties returns property names in declaration order, falling back
// to map order for schemas built without PropertyOrder.
func (s *Schema) OrderedProperties() []string {
	if s == nil {
		return nil
	}
	if len(s.PropertyOrder) > 0 {
		names := make([]string, 0, len(s.PropertyOrder))
		for _, name := range s.PropertyOrder {
			if _, ok := s.Properties[name]; ok {
				names = append(names, name)
			}
		}
		return names
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
