package render

import (
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// AttrSet accumulates HTML attributes for a control. Class and style values
// append rather than overwrite so theme classes and author classes compose.
type AttrSet struct {
	values map[string]string
	flags  map[string]bool
}

func NewAttrSet() *AttrSet {
	return &AttrSet{
		values: make(map[string]string),
		flags:  make(map[string]bool),
	}
}

// Set assigns a value attribute. Class and style entries append to any prior
// value with the appropriate separator.
func (a *AttrSet) Set(name, value string) *AttrSet {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return a
	}
	switch name {
	case "class":
		a.values[name] = joinToken(a.values[name], value, " ")
	case "style":
		a.values[name] = joinToken(a.values[name], value, "; ")
	default:
		a.values[name] = value
	}
	return a
}

// Flag adds a boolean attribute such as required or disabled.
func (a *AttrSet) Flag(name string) *AttrSet {
	name = strings.TrimSpace(strings.ToLower(name))
	if name != "" {
		a.flags[name] = true
	}
	return a
}

// Merge copies attributes from raw, keeping the append semantics for class
// and style. Empty-valued entries become boolean flags.
func (a *AttrSet) Merge(raw map[string]string) *AttrSet {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if raw[k] == "" {
			a.Flag(k)
			continue
		}
		a.Set(k, raw[k])
	}
	return a
}

// String renders the attribute list sorted by name, values escaped, suitable
// for direct inclusion after the tag name.
func (a *AttrSet) String() string {
	if len(a.values) == 0 && len(a.flags) == 0 {
		return ""
	}

	names := make([]string, 0, len(a.values)+len(a.flags))
	for k := range a.values {
		names = append(names, k)
	}
	for k := range a.flags {
		if _, dup := a.values[k]; !dup {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		builder.WriteByte(' ')
		builder.WriteString(name)
		if value, ok := a.values[name]; ok {
			builder.WriteString(`="`)
			builder.WriteString(html.EscapeString(value))
			builder.WriteByte('"')
		}
	}
	return builder.String()
}

func joinToken(existing, next, sep string) string {
	next = strings.TrimSpace(next)
	if existing == "" {
		return next
	}
	if next == "" {
		return existing
	}
	return existing + sep + next
}

// ApplyConstraints maps schema validation keywords onto the native input
// attributes browsers enforce.
func ApplyConstraints(attrs *AttrSet, s *schema.Schema, required bool) {
	if s == nil {
		return
	}
	if required {
		attrs.Flag("required")
	}
	if s.MinLength != nil {
		attrs.Set("minlength", strconv.Itoa(*s.MinLength))
	}
	if s.MaxLength != nil {
		attrs.Set("maxlength", strconv.Itoa(*s.MaxLength))
	}
	if s.Pattern != "" {
		attrs.Set("pattern", s.Pattern)
	}
	if s.Minimum != nil {
		attrs.Set("min", formatBound(*s.Minimum))
	}
	if s.Maximum != nil {
		attrs.Set("max", formatBound(*s.Maximum))
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
