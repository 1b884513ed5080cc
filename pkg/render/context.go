package render

import (
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Context carries per-render state: the current value map, the accumulated
// error map, and the reference table for schema lookups. Build one per render
// call; contexts are never shared between concurrent renders.
type Context struct {
	Values map[string]any
	Errors map[string]string
	Defs   map[string]*schema.Schema
	Theme  Theme

	// LiveAttrs, when set, returns extra control attributes wiring a field to
	// a live validation endpoint.
	LiveAttrs func(field string) string

	// Visibility, when set, evaluates a field's visible_when rule against the
	// current values. Fields with a failing rule render hidden.
	Visibility func(rule string, values map[string]any) bool

	// Locale and Translator localize *_key hint attributes. OnMissing is
	// invoked when a key cannot be resolved.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// NewContext builds an empty context with the plain fallback theme.
func NewContext() *Context {
	return &Context{Theme: PlainTheme()}
}

// ActiveTheme returns the configured theme, falling back to the plain one so
// rendering can never dereference a nil theme.
func (c *Context) ActiveTheme() Theme {
	if c == nil || c.Theme == nil {
		return PlainTheme()
	}
	return c.Theme
}

// ValueOf looks up a field value by its possibly dotted name: the flat key
// wins, then the path is walked through nested maps.
func (c *Context) ValueOf(name string) any {
	if c == nil || len(c.Values) == 0 {
		return nil
	}
	if v, ok := c.Values[name]; ok {
		return v
	}

	parts := strings.Split(name, ".")
	var current any = c.Values
	for _, part := range parts {
		m, ok := asValueMap(current)
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// ErrorOf returns the error message for a field, or "".
func (c *Context) ErrorOf(name string) string {
	if c == nil {
		return ""
	}
	return c.Errors[name]
}

// ResolveDef follows a reference or model class name through the context's
// definitions.
func (c *Context) ResolveDef(refOrName string) *schema.Schema {
	if c == nil || len(c.Defs) == 0 {
		return nil
	}
	if s := schema.ResolveRef(refOrName, c.Defs); s != nil {
		return s
	}
	return c.Defs[refOrName]
}

// child derives a context scoped to a nested value map, keeping theme, defs,
// and live wiring from the parent.
func (c *Context) child(values map[string]any, errors map[string]string) *Context {
	out := &Context{
		Values:     values,
		Errors:     errors,
		Defs:       c.Defs,
		Theme:      c.Theme,
		LiveAttrs:  c.LiveAttrs,
		Visibility: c.Visibility,
		Locale:     c.Locale,
		Translator: c.Translator,
		OnMissing:  c.OnMissing,
	}
	return out
}
