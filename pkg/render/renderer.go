package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// FieldRenderer turns a field schema plus its current value into an HTML
// fragment. Kind resolution is delegated to the registry so callers can add
// their own controls without touching the builders here.
type FieldRenderer struct {
	kinds *KindRegistry
}

// NewFieldRenderer builds a renderer backed by the given kind registry. A nil
// registry gets the built-in heuristics.
func NewFieldRenderer(kinds *KindRegistry) *FieldRenderer {
	if kinds == nil {
		kinds = NewKindRegistry()
	}
	return &FieldRenderer{kinds: kinds}
}

// Kinds exposes the registry for custom matcher registration.
func (r *FieldRenderer) Kinds() *KindRegistry {
	return r.kinds
}

// RenderField renders a single field: resolve the input kind, build the
// control, then hand it to the theme for chrome. References are resolved
// through the context; an unresolved reference renders an inline diagnostic
// instead of failing the whole form.
func (r *FieldRenderer) RenderField(name string, s *schema.Schema, value any, errMsg string, required bool, ctx *Context) string {
	if s == nil {
		return renderDiagnostic(name, "missing schema")
	}
	if ctx == nil {
		ctx = NewContext()
	}
	if s.Ref != "" {
		resolved := ctx.ResolveDef(s.Ref)
		if resolved == nil {
			return renderDiagnostic(name, fmt.Sprintf("unresolved reference %q", s.Ref))
		}
		s = resolved
	}

	kind := r.kinds.Resolve(name, s)
	hints := s.Hints()
	theme := ctx.ActiveTheme()

	control, known := r.buildControl(kind, name, s, value, required, ctx)
	if !known {
		control, _ = r.buildControl(KindText, name, s, value, required, ctx)
		control = fmt.Sprintf("<!-- unknown input kind %q for field %q; rendered as text -->\n%s", kind, name, control)
		kind = KindText
	}

	if kind == KindHidden {
		return control
	}

	label := ctx.translateHint(hints.Attrs[labelKeyHint], fieldLabel(name, s))
	help := ctx.translateHint(hints.Attrs[helpKeyHint], hints.HelpText)

	wrapped := theme.WrapField(WrappedField{
		Name:      name,
		ID:        fieldID(name),
		Kind:      kind,
		Label:     label,
		Required:  required,
		HideLabel: hints.HideLabel,
		Control:   control,
		Help:      help,
		Error:     errMsg,
		Icon:      SanitizeIcon(hints.Icon),
		Class:     hints.Class,
	})

	if rule := strings.TrimSpace(hints.Attrs[visibleWhenHint]); rule != "" {
		wrapped = wrapVisibility(wrapped, rule, ctx)
	}
	return wrapped
}

// visibleWhenHint names the hint attribute holding a conditional display
// expression over the form's values.
const visibleWhenHint = "visible_when"

func wrapVisibility(markup, rule string, ctx *Context) string {
	visible := true
	if ctx != nil && ctx.Visibility != nil {
		visible = ctx.Visibility(rule, ctx.Values)
	}
	hidden := ""
	if !visible {
		hidden = ` style="display: none"`
	}
	return `<div data-visible-when="` + html.EscapeString(rule) + `"` + hidden + ">\n" + markup + "\n</div>"
}

func (r *FieldRenderer) buildControl(kind, name string, s *schema.Schema, value any, required bool, ctx *Context) (string, bool) {
	switch kind {
	case KindText, KindPassword, KindEmail, KindTel, KindURL, KindDate, KindDatetime, KindColor, KindHidden:
		return r.inputControl(kind, name, s, value, required, ctx), true
	case KindNumber:
		return r.numberControl(name, s, value, required, ctx), true
	case KindTextarea:
		return r.textareaControl(name, s, value, required, ctx), true
	case KindCheckbox:
		return r.checkboxControl(name, s, value, ctx), true
	case KindSelect:
		return r.selectControl(name, s, value, required, ctx), true
	case KindRadio:
		return r.radioControl(name, s, value, required, ctx), true
	case KindFile:
		return r.fileControl(name, s, required, ctx), true
	default:
		return "", false
	}
}

func (r *FieldRenderer) inputControl(kind, name string, s *schema.Schema, value any, required bool, ctx *Context) string {
	attrs := r.baseAttrs(kind, name, s, required, ctx)
	attrs.Set("type", kind)
	if value != nil {
		attrs.Set("value", stringify(value))
	} else if s.Default != nil {
		attrs.Set("value", stringify(s.Default))
	}
	return "<input" + attrs.String() + ">"
}

func (r *FieldRenderer) numberControl(name string, s *schema.Schema, value any, required bool, ctx *Context) string {
	attrs := r.baseAttrs(KindNumber, name, s, required, ctx)
	attrs.Set("type", "number")
	if s.Type == schema.TypeInteger {
		attrs.Set("step", "1")
	}
	if value != nil {
		attrs.Set("value", stringify(value))
	} else if s.Default != nil {
		attrs.Set("value", stringify(s.Default))
	}
	return "<input" + attrs.String() + ">"
}

func (r *FieldRenderer) textareaControl(name string, s *schema.Schema, value any, required bool, ctx *Context) string {
	attrs := r.baseAttrs(KindTextarea, name, s, required, ctx)
	attrs.Set("rows", "4")
	content := ""
	if value != nil {
		content = stringify(value)
	} else if s.Default != nil {
		content = stringify(s.Default)
	}
	return "<textarea" + attrs.String() + ">" + html.EscapeString(content) + "</textarea>"
}

func (r *FieldRenderer) checkboxControl(name string, s *schema.Schema, value any, ctx *Context) string {
	attrs := NewAttrSet()
	attrs.Set("type", "checkbox")
	attrs.Set("id", fieldID(name))
	attrs.Set("name", name)
	attrs.Set("value", "true")
	r.applyHintAttrs(attrs, KindCheckbox, s, ctx, name)
	if value == nil && s.Default != nil {
		value = s.Default
	}
	if truthy(value) {
		attrs.Flag("checked")
	}
	return "<input" + attrs.String() + ">"
}

func (r *FieldRenderer) selectControl(name string, s *schema.Schema, value any, required bool, ctx *Context) string {
	if value == nil && s.Default != nil {
		value = s.Default
	}
	options := OptionsFor(s, value)
	if len(options) == 0 {
		return fmt.Sprintf(`<span class="render-warning">field %q has no options to select from</span>`, html.EscapeString(name))
	}

	attrs := r.baseAttrs(KindSelect, name, s, required, ctx)
	var b strings.Builder
	b.Grow(64 * len(options))
	b.WriteString("<select" + attrs.String() + ">\n")
	if !required {
		b.WriteString("    <option value=\"\"></option>\n")
	}
	for _, opt := range options {
		b.WriteString(`    <option value="`)
		b.WriteString(html.EscapeString(opt.Value))
		b.WriteByte('"')
		if opt.Selected {
			b.WriteString(" selected")
		}
		b.WriteByte('>')
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString("</option>\n")
	}
	b.WriteString("</select>")
	return b.String()
}

func (r *FieldRenderer) radioControl(name string, s *schema.Schema, value any, required bool, ctx *Context) string {
	if value == nil && s.Default != nil {
		value = s.Default
	}
	options := OptionsFor(s, value)
	if len(options) == 0 {
		return fmt.Sprintf(`<span class="render-warning">field %q has no options to select from</span>`, html.EscapeString(name))
	}

	var b strings.Builder
	b.WriteString(`<div class="radio-group" id="` + html.EscapeString(fieldID(name)) + "\">\n")
	for i, opt := range options {
		optionID := fmt.Sprintf("%s-%d", fieldID(name), i)
		attrs := NewAttrSet()
		attrs.Set("type", "radio")
		attrs.Set("id", optionID)
		attrs.Set("name", name)
		attrs.Set("value", opt.Value)
		if opt.Selected {
			attrs.Flag("checked")
		}
		if required {
			attrs.Flag("required")
		}
		b.WriteString("    <label><input" + attrs.String() + "> ")
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString("</label>\n")
	}
	b.WriteString("</div>")
	return b.String()
}

func (r *FieldRenderer) fileControl(name string, s *schema.Schema, required bool, ctx *Context) string {
	attrs := r.baseAttrs(KindFile, name, s, required, ctx)
	attrs.Set("type", "file")
	return "<input" + attrs.String() + ">"
}

func (r *FieldRenderer) baseAttrs(kind, name string, s *schema.Schema, required bool, ctx *Context) *AttrSet {
	attrs := NewAttrSet()
	attrs.Set("id", fieldID(name))
	attrs.Set("name", name)
	ApplyConstraints(attrs, s, required)
	r.applyHintAttrs(attrs, kind, s, ctx, name)
	return attrs
}

// applyHintAttrs layers on the presentation attributes in precedence order:
// theme class first, then hint class/style/placeholder, then raw attrs, with
// live validation wiring last.
func (r *FieldRenderer) applyHintAttrs(attrs *AttrSet, kind string, s *schema.Schema, ctx *Context, name string) {
	theme := ctx.ActiveTheme()
	if class := theme.InputClass(kind); class != "" {
		attrs.Set("class", class)
	}

	hints := s.Hints()
	if placeholder := ctx.translateHint(hints.Attrs[placeholderKeyHint], hints.Placeholder); placeholder != "" {
		attrs.Set("placeholder", placeholder)
	}
	if hints.Style != "" {
		attrs.Set("style", hints.Style)
	}
	attrs.Merge(stripHintKeys(hints.Attrs))

	if ctx.LiveAttrs != nil {
		if extra := ctx.LiveAttrs(name); extra != "" {
			mergeRawAttrs(attrs, extra)
		}
	}
}

// stripHintKeys drops attribute entries the pipeline interprets itself so
// they never reach the rendered markup.
func stripHintKeys(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for name, value := range attrs {
		switch name {
		case labelKeyHint, helpKeyHint, placeholderKeyHint, visibleWhenHint, "variant":
			continue
		}
		out[name] = value
	}
	return out
}

// mergeRawAttrs parses a pre-rendered `a="b" c="d"` fragment into the set.
// Live validation wiring produces these fragments.
func mergeRawAttrs(attrs *AttrSet, raw string) {
	for _, pair := range splitAttrPairs(raw) {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			attrs.Flag(name)
			continue
		}
		attrs.Set(name, strings.Trim(value, `"`))
	}
}

func splitAttrPairs(raw string) []string {
	var out []string
	var current strings.Builder
	inQuote := false
	for _, r := range raw {
		switch {
		case r == '"':
			inQuote = !inQuote
			current.WriteRune(r)
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				out = append(out, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func renderDiagnostic(name, problem string) string {
	return fmt.Sprintf(`<div class="render-error" data-field="%s">%s</div>`+"\n",
		html.EscapeString(name), html.EscapeString(problem))
}

// fieldID converts a dotted or indexed field path into an id attribute.
func fieldID(name string) string {
	replacer := strings.NewReplacer(".", "-", "[", "-", "]", "")
	return "field-" + replacer.Replace(name)
}

// fieldLabel prefers the schema title, falling back to the humanized name.
func fieldLabel(name string, s *schema.Schema) string {
	if s != nil && s.Title != "" {
		return s.Title
	}
	return HumanizeName(name)
}

// HumanizeName turns snake_case field names into title-cased labels.
func HumanizeName(name string) string {
	base := name
	if idx := strings.LastIndexAny(base, ".]"); idx >= 0 && idx+1 < len(base) {
		base = base[idx+1:]
	}
	parts := strings.Split(base, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "yes", "1":
			return true
		}
		return false
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}
