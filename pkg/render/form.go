package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/catalog"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/visibility"
)

// FormOptions configure a single form render.
type FormOptions struct {
	// ID overrides the generated form id.
	ID string
	// Action is the submit URL.
	Action string
	// Method is the HTTP method. PATCH, PUT, and DELETE become a POST with a
	// hidden _method input so plain browsers can submit them.
	Method string
	// SubmitLabel is the submit button text. Empty means "Submit".
	SubmitLabel string
	// Hidden adds hidden inputs by name.
	Hidden map[string]string
	// ErrorSummary renders the collected errors above the fields.
	ErrorSummary bool
	// Fields restricts rendering to the named subset, in catalog order.
	Fields []string
}

// RenderForm renders the complete form for a catalog entry: error summary,
// hidden inputs, every data field in order, layout composites, and the
// submit button, followed by the scripts the rendered controls need.
func (r *FieldRenderer) RenderForm(meta *catalog.Metadata, ctx *Context, opts FormOptions) string {
	if meta == nil {
		return renderDiagnostic("form", "missing form metadata")
	}
	if ctx == nil {
		ctx = NewContext()
	}

	formID := opts.ID
	if formID == "" {
		formID = "form-" + strings.ToLower(meta.Type)
	}
	method, methodOverride := submitMethod(opts.Method)

	var b strings.Builder
	b.Grow(2048)
	b.WriteString(fmt.Sprintf("<form id=\"%s\" action=\"%s\" method=\"%s\">\n",
		html.EscapeString(formID), html.EscapeString(opts.Action), method))

	if opts.ErrorSummary && len(ctx.Errors) > 0 {
		b.WriteString(renderErrorSummary(meta, ctx.Errors))
	}

	hidden := MergeHiddenFields(opts.Hidden)
	if methodOverride != "" {
		hidden = MergeHiddenFields(hidden, Hidden("_method", methodOverride))
	}
	for _, field := range SortedHiddenFields(hidden) {
		b.WriteString(fmt.Sprintf("  <input type=\"hidden\" name=\"%s\" value=\"%s\">\n",
			html.EscapeString(field.Name), html.EscapeString(field.Value)))
	}

	hasList := false
	hasConditional := false
	for _, field := range selectFields(meta, opts.Fields) {
		fragment, isList := r.renderFormField(field, meta, ctx)
		if isList {
			hasList = true
		}
		if strings.Contains(fragment, "data-visible-when") {
			hasConditional = true
		}
		writeIndented(&b, fragment)
	}

	label := opts.SubmitLabel
	if label == "" {
		label = "Submit"
	}
	b.WriteString(fmt.Sprintf("  <button type=\"submit\">%s</button>\n", html.EscapeString(label)))
	b.WriteString("</form>\n")

	if hasList {
		b.WriteString(ListScript())
		b.WriteByte('\n')
	}
	if hasConditional {
		b.WriteString(visibility.Script())
		b.WriteByte('\n')
	}
	for _, script := range ctx.ActiveTheme().Scripts() {
		b.WriteString(script)
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *FieldRenderer) renderFormField(field catalog.Field, meta *catalog.Metadata, ctx *Context) (string, bool) {
	s := field.Schema
	if s != nil && s.IsLayout() {
		return r.renderLayout(field.Name, s, meta, ctx), false
	}
	if isListField(s, ctx) {
		return r.RenderList(field.Name, s, ctx.ValueOf(field.Name), ctx), true
	}
	if isObjectField(s, ctx) {
		return r.renderObject(field.Name, s, ctx), false
	}
	return r.RenderField(field.Name, s, ctx.ValueOf(field.Name), ctx.ErrorOf(field.Name), meta.IsRequired(field.Name), ctx), false
}

func isObjectField(s *schema.Schema, ctx *Context) bool {
	if s == nil || s.IsLayout() {
		return false
	}
	if s.Ref != "" {
		if resolved := ctx.ResolveDef(s.Ref); resolved != nil {
			s = resolved
		}
	}
	return s.Type == schema.TypeObject && len(s.Properties) > 0
}

// renderObject expands a nested object field into its own controls with
// dotted name prefixes, so `address` renders `address.street` and friends.
func (r *FieldRenderer) renderObject(name string, s *schema.Schema, ctx *Context) string {
	if s.Ref != "" {
		if resolved := ctx.ResolveDef(s.Ref); resolved != nil {
			s = resolved
		}
	}
	var b strings.Builder
	b.WriteString("<fieldset class=\"object-group\" id=\"" + html.EscapeString(fieldID(name)) + "\">\n")
	b.WriteString("  <legend>" + html.EscapeString(fieldLabel(name, s)) + "</legend>\n")
	for _, sub := range s.OrderedProperties() {
		subSchema := s.Properties[sub]
		path := name + "." + sub
		var fragment string
		switch {
		case isListField(subSchema, ctx):
			fragment = r.RenderList(path, subSchema, ctx.ValueOf(path), ctx)
		case isObjectField(subSchema, ctx):
			fragment = r.renderObject(path, subSchema, ctx)
		default:
			fragment = r.RenderField(path, subSchema, ctx.ValueOf(path), ctx.ErrorOf(path), s.IsRequired(sub), ctx)
		}
		writeIndented(&b, fragment)
	}
	b.WriteString("</fieldset>\n")
	return b.String()
}

func isListField(s *schema.Schema, ctx *Context) bool {
	if s == nil {
		return false
	}
	if s.Ref != "" {
		if resolved := ctx.ResolveDef(s.Ref); resolved != nil {
			s = resolved
		}
	}
	return s.Type == schema.TypeArray && s.Items != nil
}

// renderLayout expands a layout field into a composite container: tabs when
// the hint asks for them, an accordion otherwise. Each object property of
// the layout becomes one pane holding its own fields; scalar properties get
// a pane of their own.
func (r *FieldRenderer) renderLayout(name string, s *schema.Schema, meta *catalog.Metadata, ctx *Context) string {
	hints := s.Hints()
	id := fieldID(name)

	variant := hints.InputType
	if variant == "" {
		variant = hints.Attrs["variant"]
	}

	panes := make([]Section, 0, len(s.Properties))
	for _, sub := range s.OrderedProperties() {
		subSchema := s.Properties[sub]
		panes = append(panes, Section{
			ID:      id + "-" + fieldID(sub),
			Title:   fieldLabel(sub, subSchema),
			Content: r.renderGroup(sub, subSchema, ctx),
		})
	}
	if len(panes) == 0 {
		return renderDiagnostic(name, "layout has no sections")
	}

	theme := ctx.ActiveTheme()
	if variant == "tabs" {
		tabs := make([]Tab, len(panes))
		for i, pane := range panes {
			tabs[i] = Tab{ID: pane.ID, Title: pane.Title, Content: pane.Content, Active: i == 0}
		}
		return theme.TabContainer(id, tabs)
	}

	panes[0].Open = true
	return theme.Accordion(id, panes)
}

// renderGroup renders a layout pane: an object schema renders its fields,
// anything else renders as the single field it names.
func (r *FieldRenderer) renderGroup(name string, s *schema.Schema, ctx *Context) string {
	if s == nil {
		return renderDiagnostic(name, "missing schema")
	}
	if s.Ref != "" {
		if resolved := ctx.ResolveDef(s.Ref); resolved != nil {
			s = resolved
		}
	}
	if s.Type != schema.TypeObject || len(s.Properties) == 0 {
		return r.RenderField(name, s, ctx.ValueOf(name), ctx.ErrorOf(name), false, ctx)
	}

	var b strings.Builder
	for _, sub := range s.OrderedProperties() {
		subSchema := s.Properties[sub]
		switch {
		case isListField(subSchema, ctx):
			b.WriteString(r.RenderList(sub, subSchema, ctx.ValueOf(sub), ctx))
		case isObjectField(subSchema, ctx):
			b.WriteString(r.renderObject(sub, subSchema, ctx))
		default:
			b.WriteString(r.RenderField(sub, subSchema, ctx.ValueOf(sub), ctx.ErrorOf(sub), s.IsRequired(sub), ctx))
		}
	}
	return b.String()
}

func selectFields(meta *catalog.Metadata, names []string) []catalog.Field {
	fields := make([]catalog.Field, 0, len(meta.Fields))
	fields = append(fields, meta.LayoutFields...)
	fields = append(fields, meta.DataFields...)
	if len(meta.LayoutFields) == 0 && len(meta.DataFields) == 0 {
		fields = append(fields, meta.Fields...)
	}
	if len(names) == 0 {
		return orderedLike(meta, fields)
	}

	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}
	subset := make([]catalog.Field, 0, len(names))
	for _, field := range orderedLike(meta, fields) {
		if keep[field.Name] {
			subset = append(subset, field)
		}
	}
	return subset
}

// orderedLike restores the catalog field order after the layout/data split.
func orderedLike(meta *catalog.Metadata, fields []catalog.Field) []catalog.Field {
	position := make(map[string]int, len(meta.Fields))
	for i, field := range meta.Fields {
		position[field.Name] = i
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return position[fields[i].Name] < position[fields[j].Name]
	})
	return fields
}

func renderErrorSummary(meta *catalog.Metadata, errors map[string]string) string {
	names := make([]string, 0, len(errors))
	for name := range errors {
		names = append(names, name)
	}
	position := make(map[string]int, len(meta.Fields))
	for i, field := range meta.Fields {
		position[field.Name] = i
	}
	sort.SliceStable(names, func(i, j int) bool {
		pi, iOK := position[names[i]]
		pj, jOK := position[names[j]]
		if iOK != jOK {
			return iOK
		}
		if iOK && jOK && pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})

	var b strings.Builder
	b.WriteString("  <div class=\"error-summary\" role=\"alert\">\n")
	b.WriteString("    <ul>\n")
	for _, name := range names {
		label := HumanizeName(name)
		if field, ok := meta.Field(name); ok {
			label = fieldLabel(name, field.Schema)
		}
		b.WriteString(fmt.Sprintf("      <li><a href=\"#%s\">%s</a>: %s</li>\n",
			html.EscapeString(fieldID(name)), html.EscapeString(label), html.EscapeString(errors[name])))
	}
	b.WriteString("    </ul>\n")
	b.WriteString("  </div>\n")
	return b.String()
}

func submitMethod(method string) (string, string) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "", "POST":
		return "post", ""
	case "GET":
		return "get", ""
	case "PUT":
		return "post", "PUT"
	case "PATCH":
		return "post", "PATCH"
	case "DELETE":
		return "post", "DELETE"
	default:
		return "post", strings.ToUpper(strings.TrimSpace(method))
	}
}
