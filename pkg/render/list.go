package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// indexPlaceholder marks where the client-side script injects the entry
// index when cloning the item template.
const indexPlaceholder = "__INDEX__"

// RenderList renders a repeatable model list: one block per current entry,
// padded with empty entries up to the minimum count, capped at the maximum,
// plus a template and add button when more entries are allowed.
func (r *FieldRenderer) RenderList(name string, s *schema.Schema, value any, ctx *Context) string {
	if s == nil || s.Items == nil {
		return renderDiagnostic(name, "list field has no item schema")
	}
	if ctx == nil {
		ctx = NewContext()
	}

	item := s.Items
	if item.Ref != "" {
		resolved := ctx.ResolveDef(item.Ref)
		if resolved == nil {
			return renderDiagnostic(name, fmt.Sprintf("unresolved reference %q", item.Ref))
		}
		item = resolved
	}

	hints := s.Hints()
	minItems := intOrZero(s.MinItems, hints.MinItems)
	maxItems := intOrZero(s.MaxItems, hints.MaxItems)

	values := ValueList(value)
	if minItems > 0 && len(values) < minItems {
		padded := make([]any, minItems)
		copy(padded, values)
		values = padded
	}
	if maxItems > 0 && len(values) > maxItems {
		values = values[:maxItems]
	}

	items := make([]string, 0, len(values))
	for i, entry := range values {
		items = append(items, r.renderListItem(name, i, item, entry, ctx))
	}

	canAdd := maxItems == 0 || len(values) < maxItems
	template := ""
	if canAdd {
		template = r.renderItemTemplate(name, item, ctx)
	}

	return ctx.ActiveTheme().ListContainer(ListChrome{
		Name:     name,
		Label:    fieldLabel(name, s),
		Items:    items,
		Template: template,
		CanAdd:   canAdd,
		MinItems: minItems,
		MaxItems: maxItems,
	})
}

// renderListItem renders the fields of one entry, names prefixed with the
// indexed path so submission parsing can rebuild the list.
func (r *FieldRenderer) renderListItem(name string, index int, item *schema.Schema, value any, ctx *Context) string {
	prefix := fmt.Sprintf("%s[%d]", name, index)

	if item.Type != schema.TypeObject || len(item.Properties) == 0 {
		errMsg := itemError(ctx, name, index, "")
		return r.RenderField(prefix, item, value, errMsg, false, ctx)
	}

	entryValues, _ := ValueMap(value)
	var b strings.Builder
	for _, sub := range item.OrderedProperties() {
		subSchema := item.Properties[sub]
		fullName := prefix + "." + sub
		b.WriteString(r.RenderField(fullName, subSchema, entryValues[sub], itemError(ctx, name, index, sub), item.IsRequired(sub), ctx))
	}
	return b.String()
}

// renderItemTemplate renders an empty entry with the index placeholder in
// every name, for the add script to clone.
func (r *FieldRenderer) renderItemTemplate(name string, item *schema.Schema, ctx *Context) string {
	// Errors never apply to the blank template entry.
	blank := ctx.child(nil, nil)
	prefix := fmt.Sprintf("%s[%s]", name, indexPlaceholder)

	if item.Type != schema.TypeObject || len(item.Properties) == 0 {
		return r.RenderField(prefix, item, nil, "", false, blank)
	}

	var b strings.Builder
	for _, sub := range item.OrderedProperties() {
		b.WriteString(r.RenderField(prefix+"."+sub, item.Properties[sub], nil, "", false, blank))
	}
	return b.String()
}

// itemError looks up the entry error under both path spellings submission
// handlers produce: name[i].sub and name.i.sub.
func itemError(ctx *Context, name string, index int, sub string) string {
	keys := []string{
		fmt.Sprintf("%s[%d]", name, index),
		fmt.Sprintf("%s.%d", name, index),
	}
	if sub != "" {
		keys[0] += "." + sub
		keys[1] += "." + sub
	}
	for _, key := range keys {
		if msg := ctx.ErrorOf(key); msg != "" {
			return msg
		}
	}
	return ""
}

func intOrZero(candidates ...*int) int {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}

// DefaultListContainer is the shared container markup themes build on: an
// entries block with per-entry remove buttons, a <template> for cloning, and
// an add button wired to the list script.
func DefaultListContainer(list ListChrome, containerClass, entryClass, buttonClass string) string {
	id := "list-" + fieldID(list.Name)

	var b strings.Builder
	b.Grow(512)
	b.WriteString(fmt.Sprintf("<div class=\"%s\" id=\"%s\" data-list-name=\"%s\" data-min-items=\"%d\" data-max-items=\"%d\">\n",
		containerClass, html.EscapeString(id), html.EscapeString(list.Name), list.MinItems, list.MaxItems))
	if list.Label != "" {
		b.WriteString("  <div class=\"" + containerClass + "-label\">")
		b.WriteString(html.EscapeString(list.Label))
		b.WriteString("</div>\n")
	}

	b.WriteString("  <div class=\"" + containerClass + "-entries\">\n")
	for _, item := range list.Items {
		b.WriteString("    <div class=\"" + entryClass + "\">\n")
		writeEntryBody(&b, item)
		b.WriteString("      <button type=\"button\" class=\"" + entryClass + "-remove\" onclick=\"removeListItem(this)\">Remove</button>\n")
		b.WriteString("    </div>\n")
	}
	b.WriteString("  </div>\n")

	if list.CanAdd && list.Template != "" {
		b.WriteString("  <template class=\"" + containerClass + "-template\">\n")
		b.WriteString("    <div class=\"" + entryClass + "\">\n")
		writeEntryBody(&b, list.Template)
		b.WriteString("      <button type=\"button\" class=\"" + entryClass + "-remove\" onclick=\"removeListItem(this)\">Remove</button>\n")
		b.WriteString("    </div>\n")
		b.WriteString("  </template>\n")

		addClass := containerClass + "-add"
		if buttonClass != "" {
			addClass += " " + buttonClass
		}
		b.WriteString("  <button type=\"button\" class=\"" + addClass + "\" onclick=\"addListItem(this)\">Add</button>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func writeEntryBody(b *strings.Builder, content string) {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("      ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

// ListScript returns the client-side add/remove handlers for repeatable
// lists. Include it once per page that renders a list.
func ListScript() string {
	return `<script>
function addListItem(button) {
    var container = button.closest('[data-list-name]');
    var entries = container.querySelector('[class$="-entries"]');
    var template = container.querySelector('template');
    if (!container || !entries || !template) { return; }
    var max = parseInt(container.getAttribute('data-max-items'), 10) || 0;
    var count = entries.children.length;
    if (max > 0 && count >= max) { return; }
    var markup = template.innerHTML.split('__INDEX__').join(String(count));
    var holder = document.createElement('div');
    holder.innerHTML = markup;
    while (holder.firstChild) {
        entries.appendChild(holder.firstChild);
    }
    if (max > 0 && entries.children.length >= max) {
        button.style.display = 'none';
    }
}
function removeListItem(button) {
    var container = button.closest('[data-list-name]');
    var entry = button.closest('div');
    if (!container || !entry) { return; }
    var min = parseInt(container.getAttribute('data-min-items'), 10) || 0;
    var entries = entry.parentElement;
    if (entries.children.length <= min) { return; }
    entry.remove();
    reindexListItems(container);
    var add = container.querySelector('[class*="-add"]');
    if (add) { add.style.display = ''; }
}
function reindexListItems(container) {
    var name = container.getAttribute('data-list-name');
    var entries = container.querySelector('[class$="-entries"]');
    if (!name || !entries) { return; }
    for (var i = 0; i < entries.children.length; i++) {
        var inputs = entries.children[i].querySelectorAll('[name]');
        for (var j = 0; j < inputs.length; j++) {
            inputs[j].name = inputs[j].name.replace(new RegExp('^' + name + '\\[\\d+\\]'), name + '[' + i + ']');
        }
    }
}
</script>`
}
