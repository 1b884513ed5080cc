package themes

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/render"
)

// materialTheme renders Materialize-style markup: input-field wrappers,
// helper-text hints, and the tabs/collapsible components.
type materialTheme struct{}

// Material returns the Material design theme.
func Material() render.Theme {
	return materialTheme{}
}

func (materialTheme) Name() string { return "material" }

func (materialTheme) InputClass(kind string) string {
	switch kind {
	case render.KindCheckbox, render.KindRadio:
		return "filled-in"
	case render.KindTextarea:
		return "materialize-textarea"
	case render.KindSelect:
		return "browser-default"
	default:
		return "validate"
	}
}

func (materialTheme) WrapField(field render.WrappedField) string {
	var b strings.Builder
	b.Grow(len(field.Control) + 320)

	wrapper := "input-field"
	if field.Class != "" {
		wrapper += " " + field.Class
	}
	b.WriteString(`<div class="` + html.EscapeString(wrapper) + "\">\n")

	control := field.Control
	if field.Error != "" {
		control = markControlInvalid(control)
	}
	writeControlLines(&b, control)

	if field.Label != "" && !field.HideLabel {
		b.WriteString(`    <label class="active" for="` + html.EscapeString(field.ID) + `">`)
		if field.Icon != "" {
			b.WriteString(field.Icon)
			b.WriteByte(' ')
		}
		b.WriteString(html.EscapeString(field.Label))
		if field.Required {
			b.WriteString(` <span class="red-text">*</span>`)
		}
		b.WriteString("</label>\n")
	}

	if field.Help != "" || field.Error != "" {
		b.WriteString(`    <span class="helper-text"`)
		if field.Error != "" {
			b.WriteString(` data-error="` + html.EscapeString(field.Error) + `"`)
		}
		b.WriteByte('>')
		if field.Error != "" {
			b.WriteString(`<span class="red-text">` + html.EscapeString(field.Error) + `</span>`)
		} else {
			b.WriteString(html.EscapeString(field.Help))
		}
		b.WriteString("</span>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func (materialTheme) TabContainer(id string, tabs []render.Tab) string {
	var b strings.Builder
	escID := html.EscapeString(id)
	b.WriteString(fmt.Sprintf("<div id=\"%s\">\n", escID))
	b.WriteString("  <ul class=\"tabs\">\n")
	for _, tab := range tabs {
		linkClass := ""
		if tab.Active {
			linkClass = ` class="active"`
		}
		b.WriteString(fmt.Sprintf("    <li class=\"tab\"><a href=\"#%s\"%s>%s</a></li>\n",
			html.EscapeString(tab.ID), linkClass, html.EscapeString(tab.Title)))
	}
	b.WriteString("  </ul>\n")
	for _, tab := range tabs {
		b.WriteString(fmt.Sprintf("  <div id=\"%s\" class=\"col s12\">\n", html.EscapeString(tab.ID)))
		writeControlLines(&b, tab.Content)
		b.WriteString("  </div>\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}

func (materialTheme) Accordion(id string, sections []render.Section) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<ul class=\"collapsible\" id=\"%s\">\n", html.EscapeString(id)))
	for _, section := range sections {
		itemClass := ""
		if section.Open {
			itemClass = ` class="active"`
		}
		b.WriteString(fmt.Sprintf("  <li%s id=\"%s\">\n", itemClass, html.EscapeString(section.ID)))
		b.WriteString("    <div class=\"collapsible-header\">" + html.EscapeString(section.Title) + "</div>\n")
		b.WriteString("    <div class=\"collapsible-body\">\n")
		writeControlLines(&b, section.Content)
		b.WriteString("    </div>\n")
		b.WriteString("  </li>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}

func (materialTheme) ListContainer(list render.ListChrome) string {
	return render.DefaultListContainer(list, "collection-list", "collection-item", "btn-small waves-effect")
}

func (materialTheme) Scripts() []string     { return nil }
func (materialTheme) Stylesheets() []string { return nil }
