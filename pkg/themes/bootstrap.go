package themes

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/render"
)

// bootstrapTheme renders Bootstrap 5 markup: form-control inputs, floating
// validation feedback, nav-tabs, and the stock accordion component.
type bootstrapTheme struct{}

// Bootstrap returns the Bootstrap 5 theme.
func Bootstrap() render.Theme {
	return bootstrapTheme{}
}

func (bootstrapTheme) Name() string { return "bootstrap" }

func (bootstrapTheme) InputClass(kind string) string {
	switch kind {
	case render.KindCheckbox, render.KindRadio:
		return "form-check-input"
	case render.KindSelect:
		return "form-select"
	case render.KindColor:
		return "form-control form-control-color"
	default:
		return "form-control"
	}
}

func (t bootstrapTheme) WrapField(field render.WrappedField) string {
	var b strings.Builder
	b.Grow(len(field.Control) + 320)

	wrapper := "mb-3"
	if field.Kind == render.KindCheckbox {
		wrapper = "mb-3 form-check"
	}
	if field.Class != "" {
		wrapper += " " + field.Class
	}
	b.WriteString(`<div class="` + html.EscapeString(wrapper) + "\">\n")

	control := field.Control
	if field.Error != "" {
		control = markControlInvalid(control)
	}

	label := t.labelMarkup(field)
	if field.Kind == render.KindCheckbox {
		writeControlLines(&b, control)
		if label != "" {
			b.WriteString("    " + label + "\n")
		}
	} else {
		if label != "" {
			b.WriteString("    " + label + "\n")
		}
		writeControlLines(&b, control)
	}

	if field.Help != "" {
		b.WriteString(`    <div class="form-text">` + html.EscapeString(field.Help) + "</div>\n")
	}
	if field.Error != "" {
		b.WriteString(`    <div class="invalid-feedback">` + html.EscapeString(field.Error) + "</div>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func (bootstrapTheme) labelMarkup(field render.WrappedField) string {
	if field.Label == "" || field.HideLabel {
		return ""
	}
	class := "form-label"
	if field.Kind == render.KindCheckbox {
		class = "form-check-label"
	}
	var b strings.Builder
	b.WriteString(`<label class="` + class + `" for="` + html.EscapeString(field.ID) + `">`)
	if field.Icon != "" {
		b.WriteString(field.Icon)
		b.WriteByte(' ')
	}
	b.WriteString(html.EscapeString(field.Label))
	if field.Required {
		b.WriteString(` <span class="text-danger">*</span>`)
	}
	b.WriteString("</label>")
	return b.String()
}

func (bootstrapTheme) TabContainer(id string, tabs []render.Tab) string {
	var b strings.Builder
	escID := html.EscapeString(id)
	b.WriteString(fmt.Sprintf("<div id=\"%s\">\n", escID))

	b.WriteString("  <ul class=\"nav nav-tabs\" role=\"tablist\">\n")
	for _, tab := range tabs {
		linkClass := "nav-link"
		selected := "false"
		if tab.Active {
			linkClass += " active"
			selected = "true"
		}
		b.WriteString(fmt.Sprintf("    <li class=\"nav-item\" role=\"presentation\">\n"))
		b.WriteString(fmt.Sprintf("      <button type=\"button\" class=\"%s\" data-bs-toggle=\"tab\" data-bs-target=\"#%s\" role=\"tab\" aria-selected=\"%s\">",
			linkClass, html.EscapeString(tab.ID), selected))
		if tab.Icon != "" {
			b.WriteString(tab.Icon)
			b.WriteByte(' ')
		}
		b.WriteString(html.EscapeString(tab.Title))
		b.WriteString("</button>\n")
		b.WriteString("    </li>\n")
	}
	b.WriteString("  </ul>\n")

	b.WriteString("  <div class=\"tab-content\">\n")
	for _, tab := range tabs {
		paneClass := "tab-pane fade"
		if tab.Active {
			paneClass += " show active"
		}
		b.WriteString(fmt.Sprintf("    <div class=\"%s\" id=\"%s\" role=\"tabpanel\">\n", paneClass, html.EscapeString(tab.ID)))
		writeControlLines(&b, tab.Content)
		b.WriteString("    </div>\n")
	}
	b.WriteString("  </div>\n")
	b.WriteString("</div>\n")
	return b.String()
}

func (bootstrapTheme) Accordion(id string, sections []render.Section) string {
	var b strings.Builder
	escID := html.EscapeString(id)
	b.WriteString(fmt.Sprintf("<div class=\"accordion\" id=\"%s\">\n", escID))
	for _, section := range sections {
		buttonClass := "accordion-button"
		bodyClass := "accordion-collapse collapse"
		expanded := "false"
		if section.Open {
			bodyClass += " show"
			expanded = "true"
		} else {
			buttonClass += " collapsed"
		}
		secID := html.EscapeString(section.ID)
		b.WriteString("  <div class=\"accordion-item\">\n")
		b.WriteString(fmt.Sprintf("    <h2 class=\"accordion-header\">\n"))
		b.WriteString(fmt.Sprintf("      <button type=\"button\" class=\"%s\" data-bs-toggle=\"collapse\" data-bs-target=\"#%s\" aria-expanded=\"%s\">%s</button>\n",
			buttonClass, secID, expanded, html.EscapeString(section.Title)))
		b.WriteString("    </h2>\n")
		b.WriteString(fmt.Sprintf("    <div class=\"%s\" id=\"%s\" data-bs-parent=\"#%s\">\n", bodyClass, secID, escID))
		b.WriteString("      <div class=\"accordion-body\">\n")
		writeControlLines(&b, section.Content)
		b.WriteString("      </div>\n")
		b.WriteString("    </div>\n")
		b.WriteString("  </div>\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}

func (bootstrapTheme) ListContainer(list render.ListChrome) string {
	return render.DefaultListContainer(list, "form-list", "card card-body mb-2", "btn btn-outline-primary btn-sm")
}

func (bootstrapTheme) Scripts() []string     { return nil }
func (bootstrapTheme) Stylesheets() []string { return nil }

// markControlInvalid appends Bootstrap's is-invalid class to the first class
// attribute of the control fragment.
func markControlInvalid(control string) string {
	const marker = `class="`
	idx := strings.Index(control, marker)
	if idx < 0 {
		return control
	}
	insert := idx + len(marker)
	return control[:insert] + "is-invalid " + control[insert:]
}

func writeControlLines(b *strings.Builder, content string) {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
