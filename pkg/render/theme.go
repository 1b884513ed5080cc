package render

import (
	"fmt"
	"html"
	"strings"
)

// WrappedField carries everything a theme needs to build the chrome around a
// rendered control.
type WrappedField struct {
	Name      string
	ID        string
	Kind      string
	Label     string
	Required  bool
	HideLabel bool
	Control   string
	Help      string
	Error     string
	Icon      string
	Class     string
}

// Tab is one pane of a tabbed layout composite.
type Tab struct {
	ID      string
	Title   string
	Icon    string
	Content string
	Active  bool
}

// Section is one pane of an accordion composite.
type Section struct {
	ID      string
	Title   string
	Content string
	Open    bool
}

// ListChrome describes a repeatable item list for composite rendering.
type ListChrome struct {
	Name     string
	Label    string
	Items    []string
	Template string
	CanAdd   bool
	MinItems int
	MaxItems int
}

// Theme supplies every visual decision the field renderer delegates:
// per-kind control classes, field chrome, and composite containers. Adding a
// CSS framework means implementing this interface, nothing else.
type Theme interface {
	Name() string

	// InputClass returns the base control class for an input kind.
	InputClass(kind string) string

	// WrapField builds the full field chrome around a control fragment.
	WrapField(field WrappedField) string

	// TabContainer, Accordion, and ListContainer render layout composites.
	TabContainer(id string, tabs []Tab) string
	Accordion(id string, sections []Section) string
	ListContainer(list ListChrome) string

	// Scripts and Stylesheets return fragments the composites depend on.
	Scripts() []string
	Stylesheets() []string
}

// plainTheme is the unstyled fallback used when no theme is configured. It
// keeps markup structural so output stays usable in tests and baseline pages.
type plainTheme struct{}

// PlainTheme returns the built-in unstyled theme.
func PlainTheme() Theme {
	return plainTheme{}
}

func (plainTheme) Name() string { return "plain" }

func (plainTheme) InputClass(kind string) string {
	switch kind {
	case "checkbox", "radio":
		return ""
	default:
		return "form-input"
	}
}

func (plainTheme) WrapField(field WrappedField) string {
	var b strings.Builder
	b.Grow(len(field.Control) + 256)

	b.WriteString(`<div class="form-field`)
	if field.Class != "" {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(field.Class))
	}
	if field.Error != "" {
		b.WriteString(" has-error")
	}
	b.WriteString("\">\n")

	if field.Label != "" && !field.HideLabel {
		b.WriteString(`    <label for="`)
		b.WriteString(html.EscapeString(field.ID))
		b.WriteString(`">`)
		if field.Icon != "" {
			b.WriteString(field.Icon)
			b.WriteByte(' ')
		}
		b.WriteString(html.EscapeString(field.Label))
		if field.Required {
			b.WriteString(` <span class="required">*</span>`)
		}
		b.WriteString("</label>\n")
	}

	writeIndented(&b, field.Control)

	if field.Help != "" {
		b.WriteString(`    <small class="help-text">`)
		b.WriteString(html.EscapeString(field.Help))
		b.WriteString("</small>\n")
	}
	if field.Error != "" {
		b.WriteString(`    <div class="error-message">`)
		b.WriteString(html.EscapeString(field.Error))
		b.WriteString("</div>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func (plainTheme) TabContainer(id string, tabs []Tab) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<div class=\"tab-container\" id=\"%s\">\n", html.EscapeString(id)))
	b.WriteString("  <div class=\"tab-nav\">\n")
	for _, tab := range tabs {
		active := ""
		if tab.Active {
			active = " active"
		}
		b.WriteString(fmt.Sprintf("    <button type=\"button\" class=\"tab-link%s\" data-tab=\"%s\">%s</button>\n",
			active, html.EscapeString(tab.ID), html.EscapeString(tab.Title)))
	}
	b.WriteString("  </div>\n")
	for _, tab := range tabs {
		display := ""
		if !tab.Active {
			display = ` style="display:none"`
		}
		b.WriteString(fmt.Sprintf("  <div class=\"tab-pane\" id=\"%s\"%s>\n", html.EscapeString(tab.ID), display))
		writeIndented(&b, tab.Content)
		b.WriteString("  </div>\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}

func (plainTheme) Accordion(id string, sections []Section) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<div class=\"accordion\" id=\"%s\">\n", html.EscapeString(id)))
	for _, section := range sections {
		openAttr := ""
		if section.Open {
			openAttr = " open"
		}
		b.WriteString(fmt.Sprintf("  <details id=\"%s\"%s>\n", html.EscapeString(section.ID), openAttr))
		b.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", html.EscapeString(section.Title)))
		writeIndented(&b, section.Content)
		b.WriteString("  </details>\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}

func (plainTheme) ListContainer(list ListChrome) string {
	return DefaultListContainer(list, "item-list", "item-list-entry", "")
}

func (plainTheme) Scripts() []string     { return nil }
func (plainTheme) Stylesheets() []string { return nil }

func writeIndented(b *strings.Builder, content string) {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
