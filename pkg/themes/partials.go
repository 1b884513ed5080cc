package themes

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-schemaform/pkg/render"
)

// Partial hook names a template set can override.
const (
	PartialField     = "field"
	PartialTabs      = "tabs"
	PartialAccordion = "accordion"
	PartialList      = "list"
)

// PartialSet loads pongo2 templates that override individual theme hooks.
// Missing templates fall through to the wrapped theme, so a set can override
// a single hook.
type PartialSet struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	compiled  map[string]*pongo2.Template
	names     map[string]string
	extension string
}

// PartialOption configures a PartialSet.
type PartialOption func(*PartialSet)

// WithExtension changes the template file extension. Default is ".tpl".
func WithExtension(ext string) PartialOption {
	return func(p *PartialSet) {
		if strings.TrimSpace(ext) != "" {
			p.extension = ext
		}
	}
}

// WithPartialNames maps hook names to template paths, overriding the
// "<hook><ext>" convention. Manifest Partials maps plug in here.
func WithPartialNames(names map[string]string) PartialOption {
	return func(p *PartialSet) {
		for hook, path := range names {
			if strings.TrimSpace(path) != "" {
				p.names[hook] = path
			}
		}
	}
}

// NewPartialSet builds a template set over the given filesystem.
func NewPartialSet(templates fs.FS, options ...PartialOption) (*PartialSet, error) {
	if templates == nil {
		return nil, fmt.Errorf("themes: template filesystem is required")
	}
	p := &PartialSet{
		set:       pongo2.NewSet("schemaform-partials", pongo2.NewFSLoader(templates)),
		compiled:  make(map[string]*pongo2.Template),
		names:     make(map[string]string),
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Render executes the hook's template with the given data. The boolean
// reports whether a template existed for the hook.
func (p *PartialSet) Render(hook string, data map[string]any) (string, bool) {
	tmpl := p.lookup(hook)
	if tmpl == nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", false
	}
	return buf.String(), true
}

func (p *PartialSet) lookup(hook string) *pongo2.Template {
	p.mu.RLock()
	tmpl, cached := p.compiled[hook]
	p.mu.RUnlock()
	if cached {
		return tmpl
	}

	path := p.names[hook]
	if path == "" {
		path = hook + p.extension
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if tmpl, cached := p.compiled[hook]; cached {
		return tmpl
	}
	tmpl, err := p.set.FromFile(path)
	if err != nil {
		// Cache the miss so a broken template is not re-parsed per render.
		p.compiled[hook] = nil
		return nil
	}
	p.compiled[hook] = tmpl
	return tmpl
}

// Override layers a partial set over a base theme: hooks with a template use
// it, everything else delegates to the base.
func Override(base render.Theme, partials *PartialSet) render.Theme {
	if partials == nil {
		return base
	}
	if base == nil {
		base = render.PlainTheme()
	}
	return &partialTheme{base: base, partials: partials}
}

type partialTheme struct {
	base     render.Theme
	partials *PartialSet
}

func (t *partialTheme) Name() string                  { return t.base.Name() }
func (t *partialTheme) InputClass(kind string) string { return t.base.InputClass(kind) }
func (t *partialTheme) Scripts() []string             { return t.base.Scripts() }
func (t *partialTheme) Stylesheets() []string         { return t.base.Stylesheets() }

func (t *partialTheme) WrapField(field render.WrappedField) string {
	out, ok := t.partials.Render(PartialField, map[string]any{
		"name":       field.Name,
		"id":         field.ID,
		"kind":       field.Kind,
		"label":      field.Label,
		"required":   field.Required,
		"hide_label": field.HideLabel,
		"control":    field.Control,
		"help":       field.Help,
		"error":      field.Error,
		"icon":       field.Icon,
		"class":      field.Class,
	})
	if !ok {
		return t.base.WrapField(field)
	}
	return out
}

func (t *partialTheme) TabContainer(id string, tabs []render.Tab) string {
	out, ok := t.partials.Render(PartialTabs, map[string]any{
		"id":   id,
		"tabs": tabs,
	})
	if !ok {
		return t.base.TabContainer(id, tabs)
	}
	return out
}

func (t *partialTheme) Accordion(id string, sections []render.Section) string {
	out, ok := t.partials.Render(PartialAccordion, map[string]any{
		"id":       id,
		"sections": sections,
	})
	if !ok {
		return t.base.Accordion(id, sections)
	}
	return out
}

func (t *partialTheme) ListContainer(list render.ListChrome) string {
	out, ok := t.partials.Render(PartialList, map[string]any{
		"list": list,
	})
	if !ok {
		return t.base.ListContainer(list)
	}
	return out
}
