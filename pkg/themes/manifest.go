package themes

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schemaform/pkg/render"
)

// BootstrapManifest describes the bootstrap theme for manifest-driven
// selection: design tokens plus the CDN assets the markup expects.
func BootstrapManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "bootstrap",
		Version: "5.3.0",
		Tokens: map[string]string{
			"primary": "#0d6efd",
			"danger":  "#dc3545",
			"radius":  "0.375rem",
		},
		Assets: theme.Assets{
			Prefix: "https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist",
			Files: map[string]string{
				"stylesheet": "css/bootstrap.min.css",
				"script":     "js/bootstrap.bundle.min.js",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"primary": "#6ea8fe",
				},
			},
		},
	}
}

// MaterialManifest describes the material theme.
func MaterialManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "material",
		Version: "1.0.0",
		Tokens: map[string]string{
			"primary": "#26a69a",
			"danger":  "#f44336",
		},
		Assets: theme.Assets{
			Prefix: "https://cdnjs.cloudflare.com/ajax/libs/materialize/1.0.0",
			Files: map[string]string{
				"stylesheet": "css/materialize.min.css",
				"script":     "js/materialize.min.js",
			},
		},
	}
}

// ManifestSelector resolves theme name and variant pairs against registered
// manifests. It implements the go-theme selector contract.
type ManifestSelector struct {
	manifests map[string]*theme.Manifest
	fallback  string
}

// NewManifestSelector validates each manifest through a go-theme registry
// and indexes it for selection. The first manifest is the fallback.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	registry := theme.NewRegistry()
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("themes: register manifest %q: %w", m.Name, err)
		}
		if s.fallback == "" {
			s.fallback = m.Name
		}
		s.manifests[m.Name] = m
	}
	if len(s.manifests) == 0 {
		return nil, fmt.Errorf("themes: at least one manifest is required")
	}
	return s, nil
}

// DefaultSelector returns a selector over the built-in manifests.
func DefaultSelector() *ManifestSelector {
	s, err := NewManifestSelector(BootstrapManifest(), MaterialManifest())
	if err != nil {
		panic(err)
	}
	return s
}

// Select resolves a theme selection. Unknown names fall back to the first
// registered manifest; an unknown variant on a known theme is an error.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s.manifests[strings.TrimSpace(name)]
	if !ok {
		manifest = s.manifests[s.fallback]
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("themes: theme %q has no variant %q", manifest.Name, variant)
		}
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// RendererConfig flattens a selection into the per-render theme config:
// variant tokens and templates override the base ones, tokens become CSS
// custom properties, and asset keys resolve against the manifest prefix.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := mergeStringMaps(manifest.Tokens, nil)
	partials := mergeStringMaps(manifest.Templates, nil)
	files := mergeStringMaps(manifest.Assets.Files, nil)
	if selection.Variant != "" {
		if variant, ok := manifest.Variants[selection.Variant]; ok {
			tokens = mergeStringMaps(tokens, variant.Tokens)
			partials = mergeStringMaps(partials, variant.Templates)
			files = mergeStringMaps(files, variant.Assets.Files)
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
	assetURL := func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetURL,
	}
}

// Decorate wraps a theme so its stylesheet and script fragments carry the
// manifest assets and a :root block with the token CSS variables.
func Decorate(base render.Theme, cfg *theme.RendererConfig) render.Theme {
	if cfg == nil {
		return base
	}
	return &decoratedTheme{base: base, cfg: cfg}
}

type decoratedTheme struct {
	base render.Theme
	cfg  *theme.RendererConfig
}

func (d *decoratedTheme) Name() string                  { return d.base.Name() }
func (d *decoratedTheme) InputClass(kind string) string { return d.base.InputClass(kind) }
func (d *decoratedTheme) WrapField(field render.WrappedField) string {
	return d.base.WrapField(field)
}
func (d *decoratedTheme) TabContainer(id string, tabs []render.Tab) string {
	return d.base.TabContainer(id, tabs)
}
func (d *decoratedTheme) Accordion(id string, sections []render.Section) string {
	return d.base.Accordion(id, sections)
}
func (d *decoratedTheme) ListContainer(list render.ListChrome) string {
	return d.base.ListContainer(list)
}

func (d *decoratedTheme) Stylesheets() []string {
	out := append([]string(nil), d.base.Stylesheets()...)
	if d.cfg.AssetURL != nil {
		if href := d.cfg.AssetURL("stylesheet"); href != "" {
			out = append(out, fmt.Sprintf(`<link rel="stylesheet" href="%s">`, href))
		}
	}
	if style := cssVarsStyle(d.cfg.CSSVars); style != "" {
		out = append(out, "<style>\n"+style+"\n</style>")
	}
	return out
}

func (d *decoratedTheme) Scripts() []string {
	out := append([]string(nil), d.base.Scripts()...)
	if d.cfg.AssetURL != nil {
		if src := d.cfg.AssetURL("script"); src != "" {
			out = append(out, fmt.Sprintf(`<script src="%s"></script>`, src))
		}
	}
	return out
}

// ConfigJSON serializes the selection for embedding in rendered pages.
func ConfigJSON(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return ""
	}
	payload := struct {
		Name    string            `json:"name,omitempty"`
		Variant string            `json:"variant,omitempty"`
		Tokens  map[string]string `json:"tokens,omitempty"`
		CSSVars map[string]string `json:"cssVars,omitempty"`
	}{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cfg.CSSVars,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func mergeStringMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
