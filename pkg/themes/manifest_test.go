package themes

import (
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
)

func TestManifestSelector_SelectAndFallback(t *testing.T) {
	selector := DefaultSelector()

	selection, err := selector.Select("material", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != "material" || selection.Manifest == nil {
		t.Fatalf("unexpected selection: %+v", selection)
	}

	fallback, err := selector.Select("unknown", "")
	if err != nil {
		t.Fatalf("select fallback: %v", err)
	}
	if fallback.Theme != "bootstrap" {
		t.Errorf("expected fallback to first manifest, got %q", fallback.Theme)
	}

	if _, err := selector.Select("bootstrap", "nope"); err == nil {
		t.Errorf("expected error for unknown variant")
	}
}

func TestRendererConfig_VariantOverrides(t *testing.T) {
	selector := DefaultSelector()
	selection, err := selector.Select("bootstrap", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	cfg := RendererConfig(selection)
	if cfg == nil {
		t.Fatal("expected renderer config")
	}
	if cfg.Tokens["primary"] != "#6ea8fe" {
		t.Errorf("variant token should win, got %q", cfg.Tokens["primary"])
	}
	if cfg.Tokens["danger"] != "#dc3545" {
		t.Errorf("base token should survive, got %q", cfg.Tokens["danger"])
	}
	if cfg.CSSVars["--primary"] != "#6ea8fe" {
		t.Errorf("css var not derived, got %q", cfg.CSSVars["--primary"])
	}
	if got := cfg.AssetURL("stylesheet"); got != "https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css" {
		t.Errorf("unexpected stylesheet url: %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Errorf("unknown asset should resolve empty, got %q", got)
	}
}

func TestDecorate_AddsAssetsAndCSSVars(t *testing.T) {
	selection, err := DefaultSelector().Select("bootstrap", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	decorated := Decorate(Bootstrap(), RendererConfig(selection))

	sheets := strings.Join(decorated.Stylesheets(), "\n")
	if !strings.Contains(sheets, `<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css">`) {
		t.Errorf("expected stylesheet link:\n%s", sheets)
	}
	if !strings.Contains(sheets, "--primary: #0d6efd;") {
		t.Errorf("expected css vars block:\n%s", sheets)
	}

	scripts := strings.Join(decorated.Scripts(), "\n")
	if !strings.Contains(scripts, "bootstrap.bundle.min.js") {
		t.Errorf("expected script tag:\n%s", scripts)
	}

	if decorated.Name() != "bootstrap" {
		t.Errorf("decoration must not change the theme name")
	}
}

func TestConfigJSON(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "bootstrap",
		Variant: "dark",
		Tokens:  map[string]string{"primary": "#6ea8fe"},
	}
	payload := ConfigJSON(cfg)
	for _, want := range []string{`"name":"bootstrap"`, `"variant":"dark"`, `"primary":"#6ea8fe"`} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q: %s", want, payload)
		}
	}
	if ConfigJSON(nil) != "" {
		t.Errorf("nil config should serialize empty")
	}
}

func TestNewManifestSelector_RequiresManifest(t *testing.T) {
	if _, err := NewManifestSelector(); err == nil {
		t.Errorf("expected error for empty manifest list")
	}
	if _, err := NewManifestSelector(nil); err == nil {
		t.Errorf("expected error when only nil manifests given")
	}
}
