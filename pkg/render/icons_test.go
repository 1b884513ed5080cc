package render

import (
	"strings"
	"testing"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

func TestSanitizeIcon(t *testing.T) {
	svg := `<svg viewBox="0 0 24 24"><path d="M4 4h16"/></svg>`
	if got := SanitizeIcon(svg); !strings.Contains(got, `<path d="M4 4h16"`) {
		t.Errorf("expected svg to survive, got %q", got)
	}

	dirty := `<svg onload="alert(1)"><script>alert(2)</script><path d="M0 0"/></svg>`
	got := SanitizeIcon(dirty)
	if strings.Contains(got, "onload") || strings.Contains(got, "script") {
		t.Errorf("expected scripts stripped, got %q", got)
	}
	if !strings.Contains(got, `<path d="M0 0"`) {
		t.Errorf("expected path kept, got %q", got)
	}

	if got := SanitizeIcon(`<img src=x onerror=alert(1)>`); got != "" {
		t.Errorf("expected non-svg markup removed, got %q", got)
	}
	if got := SanitizeIcon("   "); got != "" {
		t.Errorf("expected blank input to return empty, got %q", got)
	}
}

func TestRenderField_IconSanitizedInLabel(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := &schema.Schema{
		Type: schema.TypeString,
		UI: &schema.UIHints{
			Icon: `<svg viewBox="0 0 24 24"><path d="M4 4h16"/></svg><script>alert(1)</script>`,
		},
	}
	out := r.RenderField("name", s, nil, "", false, NewContext())
	if !strings.Contains(out, "<svg") {
		t.Errorf("expected icon in label:\n%s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("icon script must be stripped:\n%s", out)
	}
}
