package render

import (
	"strings"
	"testing"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

func strSchema(mutate func(*schema.Schema)) *schema.Schema {
	s := &schema.Schema{Type: schema.TypeString}
	if mutate != nil {
		mutate(s)
	}
	return s
}

func TestRenderField_TextControl(t *testing.T) {
	r := NewFieldRenderer(nil)
	minLen := 3
	maxLen := 40
	s := strSchema(func(s *schema.Schema) {
		s.Title = "Full Name"
		s.MinLength = &minLen
		s.MaxLength = &maxLen
	})

	out := r.RenderField("full_name", s, "Ada", "", true, NewContext())

	for _, want := range []string{
		`<input`,
		`type="text"`,
		`name="full_name"`,
		`id="field-full_name"`,
		`value="Ada"`,
		`minlength="3"`,
		`maxlength="40"`,
		` required`,
		`<label for="field-full_name">Full Name <span class="required">*</span></label>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderField_LabelFallsBackToHumanizedName(t *testing.T) {
	r := NewFieldRenderer(nil)
	out := r.RenderField("first_name", strSchema(nil), nil, "", false, NewContext())
	if !strings.Contains(out, ">First Name</label>") {
		t.Errorf("expected humanized label, got:\n%s", out)
	}
}

func TestRenderField_EmailKindFromName(t *testing.T) {
	r := NewFieldRenderer(nil)
	out := r.RenderField("contact_email", strSchema(nil), nil, "", false, NewContext())
	if !strings.Contains(out, `type="email"`) {
		t.Errorf("expected email input, got:\n%s", out)
	}
}

func TestRenderField_ExplicitHintWinsOverHeuristics(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := strSchema(func(s *schema.Schema) {
		s.UI = &schema.UIHints{InputType: "hidden"}
	})
	out := r.RenderField("contact_email", s, "x@y.io", "", false, NewContext())
	if !strings.Contains(out, `type="hidden"`) {
		t.Errorf("expected hidden input, got:\n%s", out)
	}
	if strings.Contains(out, "<label") {
		t.Errorf("hidden inputs must not carry field chrome:\n%s", out)
	}
}

func TestRenderField_CheckboxChecked(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := &schema.Schema{Type: schema.TypeBoolean}

	checked := r.RenderField("active", s, true, "", false, NewContext())
	if !strings.Contains(checked, " checked") {
		t.Errorf("expected checked attribute, got:\n%s", checked)
	}

	unchecked := r.RenderField("active", s, false, "", false, NewContext())
	if strings.Contains(unchecked, " checked") {
		t.Errorf("unexpected checked attribute:\n%s", unchecked)
	}

	fromString := r.RenderField("active", s, "on", "", false, NewContext())
	if !strings.Contains(fromString, " checked") {
		t.Errorf("expected checkbox truthy coercion for %q:\n%s", "on", fromString)
	}
}

func TestRenderField_SelectFromEnum(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := strSchema(func(s *schema.Schema) {
		s.Enum = []any{"draft", "published", "archived"}
	})

	out := r.RenderField("status", s, "published", "", true, NewContext())
	if !strings.Contains(out, "<select") {
		t.Fatalf("expected select control:\n%s", out)
	}
	if !strings.Contains(out, `<option value="published" selected>published</option>`) {
		t.Errorf("expected current value selected:\n%s", out)
	}
	if strings.Contains(out, `<option value=""></option>`) {
		t.Errorf("required select must not include blank option:\n%s", out)
	}

	optional := r.RenderField("status", s, nil, "", false, NewContext())
	if !strings.Contains(optional, `<option value=""></option>`) {
		t.Errorf("optional select needs a blank option:\n%s", optional)
	}
}

func TestRenderField_SelectWithRecordChoices(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := strSchema(func(s *schema.Schema) {
		s.UI = &schema.UIHints{Choices: []any{
			map[string]any{"id": 1, "label": "One"},
			map[string]any{"value": "2", "label": "Two"},
			[]any{"3", "Three"},
		}}
	})

	out := r.RenderField("pick", s, 2, "", false, NewContext())
	for _, want := range []string{
		`<option value="1">One</option>`,
		`<option value="2" selected>Two</option>`,
		`<option value="3">Three</option>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderField_EmptySelectWarns(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := strSchema(func(s *schema.Schema) {
		s.UI = &schema.UIHints{Element: "select"}
	})
	out := r.RenderField("status", s, nil, "", false, NewContext())
	if !strings.Contains(out, "has no options to select from") {
		t.Errorf("expected inline warning for empty select:\n%s", out)
	}
}

func TestRenderField_UnknownKindFallsBackToText(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := strSchema(func(s *schema.Schema) {
		s.UI = &schema.UIHints{Element: "starfield"}
	})
	out := r.RenderField("sky", s, nil, "", false, NewContext())
	if !strings.Contains(out, `unknown input kind "starfield"`) {
		t.Errorf("expected fallback comment:\n%s", out)
	}
	if !strings.Contains(out, `type="text"`) {
		t.Errorf("expected text fallback:\n%s", out)
	}
}

func TestRenderField_UnresolvedRefDiagnostic(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := &schema.Schema{Ref: "#/$defs/Missing"}
	out := r.RenderField("owner", s, nil, "", false, NewContext())
	if !strings.Contains(out, "render-error") || !strings.Contains(out, "unresolved reference") {
		t.Errorf("expected diagnostic for unresolved ref:\n%s", out)
	}
}

func TestRenderField_ResolvesRefThroughContext(t *testing.T) {
	r := NewFieldRenderer(nil)
	ctx := NewContext()
	ctx.Defs = map[string]*schema.Schema{
		"Email": strSchema(func(s *schema.Schema) { s.Format = "email" }),
	}
	out := r.RenderField("owner", &schema.Schema{Ref: "#/$defs/Email"}, nil, "", false, ctx)
	if !strings.Contains(out, `type="email"`) {
		t.Errorf("expected ref resolution to email control:\n%s", out)
	}
}

func TestRenderField_ErrorAndHelpChrome(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := strSchema(func(s *schema.Schema) {
		s.UI = &schema.UIHints{HelpText: "Shown on your profile"}
	})

	out := r.RenderField("bio", s, nil, "This field is required", false, NewContext())
	if !strings.Contains(out, "has-error") {
		t.Errorf("expected error class on wrapper:\n%s", out)
	}
	if !strings.Contains(out, `<div class="error-message">This field is required</div>`) {
		t.Errorf("expected error message block:\n%s", out)
	}
	if !strings.Contains(out, `<small class="help-text">Shown on your profile</small>`) {
		t.Errorf("expected help text block:\n%s", out)
	}
	if !strings.Contains(out, "<textarea") {
		t.Errorf("narrative name should render a textarea:\n%s", out)
	}
}

func TestRenderField_TextareaEscapesValue(t *testing.T) {
	r := NewFieldRenderer(nil)
	out := r.RenderField("notes", strSchema(nil), `<script>alert("x")</script>`, "", false, NewContext())
	if strings.Contains(out, "<script>alert") {
		t.Fatalf("value must be escaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped value:\n%s", out)
	}
}

func TestRenderField_LiveAttrsInjected(t *testing.T) {
	r := NewFieldRenderer(nil)
	ctx := NewContext()
	ctx.LiveAttrs = func(field string) string {
		return `hx-post="/validate/` + field + `" hx-trigger="blur"`
	}
	out := r.RenderField("email", strSchema(nil), nil, "", false, ctx)
	if !strings.Contains(out, `hx-post="/validate/email"`) {
		t.Errorf("expected live validation attributes:\n%s", out)
	}
	if !strings.Contains(out, `hx-trigger="blur"`) {
		t.Errorf("expected live trigger attribute:\n%s", out)
	}
}

func TestRenderField_TranslatedHints(t *testing.T) {
	r := NewFieldRenderer(nil)
	ctx := NewContext()
	ctx.Locale = "es"
	ctx.Translator = MapTranslator{
		"es": {
			"fields.name.label":       "Nombre",
			"fields.name.placeholder": "Su nombre",
		},
	}

	s := strSchema(func(s *schema.Schema) {
		s.Title = "Name"
		s.UI = &schema.UIHints{Attrs: map[string]string{
			"label_key":       "fields.name.label",
			"placeholder_key": "fields.name.placeholder",
		}}
	})
	out := r.RenderField("name", s, nil, "", false, ctx)
	if !strings.Contains(out, ">Nombre</label>") {
		t.Errorf("expected translated label:\n%s", out)
	}
	if !strings.Contains(out, `placeholder="Su nombre"`) {
		t.Errorf("expected translated placeholder:\n%s", out)
	}
	if strings.Contains(out, "label_key") {
		t.Errorf("hint keys must not leak into markup:\n%s", out)
	}
}

func TestRenderField_MissingTranslationFallsBack(t *testing.T) {
	r := NewFieldRenderer(nil)
	var missed []string
	ctx := NewContext()
	ctx.Locale = "fr"
	ctx.Translator = MapTranslator{"fr": {}}
	ctx.OnMissing = func(_, key, _ string, _ error) {
		missed = append(missed, key)
	}

	s := strSchema(func(s *schema.Schema) {
		s.Title = "Name"
		s.UI = &schema.UIHints{Attrs: map[string]string{"label_key": "fields.name.label"}}
	})
	out := r.RenderField("name", s, nil, "", false, ctx)
	if !strings.Contains(out, ">Name</label>") {
		t.Errorf("expected fallback label:\n%s", out)
	}
	if len(missed) != 1 || missed[0] != "fields.name.label" {
		t.Errorf("expected missing-translation callback, got %v", missed)
	}
}

func TestKindRegistry_CustomMatcherPriority(t *testing.T) {
	r := NewFieldRenderer(nil)
	r.Kinds().Register(KindColor, 200, func(name string, _ *schema.Schema) bool {
		return strings.HasSuffix(name, "_tint")
	})
	out := r.RenderField("banner_tint", strSchema(nil), nil, "", false, NewContext())
	if !strings.Contains(out, `type="color"`) {
		t.Errorf("expected custom matcher to win:\n%s", out)
	}
}

func TestHumanizeName(t *testing.T) {
	cases := map[string]string{
		"first_name":         "First Name",
		"email":              "Email",
		"addresses[0].city":  "City",
		"profile.birth_date": "Birth Date",
	}
	for input, want := range cases {
		if got := HumanizeName(input); got != want {
			t.Errorf("HumanizeName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRenderField_VisibleWhenHidesField(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := strSchema(func(s *schema.Schema) {
		s.UI = &schema.UIHints{Attrs: map[string]string{"visible_when": `plan == "premium"`}}
	})

	ctx := NewContext()
	ctx.Values = map[string]any{"plan": "free"}
	ctx.Visibility = func(rule string, values map[string]any) bool {
		return values["plan"] == "premium"
	}
	out := r.RenderField("discount_code", s, nil, "", false, ctx)
	if !strings.Contains(out, `data-visible-when="plan == &#34;premium&#34;"`) {
		t.Errorf("missing visibility container:\n%s", out)
	}
	if !strings.Contains(out, `style="display: none"`) {
		t.Errorf("failing rule should hide the field:\n%s", out)
	}
	if strings.Contains(out, `visible_when=`) {
		t.Errorf("rule must not leak onto the control:\n%s", out)
	}

	ctx.Values = map[string]any{"plan": "premium"}
	out = r.RenderField("discount_code", s, nil, "", false, ctx)
	if strings.Contains(out, "display: none") {
		t.Errorf("passing rule should leave the field visible:\n%s", out)
	}
}

func TestRenderField_VisibleWhenWithoutEvaluator(t *testing.T) {
	r := NewFieldRenderer(nil)
	s := strSchema(func(s *schema.Schema) {
		s.UI = &schema.UIHints{Attrs: map[string]string{"visible_when": "false"}}
	})
	out := r.RenderField("notes", s, nil, "", false, NewContext())
	if !strings.Contains(out, `data-visible-when="false"`) {
		t.Errorf("container attribute missing:\n%s", out)
	}
	if strings.Contains(out, "display: none") {
		t.Errorf("without an evaluator the server leaves fields visible:\n%s", out)
	}
}
