package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

func TestAttrSet_ClassAndStyleAppend(t *testing.T) {
	attrs := NewAttrSet()
	attrs.Set("class", "form-input")
	attrs.Set("class", "wide")
	attrs.Set("style", "color: red")
	attrs.Set("style", "width: 100%")

	got := attrs.String()
	want := ` class="form-input wide" style="color: red; width: 100%"`
	if got != want {
		t.Errorf("attrs = %q, want %q", got, want)
	}
}

func TestAttrSet_DeterministicOrderAndEscaping(t *testing.T) {
	attrs := NewAttrSet()
	attrs.Set("name", `a"b`)
	attrs.Flag("required")
	attrs.Set("id", "x")

	got := attrs.String()
	want := ` id="x" name="a&#34;b" required`
	if got != want {
		t.Errorf("attrs = %q, want %q", got, want)
	}
}

func TestAttrSet_MergeEmptyValueBecomesFlag(t *testing.T) {
	attrs := NewAttrSet()
	attrs.Merge(map[string]string{"disabled": "", "data-role": "input"})

	got := attrs.String()
	want := ` data-role="input" disabled`
	if got != want {
		t.Errorf("attrs = %q, want %q", got, want)
	}
}

func TestApplyConstraints(t *testing.T) {
	minimum := 1.5
	maximum := 10.0
	minLen := 2
	s := &schema.Schema{
		Type:      schema.TypeNumber,
		Minimum:   &minimum,
		Maximum:   &maximum,
		MinLength: &minLen,
		Pattern:   "^[a-z]+",
	}

	attrs := NewAttrSet()
	ApplyConstraints(attrs, s, true)
	got := attrs.String()
	want := ` max="10" min="1.5" minlength="2" pattern="^[a-z]+" required`
	if got != want {
		t.Errorf("attrs = %q, want %q", got, want)
	}
}

func TestNormalizeOptions_MembershipSelection(t *testing.T) {
	raw := []any{"go", "rust", "zig"}
	got := NormalizeOptions(raw, []any{"go", "zig"})
	want := []Option{
		{Value: "go", Label: "go", Selected: true},
		{Value: "rust", Label: "rust"},
		{Value: "zig", Label: "zig", Selected: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeOptions_RecordAndPairShapes(t *testing.T) {
	raw := []any{
		map[string]any{"id": 7, "label": "Seven", "selected": true},
		[]any{"a", "Letter A"},
		map[string]any{"value": "b"},
	}
	got := NormalizeOptions(raw, nil)
	want := []Option{
		{Value: "7", Label: "Seven", Selected: true},
		{Value: "a", Label: "Letter A"},
		{Value: "b", Label: "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsFor_ChoicesWinOverEnum(t *testing.T) {
	s := &schema.Schema{
		Type: schema.TypeString,
		Enum: []any{"x", "y"},
		UI:   &schema.UIHints{Choices: []any{"a", "b"}},
	}
	got := OptionsFor(s, "b")
	want := []Option{
		{Value: "a", Label: "a"},
		{Value: "b", Label: "b", Selected: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}
