package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDoc = `
UserProfile:
  type: object
  required: [email]
  properties:
    email:
      type: string
      format: email
      title: Email Address
    age:
      type: integer
      minimum: 13
      maximum: 120
    bio:
      type: string
      maxLength: 500
      ui:
        element: textarea
        order: 3
Task:
  type: object
  properties:
    name:
      type: string
    done:
      type: boolean
`

func TestParseDocument_PreservesPropertyOrder(t *testing.T) {
	doc, err := ParseDocument(nil, []byte(sampleDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	profile, err := doc.Lookup("UserProfile")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	want := []string{"email", "age", "bio"}
	if diff := cmp.Diff(want, profile.OrderedProperties()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}

	if got := doc.Types(); !cmp.Equal([]string{"UserProfile", "Task"}, got) {
		t.Fatalf("unexpected type order: %v", got)
	}
}

func TestParseDocument_DecodesConstraintsAndHints(t *testing.T) {
	doc, err := ParseDocument(nil, []byte(sampleDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	profile, err := doc.Lookup("UserProfile")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	age := profile.Properties["age"]
	if age == nil || age.Minimum == nil || *age.Minimum != 13 {
		t.Fatalf("age minimum not decoded: %+v", age)
	}
	if age.Maximum == nil || *age.Maximum != 120 {
		t.Fatalf("age maximum not decoded: %+v", age)
	}

	bio := profile.Properties["bio"]
	if bio.MaxLength == nil || *bio.MaxLength != 500 {
		t.Fatalf("bio maxLength not decoded: %+v", bio)
	}
	hints := bio.Hints()
	if hints.Element != "textarea" {
		t.Fatalf("expected textarea hint, got %q", hints.Element)
	}
	if hints.Order == nil || *hints.Order != 3 {
		t.Fatalf("order hint not decoded: %+v", hints.Order)
	}

	if !profile.IsRequired("email") {
		t.Fatal("email should be required")
	}
	if profile.IsRequired("age") {
		t.Fatal("age should not be required")
	}
}

func TestParseDocument_AcceptsJSONPayload(t *testing.T) {
	payload := []byte(`{"Item":{"type":"object","properties":{"sku":{"type":"string"},"qty":{"type":"integer"}}}}`)
	doc, err := ParseDocument(nil, payload)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	item, err := doc.Lookup("Item")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if diff := cmp.Diff([]string{"sku", "qty"}, item.OrderedProperties()); diff != "" {
		t.Fatalf("json property order mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_LookupUnknownType(t *testing.T) {
	doc, err := ParseDocument(nil, []byte(sampleDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := doc.Lookup("Missing"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestMapProvider_Lookup(t *testing.T) {
	provider := MapProvider{"Widget": {Type: TypeObject}}

	if _, err := provider.Lookup("Widget"); err != nil {
		t.Fatalf("lookup widget: %v", err)
	}
	if _, err := provider.Lookup("Other"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestMulti_FirstMatchWins(t *testing.T) {
	first := MapProvider{"Widget": {Title: "first"}}
	second := MapProvider{"Widget": {Title: "second"}, "Gadget": {Title: "gadget"}}

	chain := Multi{first, second}

	widget, err := chain.Lookup("Widget")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if widget.Title != "first" {
		t.Fatalf("expected first provider to win, got %q", widget.Title)
	}

	if _, err := chain.Lookup("Gadget"); err != nil {
		t.Fatalf("fallthrough lookup: %v", err)
	}
	if _, err := chain.Lookup("Nope"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestResolveRef(t *testing.T) {
	defs := map[string]*Schema{"Address": {Type: TypeObject}}

	if got := ResolveRef("#/$defs/Address", defs); got == nil {
		t.Fatal("expected $defs reference to resolve")
	}
	if got := ResolveRef("#/components/schemas/Address", defs); got == nil {
		t.Fatal("expected components reference to resolve")
	}
	if got := ResolveRef("#/$defs/Missing", defs); got != nil {
		t.Fatal("expected unresolved reference to return nil")
	}
	if got := ResolveRef("", defs); got != nil {
		t.Fatal("expected empty reference to return nil")
	}
}
