package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/catalog"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

func orderMetadata() *catalog.Metadata {
	root := &schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Schema{
			"customer": {
				Type: schema.TypeObject,
				Properties: map[string]*schema.Schema{
					"email": {Type: schema.TypeString, Format: "email"},
				},
				PropertyOrder: []string{"email"},
			},
			"items": {
				Type: schema.TypeArray,
				Items: &schema.Schema{
					Type: schema.TypeObject,
					Properties: map[string]*schema.Schema{
						"sku": {Type: schema.TypeString},
					},
					PropertyOrder: []string{"sku"},
				},
			},
		},
		PropertyOrder: []string{"customer", "items"},
	}
	return catalog.Build("Order", root)
}

func TestMapErrorPayload_DottedAndPointerPaths(t *testing.T) {
	payload := map[string][]string{
		"customer.email":   {"Please enter a valid email address"},
		"/items/0/sku":     {"This field is required"},
		"#/customer/email": {"Duplicate message path"},
	}

	mapping := MapErrorPayload(orderMetadata(), payload)

	wantFields := map[string][]string{
		"customer.email": {"Duplicate message path", "Please enter a valid email address"},
		"items.sku":      {"This field is required"},
	}
	for field, want := range wantFields {
		if diff := cmp.Diff(want, mapping.Fields[field]); diff != "" {
			t.Errorf("field %q mismatch (-want +got):\n%s", field, diff)
		}
	}
	if len(mapping.Form) != 0 {
		t.Errorf("unexpected form-level errors: %v", mapping.Form)
	}
}

func TestMapErrorPayload_WrapperSegmentsDropped(t *testing.T) {
	mapping := MapErrorPayload(orderMetadata(), map[string][]string{
		"body.customer.email": {"Please enter a valid email address"},
	})
	if _, ok := mapping.Fields["customer.email"]; !ok {
		t.Errorf("expected wrapper segment to be dropped, got %+v", mapping)
	}
}

func TestMapErrorPayload_UnknownPathsBecomeFormLevel(t *testing.T) {
	mapping := MapErrorPayload(orderMetadata(), map[string][]string{
		"nonexistent.field": {"Something went wrong"},
		"__all__":           {"Submission rejected"},
	})
	want := []string{"Something went wrong", "Submission rejected"}
	if len(mapping.Fields) != 0 {
		t.Errorf("unexpected field errors: %+v", mapping.Fields)
	}
	for _, msg := range want {
		found := false
		for _, got := range mapping.Form {
			if got == msg {
				found = true
			}
		}
		if !found {
			t.Errorf("missing form-level message %q in %v", msg, mapping.Form)
		}
	}
}

func TestMapErrorPayload_MessagesNormalized(t *testing.T) {
	mapping := MapErrorPayload(orderMetadata(), map[string][]string{
		"customer.email": {"  dup  ", "dup", "", "other"},
	})
	want := []string{"dup", "other"}
	if diff := cmp.Diff(want, mapping.Fields["customer.email"]); diff != "" {
		t.Errorf("normalization mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorMappingFlatten(t *testing.T) {
	mapping := ErrorMapping{Fields: map[string][]string{
		"email": {"first", "second"},
		"name":  {"only"},
	}}
	got := mapping.Flatten()
	want := map[string]string{
		"email": "first; second",
		"name":  "only",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := MergeFormErrors([]string{"a", " b "}, "b", "c", "")
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}
