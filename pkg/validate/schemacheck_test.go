package validate

import (
	"strings"
	"testing"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

func intPtr(v int) *int { return &v }

func registrationSchema() *schema.Schema {
	return &schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"username", "email"},
		Properties: map[string]*schema.Schema{
			"username": {Type: schema.TypeString, MinLength: intPtr(3), MaxLength: intPtr(12)},
			"email":    {Type: schema.TypeString},
			"age":      {Type: schema.TypeInteger, Minimum: floatPtr(13), Maximum: floatPtr(120)},
			"tags": {
				Type:     schema.TypeArray,
				Items:    &schema.Schema{Type: schema.TypeString},
				MaxItems: intPtr(3),
			},
		},
		PropertyOrder: []string{"username", "email", "age", "tags"},
	}
}

func TestSchemaChecker_ValidSubmission(t *testing.T) {
	checker := NewSchemaChecker()

	ok, errs, err := checker.Check("Registration", registrationSchema(), map[string]any{
		"username": "gopher",
		"email":    "gopher@example.com",
		"age":      30,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok || len(errs) != 0 {
		t.Fatalf("expected pass, got %v", errs)
	}
}

func TestSchemaChecker_RephrasesConstraintMessages(t *testing.T) {
	checker := NewSchemaChecker()

	ok, errs, err := checker.Check("Registration", registrationSchema(), map[string]any{
		"username": "ab",
		"email":    "gopher@example.com",
		"age":      150,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("expected failure")
	}

	if !containsMessage(errs["username"], "Must be at least 3 characters") {
		t.Fatalf("username errors: %v", errs["username"])
	}
	if !containsMessage(errs["age"], "Must be 120 or less") {
		t.Fatalf("age errors: %v", errs["age"])
	}
}

func TestSchemaChecker_MissingRequiredFields(t *testing.T) {
	checker := NewSchemaChecker()

	ok, errs, err := checker.Check("Registration", registrationSchema(), map[string]any{
		"age": 30,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("expected failure")
	}

	for _, field := range []string{"username", "email"} {
		if !containsMessage(errs[field], "This field is required") {
			t.Fatalf("expected required error for %q, got %v", field, errs)
		}
	}
}

func TestSchemaChecker_NestedArrayLocation(t *testing.T) {
	checker := NewSchemaChecker()

	ok, errs, err := checker.Check("Registration", registrationSchema(), map[string]any{
		"username": "gopher",
		"email":    "gopher@example.com",
		"tags":     []any{"a", "b", "c", "d"},
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("expected failure")
	}
	if !containsMessage(errs["tags"], "Must have no more than 3 items") {
		t.Fatalf("tags errors: %v", errs)
	}
}

func TestSchemaChecker_TypeMismatchKeepsLibraryMessage(t *testing.T) {
	checker := NewSchemaChecker()

	ok, errs, err := checker.Check("Registration", registrationSchema(), map[string]any{
		"username": "gopher",
		"email":    "gopher@example.com",
		"age":      "not-a-number",
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("expected failure")
	}
	if len(errs["age"]) == 0 {
		t.Fatalf("expected type error on age, got %v", errs)
	}
}

func TestSchemaChecker_CompiledSchemaReused(t *testing.T) {
	checker := NewSchemaChecker()
	s := registrationSchema()

	if _, _, err := checker.Check("Registration", s, map[string]any{"username": "gopher", "email": "a@b.co"}); err != nil {
		t.Fatalf("first check: %v", err)
	}

	checker.mu.Lock()
	first := checker.compiled["Registration"]
	checker.mu.Unlock()
	if first == nil {
		t.Fatal("expected compiled schema cached")
	}

	if _, _, err := checker.Check("Registration", s, map[string]any{"username": "gopher", "email": "a@b.co"}); err != nil {
		t.Fatalf("second check: %v", err)
	}

	checker.mu.Lock()
	second := checker.compiled["Registration"]
	checker.mu.Unlock()
	if first != second {
		t.Fatal("expected the cached compilation to be reused")
	}

	checker.Invalidate()
	checker.mu.Lock()
	size := len(checker.compiled)
	checker.mu.Unlock()
	if size != 0 {
		t.Fatal("expected cache cleared")
	}
}

func containsMessage(msgs []string, want string) bool {
	for _, msg := range msgs {
		if strings.Contains(msg, want) {
			return true
		}
	}
	return false
}

func TestSchemaChecker_ExclusiveBounds(t *testing.T) {
	checker := NewSchemaChecker()
	s := &schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Schema{
			"age": {
				Type:             schema.TypeInteger,
				Minimum:          floatPtr(0),
				ExclusiveMinimum: true,
				Maximum:          floatPtr(100),
				ExclusiveMaximum: true,
			},
		},
		PropertyOrder: []string{"age"},
	}

	ok, errs, err := checker.Check("Measurement", s, map[string]any{"age": 0})
	if err != nil {
		t.Fatalf("exclusive bounds must compile: %v", err)
	}
	if ok {
		t.Fatal("value on the exclusive minimum should fail")
	}
	if len(errs["age"]) == 0 {
		t.Fatalf("expected age error, got %v", errs)
	}

	ok, _, err = checker.Check("Measurement", s, map[string]any{"age": 100})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("value on the exclusive maximum should fail")
	}

	ok, errs, err = checker.Check("Measurement", s, map[string]any{"age": 50})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok {
		t.Fatalf("in-range value should pass, got %v", errs)
	}
}

func TestSchemaChecker_RepeatableListCounts(t *testing.T) {
	checker := NewSchemaChecker()
	s := &schema.Schema{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Schema{
			"tasks": {
				Type:     schema.TypeArray,
				MinItems: intPtr(1),
				MaxItems: intPtr(10),
				Items: &schema.Schema{
					Type:     schema.TypeObject,
					Required: []string{"name"},
					Properties: map[string]*schema.Schema{
						"name": {Type: schema.TypeString},
					},
					PropertyOrder: []string{"name"},
				},
			},
		},
		PropertyOrder: []string{"tasks"},
	}

	ok, errs, err := checker.Check("Checklist", s, map[string]any{"tasks": []any{}})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("empty list should fail the minimum count")
	}
	if !containsMessage(errs["tasks"], "Must have at least 1 items") {
		t.Errorf("missing min-count message, got %v", errs)
	}

	twelve := make([]any, 12)
	for i := range twelve {
		twelve[i] = map[string]any{"name": "task"}
	}
	ok, errs, err = checker.Check("Checklist", s, map[string]any{"tasks": twelve})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("twelve items should fail the maximum count")
	}
	if !containsMessage(errs["tasks"], "Must have no more than 10 items") {
		t.Errorf("missing max-count message, got %v", errs)
	}

	ok, errs, err = checker.Check("Checklist", s, map[string]any{"tasks": []any{
		map[string]any{"name": "write"},
		map[string]any{"name": "review"},
	}})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok {
		t.Fatalf("two valid items should pass, got %v", errs)
	}
}
