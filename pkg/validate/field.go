package validate

import (
	"fmt"
	"strings"
)

// FieldValidator runs an ordered rule list against a single field. The
// fluent builders mirror the rule constructors; every rule runs and every
// failure is reported.
type FieldValidator struct {
	name  string
	rules []Rule
}

// NewField constructs an empty validator for the named field.
func NewField(name string) *FieldValidator {
	return &FieldValidator{name: name}
}

// Name returns the field this validator checks.
func (v *FieldValidator) Name() string {
	return v.name
}

// Rules returns the configured rules in evaluation order.
func (v *FieldValidator) Rules() []Rule {
	return v.rules
}

// Add appends a rule and returns the validator for chaining.
func (v *FieldValidator) Add(rule Rule) *FieldValidator {
	v.rules = append(v.rules, rule)
	return v
}

// Required appends a required rule.
func (v *FieldValidator) Required(message ...string) *FieldValidator {
	return v.Add(Required(message...))
}

// MinLength appends a minimum length rule.
func (v *FieldValidator) MinLength(min int, message ...string) *FieldValidator {
	return v.Add(MinLength(min, message...))
}

// MaxLength appends a maximum length rule.
func (v *FieldValidator) MaxLength(max int, message ...string) *FieldValidator {
	return v.Add(MaxLength(max, message...))
}

// Email appends an email format rule.
func (v *FieldValidator) Email(message ...string) *FieldValidator {
	return v.Add(Email(message...))
}

// Phone appends a phone format rule.
func (v *FieldValidator) Phone(message ...string) *FieldValidator {
	return v.Add(Phone(message...))
}

// Pattern appends a regular expression rule.
func (v *FieldValidator) Pattern(pattern string, message ...string) *FieldValidator {
	return v.Add(Pattern(pattern, message...))
}

// NumericRange appends a numeric bounds rule; either bound may be nil.
func (v *FieldValidator) NumericRange(min, max *float64, message ...string) *FieldValidator {
	return v.Add(NumericRange(min, max, message...))
}

// DateRange appends a date bounds rule from ISO date strings.
func (v *FieldValidator) DateRange(min, max string, message ...string) *FieldValidator {
	return v.Add(DateRange(min, max, message...))
}

// Custom appends a predicate rule.
func (v *FieldValidator) Custom(fn func(value any) bool, message ...string) *FieldValidator {
	return v.Add(Custom(fn, message...))
}

// Validate runs every rule and collects all failures.
func (v *FieldValidator) Validate(value any) (bool, []string) {
	var errs []string
	for _, rule := range v.rules {
		if ok, msg := rule.Evaluate(value); !ok {
			errs = append(errs, msg)
		}
	}
	return len(errs) == 0, errs
}

// ClientScript emits a validate<FieldName>(value) function covering every
// rule with a client-side form. The generated function short-circuits at the
// first failure; server-side Validate reports all of them.
func (v *FieldValidator) ClientScript() string {
	var fragments []string
	for _, rule := range v.rules {
		if fragment := strings.TrimSpace(rule.Script(v.name)); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	if len(fragments) == 0 {
		return ""
	}
	return fmt.Sprintf(`function validate%s(value) {
    %s
    return null; // No errors
}`, camelName(v.name), strings.Join(fragments, "\n    "))
}

// camelName converts snake_case field names into the PascalCase suffix used
// by the generated validator functions.
func camelName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}
