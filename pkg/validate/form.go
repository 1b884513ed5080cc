package validate

import (
	"fmt"
	"strings"
	"time"
)

// CrossFieldRule inspects the whole submission and reports failures keyed by
// the field that should display them.
type CrossFieldRule func(data map[string]any) (bool, map[string]string)

// FormValidator checks a whole submission: per-field validators first, then
// cross-field rules, with failures merged into one field-keyed map.
type FormValidator struct {
	fields     map[string]*FieldValidator
	fieldOrder []string
	crossField []CrossFieldRule
}

// NewForm constructs an empty FormValidator.
func NewForm() *FormValidator {
	return &FormValidator{fields: make(map[string]*FieldValidator)}
}

// Field returns the validator for the named field, creating it on first use
// so callers can chain rule builders directly.
func (f *FormValidator) Field(name string) *FieldValidator {
	if v, ok := f.fields[name]; ok {
		return v
	}
	v := NewField(name)
	f.fields[name] = v
	f.fieldOrder = append(f.fieldOrder, name)
	return v
}

// AddCrossField registers a rule that sees the entire submission.
func (f *FormValidator) AddCrossField(rule CrossFieldRule) *FormValidator {
	f.crossField = append(f.crossField, rule)
	return f
}

// Validate runs all field and cross-field rules. Failures never surface as
// an error return; the map is the result.
func (f *FormValidator) Validate(data map[string]any) (bool, map[string][]string) {
	all := make(map[string][]string)

	for _, name := range f.fieldOrder {
		if ok, errs := f.fields[name].Validate(data[name]); !ok {
			all[name] = append(all[name], errs...)
		}
	}

	for _, rule := range f.crossField {
		ok, failures := rule(data)
		if ok {
			continue
		}
		for field, msg := range failures {
			all[field] = append(all[field], msg)
		}
	}

	return len(all) == 0, all
}

// FieldNames returns registered field names in registration order.
func (f *FormValidator) FieldNames() []string {
	out := make([]string, len(f.fieldOrder))
	copy(out, f.fieldOrder)
	return out
}

// PasswordConfirmation builds a rule checking that two password fields agree;
// the failure attaches to the confirmation field. Empty field names fall back
// to "password" and "confirm_password".
func PasswordConfirmation(passwordField, confirmField string, message ...string) CrossFieldRule {
	if passwordField == "" {
		passwordField = "password"
	}
	if confirmField == "" {
		confirmField = "confirm_password"
	}
	msg := firstOr("Passwords do not match", message)

	return func(data map[string]any) (bool, map[string]string) {
		password := stringValue(data[passwordField])
		confirm := stringValue(data[confirmField])
		if password != "" && confirm != "" && password != confirm {
			return false, map[string]string{confirmField: msg}
		}
		return true, nil
	}
}

// DateOrdering builds a rule requiring the end date to fall strictly after
// the start date; the failure attaches to the end field.
func DateOrdering(startField, endField string, message ...string) CrossFieldRule {
	msg := firstOr("End date must be after start date", message)

	return func(data map[string]any) (bool, map[string]string) {
		start, startOK := dateValue(data[startField])
		end, endOK := dateValue(data[endField])
		if data[startField] == nil || data[endField] == nil {
			return true, nil
		}
		if stringValue(data[startField]) == "" || stringValue(data[endField]) == "" {
			return true, nil
		}
		if !startOK || !endOK {
			return false, map[string]string{endField: "Invalid date format"}
		}
		if !start.Before(end) {
			return false, map[string]string{endField: msg}
		}
		return true, nil
	}
}

func stringValue(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func dateValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(v))
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}
