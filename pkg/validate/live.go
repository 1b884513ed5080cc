package validate

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Response is the outcome of validating one field, shaped for JSON transport
// and inline feedback rendering.
type Response struct {
	FieldName      string   `json:"field_name"`
	Valid          bool     `json:"is_valid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	Suggestions    []string `json:"suggestions"`
	Value          any      `json:"value"`
	FormattedValue string   `json:"formatted_value,omitempty"`
}

// JSON serializes the response.
func (r Response) JSON() (string, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("validate: encode response: %w", err)
	}
	return string(payload), nil
}

// Fragment renders the response as an inline feedback element suitable for
// swapping into the form next to the field.
func (r Response) Fragment() string {
	var b strings.Builder

	class := "valid-feedback"
	if !r.Valid {
		class = "invalid-feedback"
	} else if len(r.Warnings) > 0 {
		class = "warning-feedback"
	}

	b.WriteString(`<div class="validation-feedback `)
	b.WriteString(class)
	b.WriteString(`" id="`)
	b.WriteString(html.EscapeString(r.FieldName))
	b.WriteString(`-feedback">`)

	for _, msg := range r.Errors {
		b.WriteString(`<div class="error-message">`)
		b.WriteString(html.EscapeString(msg))
		b.WriteString(`</div>`)
	}
	for _, msg := range r.Warnings {
		b.WriteString(`<div class="warning-message">`)
		b.WriteString(html.EscapeString(msg))
		b.WriteString(`</div>`)
	}
	for _, msg := range r.Suggestions {
		b.WriteString(`<div class="suggestion-message">`)
		b.WriteString(html.EscapeString(msg))
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

// LiveConfig tunes the browser behavior of live validation.
type LiveConfig struct {
	ValidateOnBlur   bool   `json:"validate_on_blur"`
	ValidateOnInput  bool   `json:"validate_on_input"`
	ValidateOnChange bool   `json:"validate_on_change"`
	DebounceMS       int    `json:"debounce_ms"`
	ShowSuccess      bool   `json:"show_success_indicators"`
	ShowWarnings     bool   `json:"show_warnings"`
	ShowSuggestions  bool   `json:"show_suggestions"`
	SuccessClass     string `json:"success_class"`
	ErrorClass       string `json:"error_class"`
	WarningClass     string `json:"warning_class"`
	LoadingClass     string `json:"loading_class"`
}

// DefaultLiveConfig returns the configuration live validation ships with.
func DefaultLiveConfig() LiveConfig {
	return LiveConfig{
		ValidateOnBlur:   true,
		ValidateOnChange: true,
		DebounceMS:       300,
		ShowSuccess:      true,
		ShowWarnings:     true,
		ShowSuggestions:  true,
		SuccessClass:     "is-valid",
		ErrorClass:       "is-invalid",
		WarningClass:     "has-warning",
		LoadingClass:     "is-validating",
	}
}

// LiveValidator answers single-field validation requests, backed by the same
// FieldValidator instances used for whole-form checks so both paths share
// one source of rule truth.
type LiveValidator struct {
	config     LiveConfig
	validators map[string]func(value any) Response
}

// NewLiveValidator constructs a LiveValidator with the given configuration.
func NewLiveValidator(config LiveConfig) *LiveValidator {
	return &LiveValidator{
		config:     config,
		validators: make(map[string]func(value any) Response),
	}
}

// RegisterFunc registers a custom validator for a field.
func (l *LiveValidator) RegisterFunc(field string, fn func(value any) Response) {
	l.validators[field] = fn
}

// RegisterField wires a FieldValidator as the live check for its field.
func (l *LiveValidator) RegisterField(validator *FieldValidator) {
	name := validator.Name()
	l.validators[name] = func(value any) Response {
		ok, errs := validator.Validate(value)
		return Response{FieldName: name, Valid: ok, Errors: errs, Value: value}
	}
}

// RegisterForm wires every field of a FormValidator.
func (l *LiveValidator) RegisterForm(form *FormValidator) {
	for _, name := range form.FieldNames() {
		l.RegisterField(form.Field(name))
	}
}

// ValidateField checks one value. Fields without a registered validator pass
// with a warning rather than failing the request.
func (l *LiveValidator) ValidateField(field string, value any) Response {
	fn, ok := l.validators[field]
	if !ok {
		return Response{
			FieldName: field,
			Valid:     true,
			Warnings:  []string{"No validator registered for this field"},
			Value:     value,
		}
	}
	return fn(value)
}

// Config returns the active configuration.
func (l *LiveValidator) Config() LiveConfig {
	return l.config
}

// Attributes returns the markup attributes wiring a field input to the live
// validation endpoint.
func (l *LiveValidator) Attributes(endpoint, field string) string {
	var triggers []string
	if l.config.ValidateOnBlur {
		triggers = append(triggers, "blur")
	}
	if l.config.ValidateOnChange {
		triggers = append(triggers, "change")
	}
	if l.config.ValidateOnInput {
		triggers = append(triggers, fmt.Sprintf("keyup delay:%dms", l.config.DebounceMS))
	}
	if len(triggers) == 0 {
		triggers = append(triggers, "blur")
	}

	return fmt.Sprintf(`hx-post="%s/%s" hx-trigger="%s" hx-target="#%s-feedback" hx-swap="outerHTML"`,
		strings.TrimSuffix(html.EscapeString(endpoint), "/"),
		html.EscapeString(field),
		strings.Join(triggers, ", "),
		html.EscapeString(field),
	)
}

// Script emits the bootstrap script applying loading indicators and feedback
// classes around live validation requests.
func (l *LiveValidator) Script() string {
	configJSON, err := json.Marshal(l.config)
	if err != nil {
		configJSON = []byte("{}")
	}
	return fmt.Sprintf(`<script>
document.addEventListener('DOMContentLoaded', function() {
    const validationConfig = %s;

    document.body.addEventListener('htmx:beforeRequest', function(e) {
        e.target.classList.add(validationConfig.loading_class);
    });

    document.body.addEventListener('htmx:afterRequest', function(e) {
        e.target.classList.remove(validationConfig.loading_class);
    });

    document.body.addEventListener('htmx:afterSwap', function(e) {
        const feedback = e.detail.target;
        const input = document.querySelector('[name="' + feedback.id.replace(/-feedback$/, '') + '"]');
        if (!input) {
            return;
        }
        input.classList.remove(validationConfig.success_class, validationConfig.error_class, validationConfig.warning_class);
        if (feedback.classList.contains('invalid-feedback')) {
            input.classList.add(validationConfig.error_class);
        } else if (feedback.classList.contains('warning-feedback') && validationConfig.show_warnings) {
            input.classList.add(validationConfig.warning_class);
        } else if (validationConfig.show_success_indicators) {
            input.classList.add(validationConfig.success_class);
        }
    });
});
</script>`, configJSON)
}

// EmailLiveValidator builds the stock live email check: format failures come
// with an example suggestion, and valid addresses are normalized to lower
// case through FormattedValue.
func EmailLiveValidator() func(value any) Response {
	pattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return func(value any) Response {
		raw := stringValue(value)
		if raw == "" {
			return Response{
				FieldName: "email",
				Valid:     false,
				Errors:    []string{"Email is required"},
				Value:     value,
			}
		}
		if !pattern.MatchString(raw) {
			return Response{
				FieldName:   "email",
				Valid:       false,
				Errors:      []string{"Please enter a valid email address"},
				Suggestions: []string{"Example: user@example.com"},
				Value:       value,
			}
		}
		return Response{
			FieldName:      "email",
			Valid:          true,
			Value:          value,
			FormattedValue: strings.ToLower(raw),
		}
	}
}

// PasswordStrengthValidator builds the stock live password check. Length
// failures are errors; missing character classes only warn and suggest.
func PasswordStrengthValidator(minLength int) func(value any) Response {
	var (
		upper   = regexp.MustCompile(`[A-Z]`)
		lower   = regexp.MustCompile(`[a-z]`)
		digit   = regexp.MustCompile(`\d`)
		special = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	)
	return func(value any) Response {
		raw := stringValue(value)
		var errs, warnings, suggestions []string

		if utf8.RuneCountInString(raw) < minLength {
			errs = append(errs, fmt.Sprintf("Password must be at least %d characters long", minLength))
		}
		if !upper.MatchString(raw) {
			warnings = append(warnings, "Password should contain at least one uppercase letter")
			suggestions = append(suggestions, "Add an uppercase letter (A-Z)")
		}
		if !lower.MatchString(raw) {
			warnings = append(warnings, "Password should contain at least one lowercase letter")
			suggestions = append(suggestions, "Add a lowercase letter (a-z)")
		}
		if !digit.MatchString(raw) {
			warnings = append(warnings, "Password should contain at least one number")
			suggestions = append(suggestions, "Add a number (0-9)")
		}
		if !special.MatchString(raw) {
			warnings = append(warnings, "Password should contain at least one special character")
			suggestions = append(suggestions, "Add a special character (!@#$%^&*)")
		}

		return Response{
			FieldName:   "password",
			Valid:       len(errs) == 0,
			Errors:      errs,
			Warnings:    warnings,
			Suggestions: suggestions,
			Value:       value,
		}
	}
}
