package validate

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Rule is a single validation constraint. Evaluate runs the server-side
// check; Script emits the equivalent browser-side fragment, or "" when the
// rule has no client-side form. Rules are stateless and safe to share.
type Rule interface {
	Evaluate(value any) (bool, string)
	Script(fieldName string) string
}

const dateLayout = "2006-01-02"

// RequiredRule rejects nil values and blank strings.
type RequiredRule struct {
	Message string
}

// Required builds a RequiredRule with an optional custom message.
func Required(message ...string) RequiredRule {
	return RequiredRule{Message: firstOr("This field is required", message)}
}

func (r RequiredRule) Evaluate(value any) (bool, string) {
	if value == nil {
		return false, r.Message
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return false, r.Message
	}
	return true, ""
}

func (r RequiredRule) Script(string) string {
	return fmt.Sprintf(`if (!value || (typeof value === 'string' && !value.trim())) {
            return '%s';
        }`, html.EscapeString(r.Message))
}

// MinLengthRule enforces a minimum character count. Nil values pass; the
// required rule owns missing-value failures.
type MinLengthRule struct {
	Min     int
	Message string
}

// MinLength builds a MinLengthRule.
func MinLength(min int, message ...string) MinLengthRule {
	return MinLengthRule{
		Min:     min,
		Message: firstOr(fmt.Sprintf("Must be at least %d characters long", min), message),
	}
}

func (r MinLengthRule) Evaluate(value any) (bool, string) {
	if value == nil {
		return true, ""
	}
	if utf8.RuneCountInString(stringify(value)) < r.Min {
		return false, r.Message
	}
	return true, ""
}

func (r MinLengthRule) Script(string) string {
	return fmt.Sprintf(`if (value && value.length < %d) {
            return '%s';
        }`, r.Min, html.EscapeString(r.Message))
}

// MaxLengthRule enforces a maximum character count.
type MaxLengthRule struct {
	Max     int
	Message string
}

// MaxLength builds a MaxLengthRule.
func MaxLength(max int, message ...string) MaxLengthRule {
	return MaxLengthRule{
		Max:     max,
		Message: firstOr(fmt.Sprintf("Must be no more than %d characters long", max), message),
	}
}

func (r MaxLengthRule) Evaluate(value any) (bool, string) {
	if value == nil {
		return true, ""
	}
	if utf8.RuneCountInString(stringify(value)) > r.Max {
		return false, r.Message
	}
	return true, ""
}

func (r MaxLengthRule) Script(string) string {
	return fmt.Sprintf(`if (value && value.length > %d) {
            return '%s';
        }`, r.Max, html.EscapeString(r.Message))
}

// PatternRule matches values against a regular expression anchored at the
// start of the input. Empty values pass.
type PatternRule struct {
	Pattern string
	Message string

	re *regexp.Regexp
}

// Pattern builds a PatternRule. Invalid expressions panic; patterns are
// programmer input, not user input.
func Pattern(pattern string, message ...string) PatternRule {
	expr := pattern
	if !strings.HasPrefix(expr, "^") {
		expr = "^(?:" + expr + ")"
	}
	return PatternRule{
		Pattern: pattern,
		Message: firstOr("Invalid format", message),
		re:      regexp.MustCompile(expr),
	}
}

func (r PatternRule) Evaluate(value any) (bool, string) {
	if value == nil || value == "" {
		return true, ""
	}
	if !r.re.MatchString(stringify(value)) {
		return false, r.Message
	}
	return true, ""
}

func (r PatternRule) Script(string) string {
	jsPattern := strings.ReplaceAll(r.Pattern, `\`, `\\`)
	jsPattern = strings.ReplaceAll(jsPattern, `'`, `\'`)
	return fmt.Sprintf(`if (value && !new RegExp('%s').test(value)) {
            return '%s';
        }`, jsPattern, html.EscapeString(r.Message))
}

// Email builds a pattern rule for email addresses.
func Email(message ...string) PatternRule {
	return Pattern(
		`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
		firstOr("Please enter a valid email address", message),
	)
}

// Phone builds a pattern rule accepting common phone number formats.
func Phone(message ...string) PatternRule {
	return Pattern(
		`^[\+]?[1-9]?[\d\s\-\(\)\.]{10,15}$`,
		firstOr("Please enter a valid phone number", message),
	)
}

// NumericRangeRule bounds a numeric value. String inputs are coerced; values
// that do not parse as numbers fail with their own message.
type NumericRangeRule struct {
	Min     *float64
	Max     *float64
	Message string
}

// NumericRange builds a NumericRangeRule; either bound may be nil.
func NumericRange(min, max *float64, message ...string) NumericRangeRule {
	var fallback string
	switch {
	case min != nil && max != nil:
		fallback = fmt.Sprintf("Must be between %s and %s", formatNumber(*min), formatNumber(*max))
	case min != nil:
		fallback = fmt.Sprintf("Must be at least %s", formatNumber(*min))
	case max != nil:
		fallback = fmt.Sprintf("Must be no more than %s", formatNumber(*max))
	default:
		fallback = "Invalid numeric value"
	}
	return NumericRangeRule{Min: min, Max: max, Message: firstOr(fallback, message)}
}

func (r NumericRangeRule) Evaluate(value any) (bool, string) {
	if value == nil || value == "" {
		return true, ""
	}
	num, err := toFloat(value)
	if err != nil {
		return false, "Must be a valid number"
	}
	if r.Min != nil && num < *r.Min {
		return false, r.Message
	}
	if r.Max != nil && num > *r.Max {
		return false, r.Message
	}
	return true, ""
}

func (r NumericRangeRule) Script(string) string {
	var checks []string
	if r.Min != nil {
		checks = append(checks, fmt.Sprintf("numValue < %s", formatNumber(*r.Min)))
	}
	if r.Max != nil {
		checks = append(checks, fmt.Sprintf("numValue > %s", formatNumber(*r.Max)))
	}
	if len(checks) == 0 {
		return ""
	}
	return fmt.Sprintf(`if (value !== '' && value !== null) {
            const numValue = parseFloat(value);
            if (isNaN(numValue) || %s) {
                return '%s';
            }
        }`, strings.Join(checks, " || "), html.EscapeString(r.Message))
}

// DateRangeRule bounds a date. Values may be time.Time or ISO date strings;
// anything else fails without panicking.
type DateRangeRule struct {
	Min     *time.Time
	Max     *time.Time
	Message string
}

// DateRange builds a DateRangeRule from ISO date strings; either bound may be
// empty. Malformed bounds are a programmer error and panic.
func DateRange(min, max string, message ...string) DateRangeRule {
	rule := DateRangeRule{}
	if min != "" {
		t, err := time.Parse(dateLayout, min)
		if err != nil {
			panic(fmt.Sprintf("validate: invalid min date %q: %v", min, err))
		}
		rule.Min = &t
	}
	if max != "" {
		t, err := time.Parse(dateLayout, max)
		if err != nil {
			panic(fmt.Sprintf("validate: invalid max date %q: %v", max, err))
		}
		rule.Max = &t
	}

	var fallback string
	switch {
	case rule.Min != nil && rule.Max != nil:
		fallback = fmt.Sprintf("Date must be between %s and %s", min, max)
	case rule.Min != nil:
		fallback = fmt.Sprintf("Date must be on or after %s", min)
	case rule.Max != nil:
		fallback = fmt.Sprintf("Date must be on or before %s", max)
	default:
		fallback = "Invalid date"
	}
	rule.Message = firstOr(fallback, message)
	return rule
}

func (r DateRangeRule) Evaluate(value any) (bool, string) {
	if value == nil || value == "" {
		return true, ""
	}

	var check time.Time
	switch v := value.(type) {
	case time.Time:
		check = v
	case string:
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return false, "Invalid date format"
		}
		check = parsed
	default:
		return false, "Invalid date format"
	}

	if r.Min != nil && check.Before(*r.Min) {
		return false, r.Message
	}
	if r.Max != nil && check.After(*r.Max) {
		return false, r.Message
	}
	return true, ""
}

func (r DateRangeRule) Script(string) string {
	var checks []string
	if r.Min != nil {
		checks = append(checks, fmt.Sprintf("dateValue < new Date('%s')", r.Min.Format(dateLayout)))
	}
	if r.Max != nil {
		checks = append(checks, fmt.Sprintf("dateValue > new Date('%s')", r.Max.Format(dateLayout)))
	}
	if len(checks) == 0 {
		return ""
	}
	return fmt.Sprintf(`if (value !== '' && value !== null) {
            const dateValue = new Date(value);
            if (isNaN(dateValue.getTime()) || %s) {
                return '%s';
            }
        }`, strings.Join(checks, " || "), html.EscapeString(r.Message))
}

// CustomRule runs an arbitrary predicate. Panics inside the predicate are
// downgraded to a failed check so one bad rule cannot take out a request.
type CustomRule struct {
	Fn      func(value any) (bool, string)
	Message string
}

// Custom wraps a predicate returning pass/fail; the rule's message is used on
// failure.
func Custom(fn func(value any) bool, message ...string) CustomRule {
	msg := firstOr("Invalid value", message)
	return CustomRule{
		Fn: func(value any) (bool, string) {
			if fn(value) {
				return true, ""
			}
			return false, msg
		},
		Message: msg,
	}
}

// CustomFunc wraps a predicate that supplies its own failure message.
func CustomFunc(fn func(value any) (bool, string), message ...string) CustomRule {
	return CustomRule{Fn: fn, Message: firstOr("Invalid value", message)}
}

func (r CustomRule) Evaluate(value any) (ok bool, msg string) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			msg = fmt.Sprintf("Validation error: %v", rec)
		}
	}()
	if r.Fn == nil {
		return true, ""
	}
	return r.Fn(value)
}

// Script returns "" so custom checks stay server-side only.
func (r CustomRule) Script(string) string {
	return ""
}

func firstOr(fallback string, overrides []string) string {
	if len(overrides) > 0 && strings.TrimSpace(overrides[0]) != "" {
		return overrides[0]
	}
	return fallback
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not numeric: %T", value)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
