package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// SchemaChecker validates whole submissions against the declared constraints
// of a field schema by compiling it to JSON Schema. Compiled schemas are
// memoized per type name.
type SchemaChecker struct {
	mu       sync.Mutex
	compiled map[string]*santhosh.Schema
}

// NewSchemaChecker constructs an empty checker.
func NewSchemaChecker() *SchemaChecker {
	return &SchemaChecker{compiled: make(map[string]*santhosh.Schema)}
}

// Check validates data against the schema. The boolean and error map are the
// validation outcome; the error return is reserved for schemas that cannot
// be compiled.
func (c *SchemaChecker) Check(typeName string, s *schema.Schema, data map[string]any) (bool, map[string][]string, error) {
	compiled, err := c.compile(typeName, s)
	if err != nil {
		return false, nil, err
	}

	// Round-trip through JSON so numbers and nested values use the types the
	// validator expects.
	payload, err := json.Marshal(data)
	if err != nil {
		return false, nil, fmt.Errorf("validate: encode submission: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(payload, &normalized); err != nil {
		return false, nil, fmt.Errorf("validate: decode submission: %w", err)
	}

	if err := compiled.Validate(normalized); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			out := make(map[string][]string)
			collectCauses(ve, out)
			return false, out, nil
		}
		return false, map[string][]string{"general": {err.Error()}}, nil
	}
	return true, nil, nil
}

// Invalidate drops compiled schemas so the next Check rebuilds them.
func (c *SchemaChecker) Invalidate() {
	c.mu.Lock()
	c.compiled = make(map[string]*santhosh.Schema)
	c.mu.Unlock()
}

func (c *SchemaChecker) compile(typeName string, s *schema.Schema) (*santhosh.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if compiled, ok := c.compiled[typeName]; ok {
		return compiled, nil
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("validate: encode schema %q: %w", typeName, err)
	}

	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	if err := compiler.AddResource("schema.json", bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("validate: add schema %q: %w", typeName, err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("validate: compile schema %q: %w", typeName, err)
	}

	c.compiled[typeName] = compiled
	return compiled, nil
}

// collectCauses walks the cause tree and turns leaves into field-keyed
// messages phrased for form display.
func collectCauses(ve *santhosh.ValidationError, out map[string][]string) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectCauses(cause, out)
		}
		return
	}

	field := fieldFromLocation(ve.InstanceLocation)
	keyword := keywordFromLocation(ve.KeywordLocation)

	if keyword == "required" {
		// One cause may name several missing properties; each becomes its
		// own field entry.
		names := quotedNames(ve.Message)
		if len(names) == 0 {
			appendUnique(out, field, "This field is required")
			return
		}
		for _, name := range names {
			key := name
			if field != "general" {
				key = field + "." + name
			}
			appendUnique(out, key, "This field is required")
		}
		return
	}

	appendUnique(out, field, rephrase(keyword, ve.Message))
}

var (
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	quotedPattern = regexp.MustCompile(`'([^']+)'`)
)

// rephrase converts validator messages for known constraint keywords into
// the phrasing forms display; unknown keywords keep the original message.
func rephrase(keyword, message string) string {
	num := numberPattern.FindString(message)
	switch keyword {
	case "minLength":
		if num != "" {
			return fmt.Sprintf("Must be at least %s characters", num)
		}
	case "maxLength":
		if num != "" {
			return fmt.Sprintf("Must be no more than %s characters", num)
		}
	case "minimum":
		if num != "" {
			return fmt.Sprintf("Must be at least %s", num)
		}
	case "maximum":
		if num != "" {
			return fmt.Sprintf("Must be %s or less", num)
		}
	case "minItems":
		if num != "" {
			return fmt.Sprintf("Must have at least %s items", num)
		}
	case "maxItems":
		if num != "" {
			return fmt.Sprintf("Must have no more than %s items", num)
		}
	case "pattern":
		return "Invalid format"
	}
	return message
}

// fieldFromLocation converts a JSON pointer like "/tasks/0/name" into the
// dotted form keys use; the root pointer maps to the "general" bucket.
func fieldFromLocation(pointer string) string {
	trimmed := strings.Trim(pointer, "/")
	if trimmed == "" {
		return "general"
	}
	return strings.ReplaceAll(trimmed, "/", ".")
}

func keywordFromLocation(pointer string) string {
	segments := strings.Split(strings.Trim(pointer, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

func quotedNames(message string) []string {
	matches := quotedPattern.FindAllStringSubmatch(message, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

func appendUnique(out map[string][]string, field, message string) {
	for _, existing := range out[field] {
		if existing == message {
			return
		}
	}
	out[field] = append(out[field], message)
}
