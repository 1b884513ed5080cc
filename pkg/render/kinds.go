package render

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Input kinds the built-in controls understand.
const (
	KindText     = "text"
	KindTextarea = "textarea"
	KindNumber   = "number"
	KindCheckbox = "checkbox"
	KindSelect   = "select"
	KindRadio    = "radio"
	KindPassword = "password"
	KindEmail    = "email"
	KindTel      = "tel"
	KindURL      = "url"
	KindDate     = "date"
	KindDatetime = "datetime-local"
	KindColor    = "color"
	KindFile     = "file"
	KindHidden   = "hidden"
)

// textareaLengthThreshold is the max-length above which a plain string field
// is promoted to a multi-line control.
const textareaLengthThreshold = 120

// KindMatcher decides whether an input kind should handle the field.
type KindMatcher func(name string, s *schema.Schema) bool

type kindRule struct {
	kind     string
	priority int
	match    KindMatcher
	order    int
}

// KindRegistry resolves field schemas to input kinds. Explicit ui hints win;
// otherwise matchers run by priority, ties falling back to registration
// order, with a deterministic text fallback.
type KindRegistry struct {
	mu    sync.RWMutex
	rules []kindRule
}

// NewKindRegistry constructs a registry seeded with the built-in heuristics.
func NewKindRegistry() *KindRegistry {
	reg := &KindRegistry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for a kind. Higher priority values run first.
func (r *KindRegistry) Register(kind string, priority int, matcher KindMatcher) {
	if r == nil || matcher == nil || strings.TrimSpace(kind) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, kindRule{
		kind:     strings.TrimSpace(kind),
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the input kind for a field. The explicit ui hint is
// honoured before any matcher runs.
func (r *KindRegistry) Resolve(name string, s *schema.Schema) string {
	if explicit := explicitKind(s); explicit != "" {
		return explicit
	}
	if r == nil {
		return KindText
	}

	r.mu.RLock()
	rules := append([]kindRule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(name, s) {
			return entry.kind
		}
	}
	return KindText
}

func explicitKind(s *schema.Schema) string {
	hints := s.Hints()
	if hints.InputType != "" {
		return hints.InputType
	}
	switch hints.Element {
	case "", "layout", "input":
		return ""
	default:
		return hints.Element
	}
}

func (r *KindRegistry) registerBuiltins() {
	r.Register(KindCheckbox, 100, func(_ string, s *schema.Schema) bool {
		return s.Type == schema.TypeBoolean
	})
	r.Register(KindSelect, 90, func(_ string, s *schema.Schema) bool {
		return len(s.Enum) > 0 || len(s.Hints().Choices) > 0
	})
	r.Register(KindNumber, 80, func(_ string, s *schema.Schema) bool {
		return s.Type == schema.TypeInteger || s.Type == schema.TypeNumber
	})
	r.Register(KindPassword, 70, func(name string, s *schema.Schema) bool {
		return s.Type == schema.TypeString && secretName(name, s.Title)
	})
	r.Register(KindEmail, 60, func(name string, s *schema.Schema) bool {
		return s.Type == schema.TypeString && (s.Format == "email" || strings.Contains(strings.ToLower(name), "email"))
	})
	r.Register(KindTel, 60, func(name string, s *schema.Schema) bool {
		lowered := strings.ToLower(name)
		return s.Type == schema.TypeString && (s.Format == "tel" || strings.Contains(lowered, "phone"))
	})
	r.Register(KindURL, 60, func(name string, s *schema.Schema) bool {
		return s.Type == schema.TypeString && (s.Format == "uri" || s.Format == "url" || strings.Contains(strings.ToLower(name), "website"))
	})
	r.Register(KindDatetime, 55, func(_ string, s *schema.Schema) bool {
		return s.Type == schema.TypeString && s.Format == "date-time"
	})
	r.Register(KindDate, 55, func(name string, s *schema.Schema) bool {
		return s.Type == schema.TypeString && (s.Format == "date" || strings.HasSuffix(strings.ToLower(name), "_date"))
	})
	r.Register(KindColor, 55, func(_ string, s *schema.Schema) bool {
		return s.Type == schema.TypeString && s.Format == "color"
	})
	r.Register(KindFile, 55, func(_ string, s *schema.Schema) bool {
		return s.Type == schema.TypeString && (s.Format == "binary" || s.Format == "file")
	})
	r.Register(KindTextarea, 50, func(name string, s *schema.Schema) bool {
		if s.Type != schema.TypeString {
			return false
		}
		if s.MaxLength != nil && *s.MaxLength > textareaLengthThreshold {
			return true
		}
		return narrativeName(name)
	})
}

func secretName(name, title string) bool {
	for _, candidate := range []string{name, title} {
		lowered := strings.ToLower(candidate)
		if strings.Contains(lowered, "password") || strings.Contains(lowered, "secret") {
			return true
		}
	}
	return false
}

var narrativeNames = map[string]bool{
	"description": true,
	"notes":       true,
	"note":        true,
	"comment":     true,
	"comments":    true,
	"bio":         true,
	"summary":     true,
	"body":        true,
	"content":     true,
	"message":     true,
}

func narrativeName(name string) bool {
	lowered := strings.ToLower(name)
	if narrativeNames[lowered] {
		return true
	}
	for key := range narrativeNames {
		if strings.HasSuffix(lowered, "_"+key) {
			return true
		}
	}
	return false
}
