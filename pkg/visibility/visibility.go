// Package visibility evaluates conditional display rules for form fields.
// Rules are JavaScript boolean expressions over the current form values, for
// example `plan == "premium" && seats > 5`. The same expression string is
// evaluated server-side here and re-evaluated in the browser by the client
// script, so initial render and live toggling stay in agreement.
package visibility

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// Evaluator runs visibility expressions against submission values. Safe for
// concurrent use; runtimes are pooled, one per in-flight evaluation.
type Evaluator struct {
	pool sync.Pool
}

// New constructs an Evaluator.
func New() *Evaluator {
	return &Evaluator{
		pool: sync.Pool{
			New: func() any { return goja.New() },
		},
	}
}

// Eval evaluates rule with the given values installed as globals. Unknown
// identifiers resolve to undefined, so `missing == "x"` is simply false. An
// empty rule is always visible. Script errors surface as errors rather than
// hiding the field.
func (e *Evaluator) Eval(rule string, values map[string]any) (bool, error) {
	if e == nil {
		return true, nil
	}
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	vm := e.pool.Get().(*goja.Runtime)
	defer e.pool.Put(vm)

	installed := make([]string, 0, len(values)+1)
	for key, value := range values {
		if !validIdentifier(key) {
			continue
		}
		if err := vm.Set(key, value); err != nil {
			return false, fmt.Errorf("visibility: bind %q: %w", key, err)
		}
		installed = append(installed, key)
	}
	if err := vm.Set("values", values); err != nil {
		return false, fmt.Errorf("visibility: bind values: %w", err)
	}
	installed = append(installed, "values")

	// Identifiers the rule mentions but the submission never set would throw
	// a ReferenceError; bind them to undefined so `missing == "x"` is simply
	// false. Resolvable globals such as Math are left alone.
	global := vm.GlobalObject()
	for _, name := range ruleIdentifiers(trimmed) {
		if global.Get(name) != nil {
			continue
		}
		if err := vm.Set(name, goja.Undefined()); err != nil {
			return false, fmt.Errorf("visibility: bind %q: %w", name, err)
		}
		installed = append(installed, name)
	}

	// Globals stay on the pooled runtime otherwise and would leak into the
	// next evaluation.
	defer func() {
		global := vm.GlobalObject()
		for _, key := range installed {
			_ = global.Delete(key)
		}
	}()

	result, err := vm.RunString(trimmed)
	if err != nil {
		return false, fmt.Errorf("visibility: evaluate %q: %w", trimmed, err)
	}
	return result.ToBoolean(), nil
}

// EvalFunc returns Eval as a plain function, the shape the renderer accepts.
func (e *Evaluator) EvalFunc() func(rule string, values map[string]any) bool {
	return func(rule string, values map[string]any) bool {
		visible, err := e.Eval(rule, values)
		if err != nil {
			return true
		}
		return visible
	}
}

// ruleIdentifiers scans a rule for bare identifiers: string literals and
// property accesses after '.' are skipped, keywords are filtered out.
func ruleIdentifiers(rule string) []string {
	var out []string
	seen := make(map[string]bool)
	prev := byte(0)
	for i := 0; i < len(rule); {
		ch := rule[i]
		switch {
		case ch == '\'' || ch == '"':
			quote := ch
			i++
			for i < len(rule) {
				if rule[i] == '\\' {
					i += 2
					continue
				}
				if rule[i] == quote {
					i++
					break
				}
				i++
			}
			prev = quote
		case identStart(ch):
			start := i
			for i < len(rule) && identPart(rule[i]) {
				i++
			}
			name := rule[start:i]
			if prev != '.' && !isDigit(prev) && !reservedWord(name) && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
			prev = 'a'
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
			continue
		default:
			prev = ch
			i++
		}
	}
	return out
}

func identStart(ch byte) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func identPart(ch byte) bool {
	return identStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return !reservedWord(name)
}

func reservedWord(name string) bool {
	switch name {
	case "true", "false", "null", "undefined", "values",
		"var", "let", "const", "function", "return", "if", "else",
		"new", "delete", "typeof", "in", "this":
		return true
	}
	return false
}

// Script returns the client-side companion: it re-evaluates every
// [data-visible-when] container on input and toggles its display. Containers
// are matched inside the closest form so multiple forms on one page stay
// independent.
func Script() string {
	return `<script>
(function () {
  function formValues(form) {
    var values = {};
    var data = new FormData(form);
    data.forEach(function (value, name) {
      var key = name.split(/[\.\[]/)[0];
      if (values[key] === undefined) {
        values[key] = value;
      }
    });
    form.querySelectorAll('input[type="checkbox"]').forEach(function (box) {
      var key = box.name.split(/[\.\[]/)[0];
      if (key) { values[key] = box.checked; }
    });
    return values;
  }
  function applyVisibility(form) {
    var values = formValues(form);
    form.querySelectorAll('[data-visible-when]').forEach(function (el) {
      var rule = el.getAttribute('data-visible-when');
      var visible = true;
      try {
        var names = Object.keys(values);
        var args = names.map(function (n) { return values[n]; });
        visible = !!Function.apply(null, names.concat('return (' + rule + ');')).apply(null, args);
      } catch (err) {
        visible = true;
      }
      el.style.display = visible ? '' : 'none';
    });
  }
  document.querySelectorAll('form').forEach(function (form) {
    if (!form.querySelector('[data-visible-when]')) { return; }
    form.addEventListener('input', function () { applyVisibility(form); });
    form.addEventListener('change', function () { applyVisibility(form); });
    applyVisibility(form);
  });
})();
</script>`
}
