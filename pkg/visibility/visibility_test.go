package visibility

import (
	"strings"
	"testing"
)

func TestEval_Expressions(t *testing.T) {
	evaluator := New()
	values := map[string]any{
		"plan":       "premium",
		"seats":      12,
		"newsletter": true,
		"company":    map[string]any{"size": 50},
	}

	tests := []struct {
		rule string
		want bool
	}{
		{``, true},
		{`   `, true},
		{`plan == "premium"`, true},
		{`plan == "free"`, false},
		{`seats > 5`, true},
		{`seats > 5 && plan == "free"`, false},
		{`seats > 5 || plan == "free"`, true},
		{`newsletter`, true},
		{`!newsletter`, false},
		{`values.company.size >= 50`, true},
		{`missing == "anything"`, false},
		{`typeof missing === "undefined"`, true},
	}
	for _, tc := range tests {
		got, err := evaluator.Eval(tc.rule, values)
		if err != nil {
			t.Errorf("Eval(%q): %v", tc.rule, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestEval_UnsubmittedFieldsResolveUndefined(t *testing.T) {
	evaluator := New()

	// First render of an empty form: no values submitted yet.
	got, err := evaluator.Eval(`plan == "premium"`, map[string]any{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got {
		t.Error("rule over an unsubmitted field should evaluate false, not throw")
	}

	got, err = evaluator.Eval(`!newsletter`, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !got {
		t.Error("negated unsubmitted field should evaluate true")
	}
}

func TestEval_BuiltinGlobalsStayResolvable(t *testing.T) {
	evaluator := New()
	got, err := evaluator.Eval(`Math.max(seats, 3) > 5`, map[string]any{"seats": 12})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !got {
		t.Error("Math builtin should not be shadowed by undefined binding")
	}
}

func TestEval_ScriptErrorSurfaces(t *testing.T) {
	evaluator := New()
	if _, err := evaluator.Eval(`plan ===`, nil); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestEval_GlobalsDoNotLeakBetweenCalls(t *testing.T) {
	evaluator := New()
	if _, err := evaluator.Eval(`plan == "premium"`, map[string]any{"plan": "premium"}); err != nil {
		t.Fatalf("first eval: %v", err)
	}
	got, err := evaluator.Eval(`typeof plan === "undefined"`, nil)
	if err != nil {
		t.Fatalf("second eval: %v", err)
	}
	if !got {
		t.Error("value from previous evaluation leaked into runtime")
	}
}

func TestEval_SkipsAwkwardKeys(t *testing.T) {
	evaluator := New()
	got, err := evaluator.Eval(`values["first-name"] == "Ada"`, map[string]any{
		"first-name": "Ada",
	})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !got {
		t.Error("hyphenated key should resolve through the values object")
	}
}

func TestEvalFunc_SwallowsErrors(t *testing.T) {
	fn := New().EvalFunc()
	if !fn(`this is not javascript ===`, nil) {
		t.Error("broken rule should leave the field visible")
	}
	if fn(`false`, nil) {
		t.Error("false rule should hide the field")
	}
}

func TestScript_TogglesContainers(t *testing.T) {
	script := Script()
	for _, want := range []string{
		"data-visible-when",
		"addEventListener('input'",
		"style.display",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("client script missing %q", want)
		}
	}
}
