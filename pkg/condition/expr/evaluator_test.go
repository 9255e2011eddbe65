package expr

import (
	"strings"
	"testing"
)

func TestEvaluatorComparisons(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"frequency": "daily",
		"price":     12.5,
		"quantity":  "3",
		"published": true,
		"enabled":   "true",
		"meta":      map[string]any{"kind": "limited"},
	}

	cases := []struct {
		expr string
		want bool
	}{
		{`frequency == "daily"`, true},
		{`frequency == 'weekly'`, false},
		{`frequency == daily`, true},
		{`frequency != "daily"`, false},
		{`price > 10`, true},
		{`price <= 12.5`, true},
		{`price < 12.5`, false},
		{`quantity >= 3`, true},
		{`published == true`, true},
		{`enabled == true`, true},
		{`published`, true},
		{`!published`, false},
		{`missing`, false},
		{`missing == null`, true},
		{`published != null`, true},
		{`missing != 3`, true},
		{`meta.kind == "limited"`, true},
		{`frequency == "daily" && price > 20`, false},
		{`frequency == "daily" || price > 20`, true},
		{`not (frequency == "weekly") and published`, true},
		{`(frequency == "weekly" || published) && !missing`, true},
	}

	eval := New()
	for _, tc := range cases {
		got, err := eval.Eval(tc.expr, values)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Errorf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluatorEmptyExpressionIsFalse(t *testing.T) {
	t.Parallel()

	got, err := New().Eval("   ", map[string]any{"a": true})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if got {
		t.Fatalf("expected empty expression to evaluate false")
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`frequency = "daily"`:  "use '=='",
		`a & b`:                "use '&&'",
		`a | b`:                "use '||'",
		`frequency == "daily`:  "unterminated",
		`(a && b`:              "missing closing",
		`a &&`:                 "unexpected end",
		`a == `:                "missing value",
		`"daily" == frequency`: "expected field name",
		`price > null`:         "cannot compare with null",
		`a b`:                  "unexpected",
	}

	for src, want := range cases {
		_, err := Compile(src)
		if err == nil {
			t.Errorf("Compile(%q) expected error", src)
			continue
		}
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Compile(%q) error = %q, want substring %q", src, err, want)
		}
	}
}

func TestEvaluatorCachesPrograms(t *testing.T) {
	t.Parallel()

	eval := New()
	if _, err := eval.Eval(`a == 1`, nil); err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if _, err := eval.Eval(`a == 1`, map[string]any{"a": 1}); err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if len(eval.cache) != 1 {
		t.Fatalf("expected one cached program, got %d", len(eval.cache))
	}
}
