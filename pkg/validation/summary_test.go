package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

func TestSummarizeFollowsFieldAndRuleOrder(t *testing.T) {
	t.Parallel()

	cfg := signupForm(t)
	cfg.Fields = append(cfg.Fields, model.FieldDescriptor{Name: "bio", Label: "Bio", Kind: model.FieldKindTextarea})

	got := validation.Summarize(cfg.Fields, model.Values{"name": "A", "password": "abc1"})
	want := validation.Summary{
		{FieldName: "name", FieldLabel: "Name", Kind: validation.RuleMinLength, RuleText: "At least 2 characters", Satisfied: false},
		{FieldName: "password", FieldLabel: "Password", Kind: validation.RuleCustom, RuleText: "Contains at least 1 uppercase letter", Satisfied: false},
		{FieldName: "password", FieldLabel: "Password", Kind: validation.RuleCustom, RuleText: "Contains at least 1 number", Satisfied: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if got.AllSatisfied() {
		t.Fatalf("expected summary to report unsatisfied rules")
	}
	if len(got.ForField("password")) != 2 {
		t.Fatalf("expected two password rows")
	}
}

func TestSummaryAgreesWithEngine(t *testing.T) {
	t.Parallel()

	cfg := signupForm(t)
	cfg.Fields = append(cfg.Fields, model.FieldDescriptor{
		Name:  "pin",
		Label: "PIN",
		Kind:  model.FieldKindPassword,
		Validation: &model.ValidationRules{
			MinLength: model.IntPtr(6),
			Checks: []model.Check{{
				Name:    "digits-only",
				Message: "PIN must be digits",
				Test: func(value any, _ model.Values) bool {
					s, _ := value.(string)
					return strings.Trim(s, "0123456789") == ""
				},
			}},
		},
	})
	inputs := []model.Values{
		{"name": "Al", "password": "Abc123", "pin": "12"},
		{"name": "Alice", "password": "abc", "pin": "1234567"},
		{"name": "Bo", "password": "ABC", "pin": "12ab"},
	}

	for _, values := range inputs {
		summary := validation.Summarize(cfg.Fields, values)
		errs := validation.ValidateAll(cfg.Fields, values)
		for _, field := range cfg.Fields {
			rows := summary.ForField(field.Name)
			_, failed := errs[field.Name]
			if rows.AllSatisfied() == failed {
				t.Fatalf("values %v: field %s summary satisfied=%v but engine error=%v", values, field.Name, rows.AllSatisfied(), failed)
			}
		}
	}
}

func TestSummarizeListsOnlyCustomChecksWhenDeclared(t *testing.T) {
	t.Parallel()

	fields := []model.FieldDescriptor{{
		Name:  "password",
		Label: "Password",
		Kind:  model.FieldKindPassword,
		Validation: &model.ValidationRules{
			MinLength: model.IntPtr(8),
			Checks:    []model.Check{{Name: "minLength:4"}, {Name: "digit"}},
		},
	}}
	resolved, err := validation.NewCheckRegistry().Resolve(model.FormConfig{Fields: fields})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	got := validation.Summarize(resolved.Fields, model.Values{"password": "ab1"})
	want := validation.Summary{
		{FieldName: "password", FieldLabel: "Password", Kind: validation.RuleCustom, RuleText: "At least 4 characters", Satisfied: false},
		{FieldName: "password", FieldLabel: "Password", Kind: validation.RuleCustom, RuleText: "Contains at least 1 number", Satisfied: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if msg := validation.Validate(resolved.Fields[0], "ab1", nil); msg != "Password must be at least 4 characters" {
		t.Fatalf("Validate = %q", msg)
	}
}

func TestSummarizeMissingValueCountsAsEmpty(t *testing.T) {
	t.Parallel()

	fields := []model.FieldDescriptor{{
		Name:       "title",
		Label:      "Title",
		Kind:       model.FieldKindText,
		Validation: &model.ValidationRules{MinLength: model.IntPtr(1), PatternDescription: "Letters only", Pattern: `[a-z]*`},
	}}
	got := validation.Summarize(fields, model.Values{})
	if len(got) != 2 {
		t.Fatalf("expected two rows, got %d", len(got))
	}
	if got[0].Satisfied {
		t.Fatalf("min length should be unsatisfied for a missing value")
	}
	if !got[1].Satisfied || got[1].RuleText != "Letters only" {
		t.Fatalf("unexpected pattern row: %+v", got[1])
	}
}
