package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

func signupForm(t *testing.T) model.FormConfig {
	t.Helper()
	cfg := model.FormConfig{
		ID:    "signup",
		Title: "Sign up",
		Fields: []model.FieldDescriptor{
			{
				Name:       "name",
				Label:      "Name",
				Kind:       model.FieldKindText,
				Required:   true,
				Validation: &model.ValidationRules{MinLength: model.IntPtr(2)},
			},
			{
				Name:  "password",
				Label: "Password",
				Kind:  model.FieldKindPassword,
				Validation: &model.ValidationRules{Checks: []model.Check{
					{Name: "uppercase"},
					{Name: "digit"},
				}},
			},
		},
	}
	resolved, err := validation.NewCheckRegistry().Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	return resolved
}

func TestValidateRequiredBlocksEveryBlankShape(t *testing.T) {
	t.Parallel()

	field := model.FieldDescriptor{
		Name:       "title",
		Label:      "Title",
		Kind:       model.FieldKindText,
		Required:   true,
		Validation: &model.ValidationRules{MinLength: model.IntPtr(3)},
	}

	for _, value := range []any{nil, "", "   ", "\t\n"} {
		if got := validation.Validate(field, value, nil); got != "Title is required" {
			t.Errorf("Validate(%q) = %q, want required message", value, got)
		}
	}
}

func TestValidateMinLengthBoundary(t *testing.T) {
	t.Parallel()

	field := model.FieldDescriptor{
		Name:       "title",
		Label:      "Title",
		Kind:       model.FieldKindText,
		Validation: &model.ValidationRules{MinLength: model.IntPtr(4)},
	}

	if got := validation.Validate(field, "abc", nil); got != "Title must be at least 4 characters" {
		t.Fatalf("length N-1: got %q", got)
	}
	if got := validation.Validate(field, "abcd", nil); got != "" {
		t.Fatalf("length N: got %q, want no error", got)
	}
	if got := validation.Validate(field, "çãõé", nil); got != "" {
		t.Fatalf("multi-byte length N: got %q, want no error", got)
	}
}

func TestValidateMaxLengthAndPattern(t *testing.T) {
	t.Parallel()

	field := model.FieldDescriptor{
		Name:  "code",
		Label: "Code",
		Kind:  model.FieldKindText,
		Validation: &model.ValidationRules{
			MaxLength: model.IntPtr(5),
			Pattern:   `[A-Z]+`,
		},
	}

	cases := map[string]string{
		"ABC":    "",
		"ABCDEF": "Code must be no more than 5 characters",
		"abc":    "Code format is invalid",
		"xABC":   "Code format is invalid",
		"ABCx":   "Code format is invalid",
	}
	for value, want := range cases {
		if got := validation.Validate(field, value, nil); got != want {
			t.Errorf("Validate(%q) = %q, want %q", value, got, want)
		}
	}
}

func TestValidateEmptyOptionalSkipsRules(t *testing.T) {
	t.Parallel()

	field := model.FieldDescriptor{
		Name:       "nickname",
		Label:      "Nickname",
		Kind:       model.FieldKindText,
		Validation: &model.ValidationRules{MinLength: model.IntPtr(3), Pattern: `\w+`},
	}
	if got := validation.Validate(field, "", nil); got != "" {
		t.Fatalf("expected empty optional value to pass, got %q", got)
	}
}

func TestValidateNonStringValuesSkipLengthAndPattern(t *testing.T) {
	t.Parallel()

	rules := &model.ValidationRules{MinLength: model.IntPtr(10), Pattern: `x+`}
	checkbox := model.FieldDescriptor{Name: "agree", Label: "Agree", Kind: model.FieldKindCheckbox, Validation: rules}
	number := model.FieldDescriptor{Name: "price", Label: "Price", Kind: model.FieldKindNumber, Validation: rules}

	if got := validation.Validate(checkbox, true, nil); got != "" {
		t.Fatalf("checkbox: got %q", got)
	}
	if got := validation.Validate(number, 12.5, nil); got != "" {
		t.Fatalf("number: got %q", got)
	}
}

func TestValidateCustomVerdictIsFinal(t *testing.T) {
	t.Parallel()

	field := model.FieldDescriptor{
		Name:  "slug",
		Label: "Slug",
		Kind:  model.FieldKindText,
		Validation: &model.ValidationRules{
			MinLength: model.IntPtr(10),
			Checks: []model.Check{{
				Name:    "lowercase-only",
				Message: "Slug must be lowercase",
				Test: func(value any, _ model.Values) bool {
					s, _ := value.(string)
					return s == strings.ToLower(s)
				},
			}},
		},
	}

	if got := validation.Validate(field, "short", nil); got != "" {
		t.Fatalf("custom pass should override length failure, got %q", got)
	}
	if got := validation.Validate(field, "Short", nil); got != "Slug must be lowercase" {
		t.Fatalf("custom failure should surface its message, got %q", got)
	}
}

func TestValidateRequiredBeatsCustom(t *testing.T) {
	t.Parallel()

	called := false
	field := model.FieldDescriptor{
		Name:     "code",
		Label:    "Code",
		Kind:     model.FieldKindText,
		Required: true,
		Validation: &model.ValidationRules{Checks: []model.Check{{
			Name: "spy",
			Test: func(any, model.Values) bool {
				called = true
				return true
			},
		}}},
	}
	if got := validation.Validate(field, "", nil); got != "Code is required" {
		t.Fatalf("got %q", got)
	}
	if called {
		t.Fatalf("custom check should not run for a blank required value")
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	t.Parallel()

	cfg := signupForm(t)
	values := model.Values{"name": "A", "password": "abc1"}
	for _, field := range cfg.Fields {
		first := validation.Validate(field, values[field.Name], values)
		second := validation.Validate(field, values[field.Name], values)
		if first != second {
			t.Fatalf("field %s: %q != %q", field.Name, first, second)
		}
	}
}

func TestValidateAllScenarioBlocked(t *testing.T) {
	t.Parallel()

	cfg := signupForm(t)
	got := validation.ValidateAll(cfg.Fields, model.Values{"name": "", "password": "abc"})
	want := map[string]string{
		"name":     "Name is required",
		"password": "Password must contain at least 1 uppercase letter",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAllScenarioClean(t *testing.T) {
	t.Parallel()

	cfg := signupForm(t)
	got := validation.ValidateAll(cfg.Fields, model.Values{"name": "Al", "password": "Abc123"})
	if len(got) != 0 {
		t.Fatalf("expected no errors, got %v", got)
	}
}

func TestValidateCrossFieldMatch(t *testing.T) {
	t.Parallel()

	cfg := model.FormConfig{Fields: []model.FieldDescriptor{
		{Name: "password", Label: "Password", Kind: model.FieldKindPassword},
		{
			Name:       "confirmPassword",
			Label:      "Confirm password",
			Kind:       model.FieldKindPassword,
			Validation: &model.ValidationRules{Checks: []model.Check{{Name: "matchesField:password"}}},
		},
	}}
	resolved, err := validation.NewCheckRegistry().Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	errs := validation.ValidateAll(resolved.Fields, model.Values{"password": "Secret1", "confirmPassword": "Secret2"})
	if errs["confirmPassword"] != "Confirm password must match password" {
		t.Fatalf("unexpected errors: %v", errs)
	}
	errs = validation.ValidateAll(resolved.Fields, model.Values{"password": "Secret1", "confirmPassword": "Secret1"})
	if len(errs) != 0 {
		t.Fatalf("expected match to pass, got %v", errs)
	}
}
