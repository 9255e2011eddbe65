package validation_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

func TestBuiltinChecks(t *testing.T) {
	t.Parallel()

	registry := validation.NewCheckRegistry()
	field := model.FieldDescriptor{Name: "value", Label: "Value"}

	cases := []struct {
		check string
		value any
		want  bool
	}{
		{"uppercase", "abc", false},
		{"uppercase", "aBc", true},
		{"lowercase", "ABC", false},
		{"digit", "abc", false},
		{"digit", "ab3", true},
		{"special", "abc", false},
		{"special", "ab!", true},
		{"email", "admin@example.com", true},
		{"email", "admin@localhost", false},
		{"email", "not-an-email", false},
		{"email", "Admin <admin@example.com>", false},
		{"positive", 3.5, true},
		{"positive", "0", false},
		{"positive", "abc", false},
		{"noWhitespace", "a b", false},
		{"noWhitespace", "ab", true},
		{"minLength:3", "ab", false},
		{"minLength:3", "äbc", true},
		{"maxLength:2", "abc", false},
		{"maxLength:2", "ab", true},
	}

	for _, tc := range cases {
		check, err := registry.Build(tc.check, field, model.FormConfig{})
		if err != nil {
			t.Fatalf("Build(%q) returned error: %v", tc.check, err)
		}
		if check.Name != tc.check {
			t.Fatalf("Build(%q) name = %q", tc.check, check.Name)
		}
		if got := check.Test(tc.value, nil); got != tc.want {
			t.Errorf("%s(%v) = %v, want %v", tc.check, tc.value, got, tc.want)
		}
	}
}

func TestRegistryUnknownCheck(t *testing.T) {
	t.Parallel()

	cfg := model.FormConfig{Fields: []model.FieldDescriptor{{
		Name:       "code",
		Validation: &model.ValidationRules{Checks: []model.Check{{Name: "palindrome"}}},
	}}}
	_, err := validation.NewCheckRegistry().Resolve(cfg)
	if !errors.Is(err, validation.ErrUnknownCheck) {
		t.Fatalf("expected ErrUnknownCheck, got %v", err)
	}
}

func TestRegistryMatchesFieldNeedsTarget(t *testing.T) {
	t.Parallel()

	registry := validation.NewCheckRegistry()
	field := model.FieldDescriptor{Name: "confirm", Label: "Confirm"}
	if _, err := registry.Build("matchesField", field, model.FormConfig{}); err == nil {
		t.Fatalf("expected error for missing target")
	}
	if _, err := registry.Build("matchesField:password", field, model.FormConfig{}); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}

func TestRegistryLengthChecks(t *testing.T) {
	t.Parallel()

	registry := validation.NewCheckRegistry()
	field := model.FieldDescriptor{Name: "password", Label: "Password"}

	check, err := registry.Build("minLength:8", field, model.FormConfig{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if check.Description != "At least 8 characters" || check.Message != "Password must be at least 8 characters" {
		t.Fatalf("unexpected texts: %+v", check)
	}
	for _, name := range []string{"minLength", "minLength:x", "maxLength:-1"} {
		if _, err := registry.Build(name, field, model.FormConfig{}); err == nil {
			t.Errorf("Build(%q) expected error", name)
		}
	}
}

func TestRegistryResolveKeepsConfigOverrides(t *testing.T) {
	t.Parallel()

	cfg := model.FormConfig{Fields: []model.FieldDescriptor{{
		Name:  "password",
		Label: "Password",
		Validation: &model.ValidationRules{Checks: []model.Check{{
			Name:    "digit",
			Message: "Add a number to your password",
		}}},
	}}}

	resolved, err := validation.NewCheckRegistry().Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	check := resolved.Fields[0].Validation.Checks[0]
	if check.Message != "Add a number to your password" {
		t.Fatalf("message override lost: %q", check.Message)
	}
	if check.Description != "Contains at least 1 number" {
		t.Fatalf("unexpected description: %q", check.Description)
	}
	if cfg.Fields[0].Validation.Checks[0].Test != nil {
		t.Fatalf("Resolve must not mutate its input")
	}
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	registry := validation.NewCheckRegistry()
	factory := func(ctx validation.CheckContext) (model.Check, error) {
		return model.Check{Test: func(any, model.Values) bool { return true }}, nil
	}
	if err := registry.Register("always", factory); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := registry.Register("always", factory); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register("digit", factory); err == nil {
		t.Fatalf("expected builtin name collision error")
	}
}
