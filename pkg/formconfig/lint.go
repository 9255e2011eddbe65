package formconfig

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formengine/pkg/condition/expr"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// Issue is a single advisory finding reported by Lint.
type Issue struct {
	Form    string `json:"form"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.Form, i.Message)
	}
	return fmt.Sprintf("%s.%s: %s", i.Form, i.Field, i.Message)
}

// Lint reports authoring mistakes the engine tolerates at runtime: duplicate
// or empty names, unknown kinds, option fields with neither options nor a
// source, unknown checks, patterns that do not compile, inverted length
// bounds and disable expressions that do not parse. registry defaults to the
// built-in checks.
func Lint(cfg model.FormConfig, registry *validation.CheckRegistry) []Issue {
	if registry == nil {
		registry = validation.NewCheckRegistry()
	}
	var issues []Issue
	report := func(field, format string, args ...any) {
		issues = append(issues, Issue{Form: cfg.ID, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(cfg.ID) == "" {
		report("", "form id is empty")
	}
	if len(cfg.Fields) == 0 {
		report("", "form declares no fields")
	}

	seen := make(map[string]bool, len(cfg.Fields))
	for _, field := range cfg.Fields {
		name := field.Name
		if strings.TrimSpace(name) == "" {
			report("", "field with label %q has no name", field.Label)
			continue
		}
		if seen[name] {
			report(name, "duplicate field name")
		}
		seen[name] = true

		if !field.Kind.Valid() {
			report(name, "unknown kind %q", field.Kind)
		}
		if field.Kind.HasOptions() && len(field.Options) == 0 && field.OptionsSource == "" {
			report(name, "%s field has no options and no optionsSource", field.Kind)
		}
		if !field.Kind.HasOptions() && (len(field.Options) > 0 || field.OptionsSource != "") {
			report(name, "options are ignored for %s fields", field.Kind)
		}
		if field.DisabledWhen != "" {
			if _, err := expr.Compile(field.DisabledWhen); err != nil {
				report(name, "disabledWhen: %v", err)
			}
		}
		issues = append(issues, lintRules(cfg, field, registry)...)
	}
	return issues
}

// LintStore lints every form in the store in id order.
func LintStore(store *Store, registry *validation.CheckRegistry) []Issue {
	var issues []Issue
	for _, id := range store.IDs() {
		cfg, _ := store.Get(id)
		issues = append(issues, Lint(cfg, registry)...)
	}
	return issues
}

func lintRules(cfg model.FormConfig, field model.FieldDescriptor, registry *validation.CheckRegistry) []Issue {
	rules := field.Validation
	if rules == nil {
		return nil
	}
	var issues []Issue
	report := func(format string, args ...any) {
		issues = append(issues, Issue{Form: cfg.ID, Field: field.Name, Message: fmt.Sprintf(format, args...)})
	}

	if rules.MinLength != nil && *rules.MinLength < 0 {
		report("minLength %d is negative", *rules.MinLength)
	}
	if rules.MinLength != nil && rules.MaxLength != nil && *rules.MinLength > *rules.MaxLength {
		report("minLength %d exceeds maxLength %d", *rules.MinLength, *rules.MaxLength)
	}
	if (rules.MinLength != nil || rules.MaxLength != nil || rules.Pattern != "") && !field.Kind.IsTextual() {
		report("length and pattern rules only apply to text values")
	}
	if (rules.MinLength != nil || rules.MaxLength != nil || rules.Pattern != "") && len(rules.Checks) > 0 {
		report("length and pattern rules are not enforced when checks are declared; use minLength:<n>/maxLength:<n> checks")
	}
	if rules.Pattern != "" {
		if err := validation.CheckPattern(rules.Pattern); err != nil {
			report("%v", err)
		}
	}
	for _, check := range rules.Checks {
		if check.Test != nil {
			continue
		}
		if _, err := registry.Build(check.Name, field, cfg); err != nil {
			report("%v", err)
		}
	}
	return issues
}
