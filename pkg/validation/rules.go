package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formengine/pkg/model"
)

// RuleKind identifies the origin of a Rule.
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleMinLength RuleKind = "minLength"
	RuleMaxLength RuleKind = "maxLength"
	RulePattern   RuleKind = "pattern"
	RuleCustom    RuleKind = "custom"
)

// Rule couples an enforcement predicate with its checklist text and error
// message. The engine and the summary both consume the same Rule values.
type Rule struct {
	Kind        RuleKind
	Field       string
	Label       string
	Name        string
	Description string
	Message     string
	test        func(value any, values model.Values) bool
}

// Satisfied evaluates the rule predicate against value.
func (r Rule) Satisfied(value any, values model.Values) bool {
	if r.test == nil {
		return true
	}
	return r.test(value, values)
}

// FieldRules is the compiled rule set for one descriptor.
type FieldRules struct {
	Field    model.FieldDescriptor
	Required *Rule
	Builtin  []Rule
	Custom   []Rule
}

// Declared returns the rules that decide the field's verdict, in evaluation
// order: the custom checks when the field has any, the length and pattern
// rules otherwise. The required rule is not part of the checklist.
func (fr FieldRules) Declared() []Rule {
	if len(fr.Custom) > 0 {
		return append([]Rule(nil), fr.Custom...)
	}
	return append([]Rule(nil), fr.Builtin...)
}

// Compile derives the rule set of a descriptor.
func Compile(field model.FieldDescriptor) FieldRules {
	label := field.DisplayLabel()
	out := FieldRules{Field: field}

	if field.Required {
		out.Required = &Rule{
			Kind:        RuleRequired,
			Field:       field.Name,
			Label:       label,
			Description: "Required",
			Message:     fmt.Sprintf("%s is required", label),
			test: func(value any, _ model.Values) bool {
				return !IsBlank(value)
			},
		}
	}

	rules := field.Validation
	if rules == nil {
		return out
	}

	if rules.MinLength != nil {
		out.Builtin = append(out.Builtin, lengthRule(RuleMinLength, field.Name, label, *rules.MinLength))
	}
	if rules.MaxLength != nil {
		out.Builtin = append(out.Builtin, lengthRule(RuleMaxLength, field.Name, label, *rules.MaxLength))
	}

	if strings.TrimSpace(rules.Pattern) != "" {
		description := rules.PatternDescription
		if strings.TrimSpace(description) == "" {
			description = "Matches the required format"
		}
		re, err := anchored(rules.Pattern)
		out.Builtin = append(out.Builtin, Rule{
			Kind:        RulePattern,
			Field:       field.Name,
			Label:       label,
			Description: description,
			Message:     fmt.Sprintf("%s format is invalid", label),
			test: stringRule(func(s string) bool {
				// unparseable patterns are a configuration error; lint reports them
				if err != nil {
					return true
				}
				return re.MatchString(s)
			}),
		})
	}

	for _, check := range rules.Checks {
		message := check.Message
		if strings.TrimSpace(message) == "" {
			message = fmt.Sprintf("%s is invalid", label)
		}
		description := check.Description
		if strings.TrimSpace(description) == "" {
			description = message
		}
		out.Custom = append(out.Custom, Rule{
			Kind:        RuleCustom,
			Field:       field.Name,
			Label:       label,
			Name:        check.Name,
			Description: description,
			Message:     message,
			test:        check.Test,
		})
	}

	return out
}

func lengthRule(kind RuleKind, name, label string, n int) Rule {
	rule := Rule{Kind: kind, Field: name, Label: label}
	if kind == RuleMaxLength {
		rule.Description = fmt.Sprintf("No more than %d %s", n, plural(n, "character"))
		rule.Message = fmt.Sprintf("%s must be no more than %d characters", label, n)
		rule.test = stringRule(func(s string) bool { return utf8.RuneCountInString(s) <= n })
		return rule
	}
	rule.Description = fmt.Sprintf("At least %d %s", n, plural(n, "character"))
	rule.Message = fmt.Sprintf("%s must be at least %d characters", label, n)
	rule.test = stringRule(func(s string) bool { return utf8.RuneCountInString(s) >= n })
	return rule
}

// stringRule applies fn to string values only. Any other type passes; a
// missing value is checked as the empty string.
func stringRule(fn func(string) bool) func(any, model.Values) bool {
	return func(value any, _ model.Values) bool {
		if value == nil {
			return fn("")
		}
		s, ok := value.(string)
		if !ok {
			return true
		}
		return fn(s)
	}
}

var patternCache sync.Map

// anchored compiles pattern so that it must match the whole value.
func anchored(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("validation: invalid pattern %q: %w", pattern, err)
	}
	patternCache.Store(pattern, re)
	return re, nil
}

// CheckPattern reports whether pattern compiles.
func CheckPattern(pattern string) error {
	_, err := anchored(pattern)
	return err
}

// IsBlank reports whether value counts as absent for the required rule:
// nil, whitespace-only strings, false and empty slices.
func IsBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
