package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ErrUnknownCheck is returned when a config names a check nobody registered.
var ErrUnknownCheck = errors.New("validation: unknown check")

// CheckContext is handed to a CheckFactory when a named check is bound to a
// field. Arg carries the text after the first ':' in the check name
// ("matchesField:password" has Arg "password").
type CheckContext struct {
	Field model.FieldDescriptor
	Form  model.FormConfig
	Arg   string
}

// Label is the display label of the field the check is bound to.
func (c CheckContext) Label() string {
	return c.Field.DisplayLabel()
}

// CheckFactory builds a concrete check for a field.
type CheckFactory func(ctx CheckContext) (model.Check, error)

// CheckRegistry resolves check names from JSON/YAML configs into predicates.
// It is safe for concurrent use.
type CheckRegistry struct {
	mu        sync.RWMutex
	factories map[string]CheckFactory
}

// NewCheckRegistry returns a registry preloaded with the built-in checks.
func NewCheckRegistry() *CheckRegistry {
	r := &CheckRegistry{factories: make(map[string]CheckFactory)}
	for name, factory := range builtinChecks() {
		r.factories[name] = factory
	}
	return r
}

// Register adds a factory. Names are case-sensitive and may not be reused.
func (r *CheckRegistry) Register(name string, factory CheckFactory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("validation: check name is required")
	}
	if factory == nil {
		return fmt.Errorf("validation: check %q has nil factory", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("validation: check %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Names lists registered check names sorted alphabetically.
func (r *CheckRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build resolves a single named check for field within form.
func (r *CheckRegistry) Build(name string, field model.FieldDescriptor, form model.FormConfig) (model.Check, error) {
	base, arg, _ := strings.Cut(strings.TrimSpace(name), ":")
	r.mu.RLock()
	factory, ok := r.factories[base]
	r.mu.RUnlock()
	if !ok {
		return model.Check{}, fmt.Errorf("%w %q on field %q", ErrUnknownCheck, name, field.Name)
	}
	check, err := factory(CheckContext{Field: field, Form: form, Arg: strings.TrimSpace(arg)})
	if err != nil {
		return model.Check{}, fmt.Errorf("validation: check %q on field %q: %w", name, field.Name, err)
	}
	check.Name = name
	return check, nil
}

// Resolve returns a copy of form where every check without a Test function is
// bound through the registry. Description and Message set in the config take
// precedence over the factory defaults.
func (r *CheckRegistry) Resolve(form model.FormConfig) (model.FormConfig, error) {
	out := form.Clone()
	for i, field := range out.Fields {
		if field.Validation == nil {
			continue
		}
		for j, check := range field.Validation.Checks {
			if check.Test != nil {
				continue
			}
			built, err := r.Build(check.Name, field, form)
			if err != nil {
				return model.FormConfig{}, err
			}
			if strings.TrimSpace(check.Description) != "" {
				built.Description = check.Description
			}
			if strings.TrimSpace(check.Message) != "" {
				built.Message = check.Message
			}
			out.Fields[i].Validation.Checks[j] = built
		}
	}
	return out, nil
}

func builtinChecks() map[string]CheckFactory {
	return map[string]CheckFactory{
		"uppercase": runeCheck("uppercase letter", unicode.IsUpper),
		"lowercase": runeCheck("lowercase letter", unicode.IsLower),
		"digit":     runeCheck("number", unicode.IsDigit),
		"special": runeCheck("special character", func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		}),
		"email":        emailCheck,
		"matchesField": matchesFieldCheck,
		"positive":     positiveCheck,
		"noWhitespace": noWhitespaceCheck,
		"minLength":    lengthCheck(RuleMinLength),
		"maxLength":    lengthCheck(RuleMaxLength),
	}
}

// lengthCheck is the check form of the minLength/maxLength rules
// ("minLength:8"), for fields that also declare other checks. Description and
// message match the built-in rule.
func lengthCheck(kind RuleKind) CheckFactory {
	return func(ctx CheckContext) (model.Check, error) {
		n, err := strconv.Atoi(ctx.Arg)
		if err != nil || n < 0 {
			return model.Check{}, fmt.Errorf("%s needs a non-negative length, e.g. %s:8", kind, kind)
		}
		rule := lengthRule(kind, ctx.Field.Name, ctx.Label(), n)
		return model.Check{
			Description: rule.Description,
			Message:     rule.Message,
			Test:        rule.test,
		}, nil
	}
}

func runeCheck(noun string, pred func(rune) bool) CheckFactory {
	return func(ctx CheckContext) (model.Check, error) {
		return model.Check{
			Description: fmt.Sprintf("Contains at least 1 %s", noun),
			Message:     fmt.Sprintf("%s must contain at least 1 %s", ctx.Label(), noun),
			Test: func(value any, _ model.Values) bool {
				return strings.IndexFunc(stringValue(value), pred) >= 0
			},
		}, nil
	}
}

func emailCheck(ctx CheckContext) (model.Check, error) {
	return model.Check{
		Description: "Is a valid email address",
		Message:     fmt.Sprintf("%s must be a valid email", ctx.Label()),
		Test: func(value any, _ model.Values) bool {
			raw := strings.TrimSpace(stringValue(value))
			addr, err := mail.ParseAddress(raw)
			if err != nil || addr.Address != raw {
				return false
			}
			_, domain, _ := strings.Cut(addr.Address, "@")
			return strings.Contains(domain, ".")
		},
	}, nil
}

func matchesFieldCheck(ctx CheckContext) (model.Check, error) {
	if ctx.Arg == "" {
		return model.Check{}, errors.New("matchesField needs a target, e.g. matchesField:password")
	}
	target, ok := ctx.Form.Field(ctx.Arg)
	if !ok {
		return model.Check{}, fmt.Errorf("target field %q not found", ctx.Arg)
	}
	other := target.DisplayLabel()
	name := ctx.Arg
	return model.Check{
		Description: fmt.Sprintf("Matches %s", strings.ToLower(other)),
		Message:     fmt.Sprintf("%s must match %s", ctx.Label(), strings.ToLower(other)),
		Test: func(value any, values model.Values) bool {
			return stringValue(value) == stringValue(values[name])
		},
	}, nil
}

func positiveCheck(ctx CheckContext) (model.Check, error) {
	return model.Check{
		Description: "Greater than zero",
		Message:     fmt.Sprintf("%s must be greater than zero", ctx.Label()),
		Test: func(value any, _ model.Values) bool {
			n, ok := numberValue(value)
			return ok && n > 0
		},
	}, nil
}

func noWhitespaceCheck(ctx CheckContext) (model.Check, error) {
	return model.Check{
		Description: "Contains no spaces",
		Message:     fmt.Sprintf("%s must not contain spaces", ctx.Label()),
		Test: func(value any, _ model.Values) bool {
			return strings.IndexFunc(stringValue(value), unicode.IsSpace) < 0
		},
	}, nil
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
