package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formengine/pkg/condition"
	"github.com/goliatone/go-formengine/pkg/condition/expr"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// ErrUnknownField is returned when a change targets a name the config does
// not declare.
var ErrUnknownField = errors.New("form: unknown field")

var defaultEvaluator = expr.New()

// Form holds the mutable state of one rendered FormConfig: current values,
// field errors and the loading flag. A Form is owned by a single goroutine
// and is not safe for concurrent use.
type Form struct {
	config   model.FormConfig
	rules    map[string]validation.FieldRules
	defaults model.Values
	initial  model.Values
	values   model.Values
	errors   map[string]string
	loading  bool

	submit    SubmitFunc
	cancel    func()
	onChange  ChangeFunc
	evaluator condition.Evaluator
	policy    DisabledPolicy
}

// New builds a Form for cfg. Values start from field defaults overlaid with
// any WithInitialValues map.
func New(cfg model.FormConfig, opts ...Option) *Form {
	f := &Form{
		config:    cfg.Clone(),
		evaluator: defaultEvaluator,
		errors:    make(map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	f.rules = make(map[string]validation.FieldRules, len(f.config.Fields))
	f.defaults = make(model.Values, len(f.config.Fields))
	for _, field := range f.config.Fields {
		f.rules[field.Name] = validation.Compile(field)
		f.defaults[field.Name] = field.ZeroValue()
	}

	f.values = cloneValues(f.defaults)
	for k, v := range f.initial {
		f.values[k] = v
	}
	return f
}

// Config returns the form's private copy of its FormConfig.
func (f *Form) Config() model.FormConfig {
	return f.config
}

// Values returns a copy of the current values.
func (f *Form) Values() model.Values {
	return cloneValues(f.values)
}

// Value returns the current value of name.
func (f *Form) Value(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Error returns the error currently shown for name, or "".
func (f *Form) Error(name string) string {
	return f.errors[name]
}

// SetErrors replaces the error map, typically with messages mapped from a
// backend validation response.
func (f *Form) SetErrors(errs map[string]string) {
	f.errors = make(map[string]string, len(errs))
	for k, v := range errs {
		if v != "" {
			f.errors[k] = v
		}
	}
}

// Loading reports whether the submit callback is running.
func (f *Form) Loading() bool {
	return f.loading
}

// OnFieldChange stores value, clears the field's error and notifies the
// change listener with the full value map.
func (f *Form) OnFieldChange(name string, value any) error {
	if _, ok := f.config.Field(name); !ok {
		return fmt.Errorf("%w %q in form %q", ErrUnknownField, name, f.config.ID)
	}
	f.values[name] = value
	delete(f.errors, name)
	if f.onChange != nil {
		f.onChange(cloneValues(f.values))
	}
	return nil
}

// Validate runs every rule against the current values, replaces the error map
// with the result and reports whether the form is clean. Under DisabledStrip
// disabled fields are left out of the payload and are not validated.
func (f *Form) Validate() bool {
	errs := make(map[string]string)
	for _, field := range f.config.Fields {
		if f.policy == DisabledStrip && f.Disabled(field.Name) {
			continue
		}
		if msg := f.rules[field.Name].Validate(f.values[field.Name], f.values); msg != "" {
			errs[field.Name] = msg
		}
	}
	f.errors = errs
	return len(errs) == 0
}

// ValidateField validates a single field without touching the error map.
func (f *Form) ValidateField(name string) string {
	rules, ok := f.rules[name]
	if !ok {
		return ""
	}
	return rules.Validate(f.values[name], f.values)
}

// Submit validates every field. When any fails, the error map is populated
// and submitted is false; the callback is not called. Otherwise the payload
// is handed to the submit callback exactly once. Submissions are not
// de-duplicated: each call that passes validation invokes the callback.
// A failing callback is returned wrapped and submitted stays true.
func (f *Form) Submit(ctx context.Context) (submitted bool, err error) {
	if !f.Validate() {
		return false, nil
	}
	if f.submit == nil {
		return true, nil
	}

	f.loading = true
	defer func() { f.loading = false }()

	if err := f.submit(ctx, f.Payload()); err != nil {
		return true, fmt.Errorf("form: submit %q: %w", f.config.ID, err)
	}
	return true, nil
}

// Payload returns the map that Submit hands to the callback, with the
// disabled policy applied.
func (f *Form) Payload() model.Values {
	out := cloneValues(f.values)
	if f.policy != DisabledStrip {
		return out
	}
	for _, field := range f.config.Fields {
		if f.Disabled(field.Name) {
			delete(out, field.Name)
		}
	}
	return out
}

// Reset restores field defaults, clears errors and calls the cancel callback.
// Values seeded through WithInitialValues are discarded as well.
func (f *Form) Reset() {
	f.values = cloneValues(f.defaults)
	f.errors = make(map[string]string)
	f.loading = false
	if f.cancel != nil {
		f.cancel()
	}
}

// Disabled reports whether name is disabled for the current values. A field
// is disabled when its static flag is set, its DisabledFunc returns true or
// its DisabledWhen expression holds. Expressions that fail to compile never
// disable a field. Disabling never changes the stored value.
func (f *Form) Disabled(name string) bool {
	field, ok := f.config.Field(name)
	if !ok {
		return false
	}
	return f.disabled(field)
}

func (f *Form) disabled(field model.FieldDescriptor) bool {
	if field.Disabled {
		return true
	}
	if field.DisabledFunc != nil && field.DisabledFunc(cloneValues(f.values)) {
		return true
	}
	if field.DisabledWhen == "" {
		return false
	}
	ok, err := f.evaluator.Eval(field.DisabledWhen, f.values)
	return err == nil && ok
}

// DisabledMap returns the disabled state of every field.
func (f *Form) DisabledMap() map[string]bool {
	out := make(map[string]bool, len(f.config.Fields))
	for _, field := range f.config.Fields {
		out[field.Name] = f.disabled(field)
	}
	return out
}

// Summary returns the validation checklist for the current values.
func (f *Form) Summary() validation.Summary {
	return validation.Summarize(f.config.Fields, f.values)
}

func cloneValues(src model.Values) model.Values {
	out := make(model.Values, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
