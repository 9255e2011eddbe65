package form

import (
	"context"

	"github.com/goliatone/go-formengine/pkg/condition"
	"github.com/goliatone/go-formengine/pkg/model"
)

// SubmitFunc receives the validated payload. Whatever it does with it (API
// call, database write) is outside the form's concern.
type SubmitFunc func(ctx context.Context, values model.Values) error

// ChangeFunc observes every field change with a copy of the full value map.
type ChangeFunc func(values model.Values)

// DisabledPolicy decides what happens to values of disabled fields on submit.
type DisabledPolicy int

const (
	// DisabledKeep submits disabled fields with whatever value they hold.
	DisabledKeep DisabledPolicy = iota
	// DisabledStrip removes disabled fields from the submitted payload.
	DisabledStrip
)

// String implements fmt.Stringer.
func (p DisabledPolicy) String() string {
	if p == DisabledStrip {
		return "strip"
	}
	return "keep"
}

// ParseDisabledPolicy maps "keep"/"strip" to a policy. Unknown input keeps.
func ParseDisabledPolicy(raw string) DisabledPolicy {
	if raw == "strip" {
		return DisabledStrip
	}
	return DisabledKeep
}

// Option customises a Form.
type Option func(*Form)

// WithInitialValues seeds the form for edit mode. Keys that do not match a
// descriptor are carried through to the payload untouched.
func WithInitialValues(values model.Values) Option {
	return func(f *Form) {
		f.initial = cloneValues(values)
	}
}

// WithSubmit installs the submit callback.
func WithSubmit(fn SubmitFunc) Option {
	return func(f *Form) {
		f.submit = fn
	}
}

// WithCancel installs a callback invoked by Reset.
func WithCancel(fn func()) Option {
	return func(f *Form) {
		f.cancel = fn
	}
}

// WithChangeListener installs a listener notified after every field change.
func WithChangeListener(fn ChangeFunc) Option {
	return func(f *Form) {
		f.onChange = fn
	}
}

// WithConditionEvaluator overrides the evaluator used for DisabledWhen.
func WithConditionEvaluator(evaluator condition.Evaluator) Option {
	return func(f *Form) {
		if evaluator != nil {
			f.evaluator = evaluator
		}
	}
}

// WithDisabledPolicy sets how disabled fields are submitted.
func WithDisabledPolicy(policy DisabledPolicy) Option {
	return func(f *Form) {
		f.policy = policy
	}
}
