package model

import "strings"

// FieldKind enumerates the input kinds a FieldDescriptor can declare.
type FieldKind string

const (
	FieldKindText           FieldKind = "text"
	FieldKindEmail          FieldKind = "email"
	FieldKindPassword       FieldKind = "password"
	FieldKindNumber         FieldKind = "number"
	FieldKindTextarea       FieldKind = "textarea"
	FieldKindCheckbox       FieldKind = "checkbox"
	FieldKindSelect         FieldKind = "select"
	FieldKindRadio          FieldKind = "radio"
	FieldKindImage          FieldKind = "image"
	FieldKindCategoryPicker FieldKind = "category-picker"
)

// FieldKinds returns every supported kind in declaration order.
func FieldKinds() []FieldKind {
	return []FieldKind{
		FieldKindText,
		FieldKindEmail,
		FieldKindPassword,
		FieldKindNumber,
		FieldKindTextarea,
		FieldKindCheckbox,
		FieldKindSelect,
		FieldKindRadio,
		FieldKindImage,
		FieldKindCategoryPicker,
	}
}

// Valid reports whether k is one of the supported kinds.
func (k FieldKind) Valid() bool {
	for _, kind := range FieldKinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// HasOptions reports whether the kind renders a list of options.
func (k FieldKind) HasOptions() bool {
	switch k {
	case FieldKindSelect, FieldKindRadio, FieldKindCategoryPicker:
		return true
	default:
		return false
	}
}

// IsTextual reports whether values of this kind are collected as strings.
func (k FieldKind) IsTextual() bool {
	switch k {
	case FieldKindCheckbox, FieldKindNumber:
		return false
	default:
		return true
	}
}

// Option is a single (value, label) pair offered by select-like fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// DisplayLabel falls back to the value when no label was supplied.
func (o Option) DisplayLabel() string {
	if strings.TrimSpace(o.Label) != "" {
		return o.Label
	}
	return o.Value
}

// Values is the mutable value map a form collects, keyed by field name.
type Values = map[string]any

// CheckFunc is a custom predicate. It receives the candidate value and the full
// value map so cross-field rules (for example "must match password") can be
// expressed. It returns true when the value is acceptable.
type CheckFunc func(value any, values Values) bool

// Check is a named custom rule. Description is the checklist text shown in
// summaries, Message is the error surfaced when Test fails.
type Check struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Message     string    `json:"message,omitempty" yaml:"message,omitempty"`
	Test        CheckFunc `json:"-" yaml:"-"`
}

// ValidationRules is the composite rule set attached to a field. Length and
// pattern constraints only apply to string values.
type ValidationRules struct {
	MinLength          *int    `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength          *int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern            string  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	PatternDescription string  `json:"patternDescription,omitempty" yaml:"patternDescription,omitempty"`
	Checks             []Check `json:"checks,omitempty" yaml:"checks,omitempty"`
}

// Empty reports whether no rule is configured.
func (r *ValidationRules) Empty() bool {
	return r == nil || (r.MinLength == nil && r.MaxLength == nil && r.Pattern == "" && len(r.Checks) == 0)
}

// DisabledFunc computes the disabled state of a field from the current values.
type DisabledFunc func(values Values) bool

// FieldDescriptor declares a single input.
type FieldDescriptor struct {
	Name          string           `json:"name" yaml:"name"`
	Label         string           `json:"label,omitempty" yaml:"label,omitempty"`
	Kind          FieldKind        `json:"kind" yaml:"kind"`
	Required      bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled      bool             `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	DisabledWhen  string           `json:"disabledWhen,omitempty" yaml:"disabledWhen,omitempty"`
	DisabledFunc  DisabledFunc     `json:"-" yaml:"-"`
	Options       []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	OptionsSource string           `json:"optionsSource,omitempty" yaml:"optionsSource,omitempty"`
	Validation    *ValidationRules `json:"validation,omitempty" yaml:"validation,omitempty"`
	Group         string           `json:"group,omitempty" yaml:"group,omitempty"`
	Placeholder   string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description   string           `json:"description,omitempty" yaml:"description,omitempty"`
	Default       any              `json:"default,omitempty" yaml:"default,omitempty"`
}

// DisplayLabel returns the label, falling back to the field name.
func (f FieldDescriptor) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// ZeroValue is the value a field resets to: its Default when set, false for
// checkboxes and the empty string otherwise.
func (f FieldDescriptor) ZeroValue() any {
	if f.Default != nil {
		return f.Default
	}
	if f.Kind == FieldKindCheckbox {
		return false
	}
	return ""
}

// FormConfig is the static template describing one form. It is authored once
// per entity type and never mutated at runtime.
type FormConfig struct {
	ID               string            `json:"id" yaml:"id"`
	Title            string            `json:"title" yaml:"title"`
	Fields           []FieldDescriptor `json:"fields" yaml:"fields"`
	SubmitLabel      string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	CancelLabel      string            `json:"cancelLabel,omitempty" yaml:"cancelLabel,omitempty"`
	ShowCancelButton bool              `json:"showCancelButton,omitempty" yaml:"showCancelButton,omitempty"`
}

// Field returns the descriptor with the given name.
func (c FormConfig) Field(name string) (FieldDescriptor, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// FieldNames lists field names in descriptor order.
func (c FormConfig) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for _, field := range c.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy so callers can patch options without touching the
// shared template.
func (c FormConfig) Clone() FormConfig {
	out := c
	out.Fields = make([]FieldDescriptor, len(c.Fields))
	for i, field := range c.Fields {
		cloned := field
		if len(field.Options) > 0 {
			cloned.Options = append([]Option(nil), field.Options...)
		}
		if field.Validation != nil {
			rules := *field.Validation
			if len(rules.Checks) > 0 {
				rules.Checks = append([]Check(nil), rules.Checks...)
			}
			cloned.Validation = &rules
		}
		out.Fields[i] = cloned
	}
	return out
}

// SubmitText returns the submit label with a default.
func (c FormConfig) SubmitText() string {
	if strings.TrimSpace(c.SubmitLabel) != "" {
		return c.SubmitLabel
	}
	return "Submit"
}

// CancelText returns the cancel label with a default.
func (c FormConfig) CancelText() string {
	if strings.TrimSpace(c.CancelLabel) != "" {
		return c.CancelLabel
	}
	return "Cancel"
}

// IntPtr is a small helper for building ValidationRules literals.
func IntPtr(v int) *int {
	return &v
}
