package validation

import "github.com/goliatone/go-formengine/pkg/model"

// Validate returns the error message for value, or "" when the field is valid.
//
// Evaluation order:
//  1. required: a blank value on a required field fails and stops here.
//  2. a blank optional value passes without running any other rule.
//  3. custom checks, when the field declares any. Their verdict is final and
//     length and pattern rules are not run; use the minLength:<n> and
//     maxLength:<n> checks to combine them.
//  4. otherwise length and pattern rules (string values only).
//
// The first failing rule's message is returned. Summarize lists exactly the
// rules run here.
func Validate(field model.FieldDescriptor, value any, values model.Values) string {
	return Compile(field).Validate(value, values)
}

// Validate runs the compiled rules. See the package level Validate.
func (fr FieldRules) Validate(value any, values model.Values) string {
	if IsBlank(value) {
		if fr.Required != nil {
			return fr.Required.Message
		}
		return ""
	}

	for _, rule := range fr.Declared() {
		if !rule.Satisfied(value, values) {
			return rule.Message
		}
	}
	return ""
}

// ValidateAll validates every descriptor against values and returns the
// messages keyed by field name. An empty map means the form may be submitted.
func ValidateAll(fields []model.FieldDescriptor, values model.Values) map[string]string {
	errs := make(map[string]string)
	for _, field := range fields {
		if msg := Validate(field, values[field.Name], values); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}
