// Package model defines the static form schema consumed by the engine: a
// FormConfig is an ordered list of FieldDescriptors plus submit/cancel labels.
// Descriptors carry the input kind, required flag, static or computed
// disabling (an expression in DisabledWhen or a Go DisabledFunc), option lists
// for select-like kinds, an optional layout group, and ValidationRules.
//
// ValidationRules combine length bounds, an anchored regular expression and
// named custom Checks. Checks loaded from JSON/YAML only carry a name; the
// formconfig package resolves them against the validation check registry so
// the Test function is always populated before a form is used.
//
// Runtime state never lives here. The form package owns values and errors;
// a FormConfig is treated as immutable once constructed.
package model
