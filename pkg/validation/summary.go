package validation

import "github.com/goliatone/go-formengine/pkg/model"

// SummaryItem is one row of the read-only checklist.
type SummaryItem struct {
	FieldName  string   `json:"fieldName"`
	FieldLabel string   `json:"fieldLabel"`
	Kind       RuleKind `json:"kind"`
	RuleText   string   `json:"ruleText"`
	Satisfied  bool     `json:"satisfied"`
}

// Summary is the full checklist for a form.
type Summary []SummaryItem

// AllSatisfied reports whether every row passes.
func (s Summary) AllSatisfied() bool {
	for _, item := range s {
		if !item.Satisfied {
			return false
		}
	}
	return true
}

// ForField returns the rows belonging to name, in rule order.
func (s Summary) ForField(name string) Summary {
	var out Summary
	for _, item := range s {
		if item.FieldName == name {
			out = append(out, item)
		}
	}
	return out
}

// Summarize lists every declared rule of every field together with whether
// the current value satisfies it. Rows follow descriptor order, then rule
// order (length, pattern, custom checks). Fields without validation rules
// contribute nothing.
func Summarize(fields []model.FieldDescriptor, values model.Values) Summary {
	var out Summary
	for _, field := range fields {
		if field.Validation.Empty() {
			continue
		}
		value := values[field.Name]
		for _, rule := range Compile(field).Declared() {
			out = append(out, SummaryItem{
				FieldName:  field.Name,
				FieldLabel: rule.Label,
				Kind:       rule.Kind,
				RuleText:   rule.Description,
				Satisfied:  rule.Satisfied(value, values),
			})
		}
	}
	return out
}
