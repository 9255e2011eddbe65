package form

import "github.com/goliatone/go-formengine/pkg/model"

// Row is one horizontal line of the layout. Group is empty for a stacked,
// ungrouped field.
type Row struct {
	Group  string
	Fields []model.FieldDescriptor
}

// Grouped reports whether the row holds a field group.
func (r Row) Grouped() bool {
	return r.Group != ""
}

// Rows lays out the config: every ungrouped field gets its own row in
// descriptor order, followed by one row per group in order of the group's
// first appearance. Fields inside a group keep descriptor order.
func (f *Form) Rows() []Row {
	return Layout(f.config.Fields)
}

// Layout is the pure form of Form.Rows.
func Layout(fields []model.FieldDescriptor) []Row {
	var rows []Row
	groups := make(map[string]int)
	var grouped []Row

	for _, field := range fields {
		if field.Group == "" {
			rows = append(rows, Row{Fields: []model.FieldDescriptor{field}})
			continue
		}
		idx, ok := groups[field.Group]
		if !ok {
			idx = len(grouped)
			groups[field.Group] = idx
			grouped = append(grouped, Row{Group: field.Group})
		}
		grouped[idx].Fields = append(grouped[idx].Fields, field)
	}
	return append(rows, grouped...)
}
