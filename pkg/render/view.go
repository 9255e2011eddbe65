package render

import (
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// EmptyOptionsMessage is shown for select-like fields that have no options.
const EmptyOptionsMessage = "No options available"

// View is an immutable snapshot of a form ready to be rendered. Renderers
// only read from it; all decisions (disabled state, layout, errors) are made
// when the snapshot is taken.
type View struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	SubmitLabel string             `json:"submitLabel"`
	CancelLabel string             `json:"cancelLabel"`
	ShowCancel  bool               `json:"showCancel"`
	Loading     bool               `json:"loading"`
	Rows        []RowView          `json:"rows"`
	Summary     validation.Summary `json:"summary"`
	Errors      map[string]string  `json:"errors"`
}

// RowView is one layout row.
type RowView struct {
	Group  string      `json:"group,omitempty"`
	Fields []FieldView `json:"fields"`
}

// FieldView is the render-ready state of one field. Password values are never
// copied into the view; Filled reports whether one is set.
type FieldView struct {
	Name         string          `json:"name"`
	Label        string          `json:"label"`
	Kind         model.FieldKind `json:"kind"`
	Value        string          `json:"value"`
	Filled       bool            `json:"filled,omitempty"`
	Checked      bool            `json:"checked,omitempty"`
	Required     bool            `json:"required,omitempty"`
	Disabled     bool            `json:"disabled,omitempty"`
	Placeholder  string          `json:"placeholder,omitempty"`
	Description  string          `json:"description,omitempty"`
	Error        string          `json:"error,omitempty"`
	Options      []OptionView    `json:"options,omitempty"`
	EmptyOptions bool            `json:"emptyOptions,omitempty"`
	MinLength    int             `json:"minLength,omitempty"`
	MaxLength    int             `json:"maxLength,omitempty"`
}

// OptionView is a selectable option with its selection state.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// HasError reports whether the field carries an error message.
func (f FieldView) HasError() bool {
	return f.Error != ""
}

// Snapshot captures the current state of f.
func Snapshot(f *form.Form) View {
	cfg := f.Config()
	values := f.Values()
	errs := f.Errors()
	disabled := f.DisabledMap()

	view := View{
		ID:          cfg.ID,
		Title:       cfg.Title,
		SubmitLabel: cfg.SubmitText(),
		CancelLabel: cfg.CancelText(),
		ShowCancel:  cfg.ShowCancelButton,
		Loading:     f.Loading(),
		Summary:     f.Summary(),
		Errors:      errs,
	}

	for _, row := range f.Rows() {
		rv := RowView{Group: row.Group}
		for _, field := range row.Fields {
			rv.Fields = append(rv.Fields, fieldView(field, values[field.Name], errs[field.Name], disabled[field.Name]))
		}
		view.Rows = append(view.Rows, rv)
	}
	return view
}

// Fields flattens the rows back into display order.
func (v View) Fields() []FieldView {
	var out []FieldView
	for _, row := range v.Rows {
		out = append(out, row.Fields...)
	}
	return out
}

// SummaryFor lists the checklist rows of one field.
func (v View) SummaryFor(name string) validation.Summary {
	return v.Summary.ForField(name)
}

func fieldView(field model.FieldDescriptor, value any, errMsg string, disabled bool) FieldView {
	fv := FieldView{
		Name:        field.Name,
		Label:       field.DisplayLabel(),
		Kind:        field.Kind,
		Value:       form.FormatValue(value),
		Required:    field.Required,
		Disabled:    disabled,
		Placeholder: field.Placeholder,
		Description: field.Description,
		Error:       errMsg,
	}
	fv.Filled = fv.Value != ""
	switch field.Kind {
	case model.FieldKindCheckbox:
		checked, _ := value.(bool)
		fv.Checked = checked
	case model.FieldKindPassword:
		fv.Value = ""
	}
	if rules := field.Validation; rules != nil {
		if rules.MinLength != nil {
			fv.MinLength = *rules.MinLength
		}
		if rules.MaxLength != nil {
			fv.MaxLength = *rules.MaxLength
		}
	}
	if field.Kind.HasOptions() {
		for _, opt := range field.Options {
			fv.Options = append(fv.Options, OptionView{
				Value:    opt.Value,
				Label:    opt.DisplayLabel(),
				Selected: opt.Value == fv.Value,
			})
		}
		fv.EmptyOptions = len(fv.Options) == 0
	}
	return fv
}
