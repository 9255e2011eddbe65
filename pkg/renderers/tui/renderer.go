package tui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
)

const noneOption = "(none)"

// Renderer drives a form.Form through terminal prompts. It also implements
// render.Renderer so a View snapshot can be printed without a terminal.
type Renderer struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	source       form.OptionSource
	maxRounds    int
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxRounds:    3,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if !r.outputFormat.valid() {
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render and Serialize.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render serializes the snapshot values. Pretty output also lists field
// errors and the requirement checklist.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyView(view, opts)), nil
	}
	return r.Serialize(viewValues(view))
}

// Fill prompts for every enabled field in layout order and submits the form.
// Each answer is validated as soon as it is given and re-prompted until it
// passes. Fields that still fail at submit time (for example a cross-field
// check invalidated by a later answer) are prompted again, up to the
// configured number of rounds. Disabled fields are never prompted and keep
// their value.
func (r *Renderer) Fill(ctx context.Context, f *form.Form) (model.Values, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.source != nil {
		if err := f.LoadOptions(ctx, r.source); err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
	}

	cfg := f.Config()
	if cfg.Title != "" {
		if err := r.info(ctx, cfg.Title); err != nil {
			return nil, err
		}
	}

	var pending map[string]string
	for round := 0; ; round++ {
		for _, row := range f.Rows() {
			if row.Grouped() && pending == nil {
				if err := r.info(ctx, "["+row.Group+"]"); err != nil {
					return nil, err
				}
			}
			for _, field := range row.Fields {
				if pending != nil {
					if _, ok := pending[field.Name]; !ok {
						continue
					}
				}
				if f.Disabled(field.Name) {
					continue
				}
				if err := r.promptField(ctx, f, field); err != nil {
					return nil, err
				}
			}
		}

		submitted, err := f.Submit(ctx)
		if err != nil {
			return nil, err
		}
		if submitted {
			return f.Payload(), nil
		}

		pending = f.Errors()
		for _, name := range cfg.FieldNames() {
			if msg, ok := pending[name]; ok {
				if err := r.errorf(ctx, msg); err != nil {
					return nil, err
				}
			}
		}
		if round+1 >= r.maxRounds || !promptable(f, pending) {
			return nil, fmt.Errorf("%w: %d field(s) failing", ErrInvalid, len(pending))
		}
	}
}

// Serialize encodes values in the configured output format.
func (r *Renderer) Serialize(values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		out, err := sonic.ConfigStd.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return out, nil
	}
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field model.FieldDescriptor) error {
	if field.Kind.HasOptions() && len(field.Options) == 0 {
		return r.info(ctx, fmt.Sprintf("%s: %s", field.DisplayLabel(), render.EmptyOptionsMessage))
	}

	current, _ := f.Value(field.Name)
	for {
		value, err := r.ask(ctx, field, current)
		if err != nil {
			return err
		}
		if err := f.OnFieldChange(field.Name, value); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		msg := f.ValidateField(field.Name)
		if msg == "" {
			return nil
		}
		if err := r.errorf(ctx, msg); err != nil {
			return err
		}
		current = value
	}
}

func (r *Renderer) ask(ctx context.Context, field model.FieldDescriptor, current any) (any, error) {
	message := r.theme.PromptPrefix + field.DisplayLabel()
	help := field.Description

	switch {
	case field.Kind == model.FieldKindCheckbox:
		checked, _ := current.(bool)
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked, Help: help})
		if err != nil {
			return nil, err
		}
		return resp, nil
	case field.Kind.HasOptions():
		return r.askOption(ctx, field, current, message, help)
	case field.Kind == model.FieldKindPassword:
		resp, err := r.driver.Password(ctx, InputConfig{Message: message, Help: help})
		if err != nil {
			return nil, err
		}
		if resp == "" && current != nil {
			return current, nil
		}
		return resp, nil
	case field.Kind == model.FieldKindTextarea:
		resp, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: form.FormatValue(current), Help: help})
		if err != nil {
			return nil, err
		}
		return resp, nil
	default:
		resp, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: form.FormatValue(current),
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		return form.ParseValue(field, resp), nil
	}
}

func (r *Renderer) askOption(ctx context.Context, field model.FieldDescriptor, current any, message, help string) (any, error) {
	values := make([]string, 0, len(field.Options)+1)
	labels := make([]string, 0, len(field.Options)+1)
	if !field.Required {
		values = append(values, "")
		labels = append(labels, noneOption)
	}
	for _, opt := range field.Options {
		values = append(values, opt.Value)
		labels = append(labels, opt.DisplayLabel())
	}

	cfg := SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: indexOf(values, form.FormatValue(current)),
		Help:         help,
	}
	for {
		idx, err := r.driver.Select(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if idx >= 0 && idx < len(values) {
			return values[idx], nil
		}
		if err := r.errorf(ctx, fmt.Sprintf("Invalid %s selection", field.DisplayLabel())); err != nil {
			return nil, err
		}
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

// promptable reports whether any failing field can still be answered.
func promptable(f *form.Form, pending map[string]string) bool {
	cfg := f.Config()
	for name := range pending {
		field, ok := cfg.Field(name)
		if !ok || f.Disabled(name) {
			continue
		}
		if field.Kind.HasOptions() && len(field.Options) == 0 {
			continue
		}
		return true
	}
	return false
}

func viewValues(view render.View) model.Values {
	out := make(model.Values)
	for _, field := range view.Fields() {
		if field.Kind == model.FieldKindCheckbox {
			out[field.Name] = field.Checked
			continue
		}
		out[field.Name] = field.Value
	}
	return out
}

func prettyView(view render.View, opts render.RenderOptions) string {
	var b strings.Builder
	if view.Title != "" {
		fmt.Fprintf(&b, "%s\n", view.Title)
	}
	for _, msg := range render.MergeFormErrors(opts.FormErrors) {
		fmt.Fprintf(&b, "! %s\n", msg)
	}
	for _, row := range view.Rows {
		if row.Group != "" {
			fmt.Fprintf(&b, "[%s]\n", row.Group)
		}
		for _, field := range row.Fields {
			value := field.Value
			if field.Kind == model.FieldKindCheckbox {
				value = fmt.Sprint(field.Checked)
			}
			if field.Kind == model.FieldKindPassword && field.Filled {
				value = "********"
			}
			if field.EmptyOptions {
				value = render.EmptyOptionsMessage
			}
			fmt.Fprintf(&b, "%s: %s", field.Label, value)
			if field.Disabled {
				b.WriteString(" (disabled)")
			}
			b.WriteString("\n")
			if field.HasError() {
				fmt.Fprintf(&b, "  ! %s\n", field.Error)
			}
		}
	}
	if !opts.HideSummary {
		for _, item := range view.Summary {
			mark := " "
			if item.Satisfied {
				mark = "x"
			}
			fmt.Fprintf(&b, "[%s] %s: %s\n", mark, item.FieldLabel, item.RuleText)
		}
	}
	return b.String()
}

func flattenForm(values model.Values) string {
	flattened := url.Values{}
	for key, val := range values {
		flattened.Set(key, form.FormatValue(val))
	}
	return flattened.Encode()
}

func prettyPrint(values model.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, form.FormatValue(values[key]))
	}
	return b.String()
}
