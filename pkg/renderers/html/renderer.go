// Package html renders form views as server-side HTML fragments using pongo2
// templates. Field help text is sanitised with bluemonday before it reaches
// the template, and go-theme tokens become CSS custom properties on the form.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
	rendertemplate "github.com/goliatone/go-formengine/pkg/render/template"
	"github.com/goliatone/go-formengine/pkg/render/template/pongo"
)

const formTemplate = "templates/form.tmpl"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS   fs.FS
	engine       rendertemplate.Engine
	theme        *theme.RendererConfig
	policy       *bluemonday.Policy
	assetsPrefix string
	selectPrompt string
	emptyMessage string
}

// WithTemplatesFS replaces the embedded templates. The bundle must provide
// templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateEngine injects a custom engine.
func WithTemplateEngine(engine rendertemplate.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithTheme applies a resolved theme configuration (see ThemeConfig).
func WithTheme(t *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = t
	}
}

// WithSanitizer overrides the policy used for field help text.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithAssetsPrefix sets the URL prefix the live preview script is served
// under. Defaults to /assets.
func WithAssetsPrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix != "" {
			cfg.assetsPrefix = prefix
		}
	}
}

// WithSelectPrompt sets the placeholder option of select fields.
func WithSelectPrompt(text string) Option {
	return func(cfg *config) {
		cfg.selectPrompt = text
	}
}

// Renderer produces HTML form fragments.
type Renderer struct {
	engine rendertemplate.Engine
	cfg    config
}

var _ render.Renderer = (*Renderer)(nil)

// New builds the renderer with the embedded templates unless overridden.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		policy:       bluemonday.UGCPolicy(),
		assetsPrefix: "/assets",
		selectPrompt: "Select…",
		emptyMessage: render.EmptyOptionsMessage,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	engine := cfg.engine
	if engine == nil {
		e, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithSetName("html"))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template engine: %w", err)
		}
		engine = e
	}
	return &Renderer{engine: engine, cfg: cfg}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the form template for view.
func (r *Renderer) Render(_ context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	out, err := r.engine.RenderTemplate(formTemplate, r.templateData(view, opts))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) templateData(view render.View, opts render.RenderOptions) map[string]any {
	data := map[string]any{
		"form":          r.formData(view),
		"method":        opts.MethodOrDefault(),
		"action":        opts.Action,
		"cancel_url":    opts.CancelURL,
		"live_url":      opts.LiveURL,
		"live_script":   r.cfg.assetsPrefix + "/" + LiveScriptName,
		"form_errors":   render.MergeFormErrors(opts.FormErrors),
		"hidden":        hiddenData(opts.Hidden),
		"select_prompt": r.cfg.selectPrompt,
		"empty_message": r.cfg.emptyMessage,
		"theme":         themeData(r.themeFor(opts)),
	}
	if !opts.HideSummary {
		data["summary"] = summaryData(view)
	}
	return data
}

func (r *Renderer) formData(view render.View) map[string]any {
	rows := make([]map[string]any, 0, len(view.Rows))
	for _, row := range view.Rows {
		fields := make([]map[string]any, 0, len(row.Fields))
		for _, field := range row.Fields {
			fields = append(fields, r.fieldData(view.ID, field))
		}
		rows = append(rows, map[string]any{"group": row.Group, "fields": fields})
	}
	return map[string]any{
		"id":           view.ID,
		"title":        view.Title,
		"submit_label": view.SubmitLabel,
		"cancel_label": view.CancelLabel,
		"show_cancel":  view.ShowCancel,
		"loading":      view.Loading,
		"rows":         rows,
	}
}

func (r *Renderer) fieldData(formID string, field render.FieldView) map[string]any {
	options := make([]map[string]any, 0, len(field.Options))
	for _, opt := range field.Options {
		options = append(options, map[string]any{
			"value":    opt.Value,
			"label":    opt.Label,
			"selected": opt.Selected,
		})
	}
	value := field.Value
	help := ""
	if field.Description != "" {
		help = r.cfg.policy.Sanitize(field.Description)
	}
	return map[string]any{
		"id":            "fe-" + formID + "-" + field.Name,
		"name":          field.Name,
		"label":         field.Label,
		"kind":          string(field.Kind),
		"input_type":    inputType(field.Kind),
		"value":         value,
		"checked":       field.Checked,
		"required":      field.Required,
		"disabled":      field.Disabled,
		"placeholder":   field.Placeholder,
		"help":          help,
		"error":         field.Error,
		"options":       options,
		"empty_options": field.EmptyOptions,
		"min_length":    field.MinLength,
		"max_length":    field.MaxLength,
	}
}

func inputType(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindEmail:
		return "email"
	case model.FieldKindPassword:
		return "password"
	case model.FieldKindNumber:
		return "number"
	case model.FieldKindImage:
		return "url"
	default:
		return "text"
	}
}

func summaryData(view render.View) []map[string]any {
	if len(view.Summary) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(view.Summary))
	for _, item := range view.Summary {
		out = append(out, map[string]any{
			"field":     item.FieldName,
			"label":     item.FieldLabel,
			"text":      item.RuleText,
			"satisfied": item.Satisfied,
		})
	}
	return out
}

func hiddenData(fields []render.HiddenField) []map[string]any {
	sorted := render.SortHidden(fields)
	out := make([]map[string]any, 0, len(sorted))
	for _, h := range sorted {
		out = append(out, map[string]any{"name": h.Name, "value": h.Value})
	}
	return out
}

func (r *Renderer) themeFor(opts render.RenderOptions) *theme.RendererConfig {
	if opts.Theme != nil {
		return opts.Theme
	}
	return r.cfg.theme
}

func themeData(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	stylesheet := ""
	if cfg.AssetURL != nil {
		stylesheet = cfg.AssetURL("stylesheet")
	}
	return map[string]any{
		"name":       cfg.Theme,
		"variant":    cfg.Variant,
		"style":      cssVarsStyle(cfg.CSSVars),
		"stylesheet": stylesheet,
	}
}
