package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-formengine/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formengine/internal/openapi/parser"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/formconfig"
	"github.com/goliatone/go-formengine/pkg/model"
	pkgopenapi "github.com/goliatone/go-formengine/pkg/openapi"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/html"
	"github.com/goliatone/go-formengine/pkg/renderers/tui"
	"github.com/goliatone/go-formengine/pkg/validation"
)

const defaultRendererName = "html"

// ErrFormNotFound is returned when a request names an unknown form id.
var ErrFormNotFound = errors.New("orchestrator: form not found")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithForms injects a populated form store. Checks are resolved by the
// caller.
func WithForms(store *formconfig.Store) Option {
	return func(o *Orchestrator) {
		o.forms = store
	}
}

// WithFormsFS loads form configurations from fsys instead of the embedded
// defaults.
func WithFormsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.formsFS = fsys
	}
}

// WithCheckRegistry injects the registry used to bind named checks of loaded
// and imported forms.
func WithCheckRegistry(registry *validation.CheckRegistry) Option {
	return func(o *Orchestrator) {
		o.checks = registry
	}
}

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithOptionSource sets where OptionsSource lists are fetched from.
func WithOptionSource(src form.OptionSource) Option {
	return func(o *Orchestrator) {
		o.source = src
	}
}

// WithDisabledPolicy sets the payload policy for disabled fields of every
// form the orchestrator builds.
func WithDisabledPolicy(policy form.DisabledPolicy) Option {
	return func(o *Orchestrator) {
		o.policy = policy
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes = selector
	}
}

// Orchestrator coordinates forms, option sources and renderers. It applies
// sensible defaults (embedded forms, html renderer) while remaining open to
// dependency injection.
type Orchestrator struct {
	forms           *formconfig.Store
	formsFS         fs.FS
	checks          *validation.CheckRegistry
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	registry        *render.Registry
	defaultRenderer string
	source          form.OptionSource
	policy          form.DisabledPolicy
	themes          theme.ThemeSelector
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Err reports a failure while initialising defaults.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Forms exposes the form store.
func (o *Orchestrator) Forms() *formconfig.Store {
	return o.forms
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Request describes a form render.
type Request struct {
	// FormID selects the configuration from the store.
	FormID string

	// Renderer names the renderer to use. Empty uses the default.
	Renderer string

	// Values prefill the form (edit mode).
	Values model.Values

	// Errors are server-side field errors shown next to the fields.
	Errors map[string]string

	// Validate runs client-side validation before rendering so errors show
	// without a submit.
	Validate bool

	// ThemeName and ThemeVariant are passed to the theme selector.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request instructions such as the action URL.
	RenderOptions render.RenderOptions
}

// NewForm builds a form for id with the orchestrator's disabled policy and
// loads its option sources. Extra options are applied after the defaults.
func (o *Orchestrator) NewForm(ctx context.Context, id string, opts ...form.Option) (*form.Form, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	cfg, ok := o.forms.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return o.Build(ctx, cfg, opts...)
}

// Build is NewForm for a config the caller already holds, for example one
// adjusted for edit mode.
func (o *Orchestrator) Build(ctx context.Context, cfg model.FormConfig, opts ...form.Option) (*form.Form, error) {
	all := append([]form.Option{form.WithDisabledPolicy(o.policy)}, opts...)
	f := form.New(cfg, all...)
	if err := f.LoadOptions(ctx, o.source); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return f, nil
}

// Generate builds the requested form and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.FormID == "" {
		return nil, errors.New("orchestrator: form id is required")
	}

	f, err := o.NewForm(ctx, req.FormID, form.WithInitialValues(req.Values))
	if err != nil {
		return nil, err
	}
	if req.Validate {
		f.Validate()
	}
	if len(req.Errors) > 0 {
		merged := f.Errors()
		for k, v := range req.Errors {
			merged[k] = v
		}
		f.SetErrors(merged)
	}

	return o.Render(ctx, f, req)
}

// Render renders an existing form with the renderer and theme named in req.
func (o *Orchestrator) Render(ctx context.Context, f *form.Form, req Request) ([]byte, error) {
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil && o.themes != nil {
		selection, err := o.themes.Select(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: select theme: %w", err)
		}
		if selection != nil {
			opts.Theme = html.ThemeConfig(selection.Manifest, selection.Variant)
		}
	}

	output, err := renderer.Render(ctx, render.Snapshot(f), opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// ImportRequest names an OpenAPI document and, optionally, one operation.
type ImportRequest struct {
	Source      pkgopenapi.Source
	Document    *pkgopenapi.Document
	OperationID string
	// Store adds the imported forms to the orchestrator's store.
	Store bool
}

// Imported is one form derived from an operation.
type Imported struct {
	Form    model.FormConfig
	Skipped []string
}

// Import derives form configurations from an OpenAPI document. Without an
// OperationID every operation with an object request body is imported, in
// id order.
func (o *Orchestrator) Import(ctx context.Context, req ImportRequest) ([]Imported, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse operations: %w", err)
	}

	ids := make([]string, 0, len(operations))
	if req.OperationID != "" {
		if _, ok := operations[req.OperationID]; !ok {
			return nil, fmt.Errorf("orchestrator: operation %q not found", req.OperationID)
		}
		ids = append(ids, req.OperationID)
	} else {
		for id := range operations {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}

	var out []Imported
	for _, id := range ids {
		cfg, skipped, err := pkgopenapi.FormFromOperation(operations[id])
		if err != nil {
			if req.OperationID == "" && errors.Is(err, pkgopenapi.ErrNoRequestBody) {
				continue
			}
			return nil, fmt.Errorf("orchestrator: build form: %w", err)
		}
		resolved, err := o.checks.Resolve(cfg)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: form %q: %w", cfg.ID, err)
		}
		if req.Store {
			o.forms.Put(resolved)
		}
		out = append(out, Imported{Form: resolved, Skipped: skipped})
	}
	return out, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req ImportRequest) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	renderer, err := o.registry.Get(target)
	if err == nil {
		return renderer, nil
	}
	if name != "" {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
	}
	renderer, err = o.registry.Default()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.checks == nil {
		o.checks = validation.NewCheckRegistry()
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.forms == nil {
		fsys := o.formsFS
		if fsys == nil {
			fsys = formconfig.EmbeddedFS()
		}
		store, err := formconfig.Load(fsys, o.checks)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load forms: %w", err)
			o.forms = formconfig.NewStore()
		} else {
			o.forms = store
		}
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		htmlRenderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(htmlRenderer)
		textRenderer, err := tui.New(tui.WithOutputFormat(tui.OutputFormatPrettyText))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: text renderer: %w", err)
			return
		}
		o.registry.MustRegister(textRenderer)
	}
}
