package formengine

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	pkgopenapi "github.com/goliatone/go-formengine/pkg/openapi"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/render"
)

// RenderOptions describes per-request render instructions such as the action
// URL, hidden inputs and form-level errors.
type RenderOptions = render.RenderOptions

// Values maps field names to their current values.
type Values = model.Values

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders one of the built-in (or injected) form configurations
// with the html renderer, prefilled with values.
func GenerateHTML(ctx context.Context, formID string, values Values, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		FormID:   formID,
		Renderer: "html",
		Values:   values,
	})
}

// ImportOpenAPI loads source and derives one form per operation that has an
// object request body.
func ImportOpenAPI(ctx context.Context, source pkgopenapi.Source, options ...orchestrator.Option) ([]orchestrator.Imported, error) {
	gen := orchestrator.New(options...)
	return gen.Import(ctx, orchestrator.ImportRequest{Source: source})
}

// WithOptionSource forwards the source used to fill select fields that name an
// OptionsSource.
func WithOptionSource(src form.OptionSource) orchestrator.Option {
	return orchestrator.WithOptionSource(src)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemes registers static manifests as the theme selector. The first
// manifest is the fallback.
func WithThemes(manifests ...*theme.Manifest) orchestrator.Option {
	return orchestrator.WithThemeSelector(orchestrator.NewStaticThemes(manifests...))
}
