package render

import (
	"context"

	theme "github.com/goliatone/go-theme"
)

// Renderer turns a View into bytes (HTML, text). Implementations must not
// mutate the view.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}

// RenderOptions carry per-request data that is not part of the form state.
type RenderOptions struct {
	// Action is the URL the form posts to. Empty posts back to the page.
	Action string
	// Method defaults to POST.
	Method string
	// CancelURL is followed by the cancel button when the config shows one.
	CancelURL string
	// LiveURL, when set, makes HTML output open a websocket preview channel.
	LiveURL string
	// Hidden inputs emitted before the visible fields, sorted by name.
	Hidden []HiddenField
	// FormErrors are messages that belong to no particular field.
	FormErrors []string
	// HideSummary suppresses the validation checklist.
	HideSummary bool
	// Theme overrides the renderer's configured theme for this request.
	Theme *theme.RendererConfig
}

// MethodOrDefault returns the configured method or POST.
func (o RenderOptions) MethodOrDefault() string {
	if o.Method == "" {
		return "POST"
	}
	return o.Method
}
