package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formengine/pkg/formconfig"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
)

func TestGenerateAppliesThemeSelection(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"primary": "#111111", "accent": "#222222"},
		Variants: map[string]theme.Variant{
			"custom-variant": {Tokens: map[string]string{"accent": "#333333"}},
		},
	}
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:    "acme",
		Variant:  "custom-variant",
		Manifest: manifest,
	}}
	capture := &captureRenderer{}
	o := New(WithForms(badgeStore()), WithRegistry(captureRegistry(capture)), WithThemeSelector(selector))

	out, err := o.Generate(context.Background(), Request{
		FormID:       "badge",
		Renderer:     "capture",
		ThemeName:    "acme",
		ThemeVariant: "custom-variant",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "badge" {
		t.Fatalf("unexpected output %q", out)
	}

	if len(selector.calls) != 1 || selector.calls[0] != (selectorCall{name: "acme", variant: "custom-variant"}) {
		t.Fatalf("unexpected selector calls %+v", selector.calls)
	}
	cfg := capture.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config on render options")
	}
	if cfg.Theme != "acme" || cfg.Variant != "custom-variant" {
		t.Fatalf("unexpected theme %q/%q", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["accent"] != "#333333" || cfg.Tokens["primary"] != "#111111" {
		t.Fatalf("variant tokens not merged: %+v", cfg.Tokens)
	}
	if cfg.CSSVars["--accent"] != "#333333" {
		t.Fatalf("css vars not derived: %+v", cfg.CSSVars)
	}
}

func TestGenerateKeepsExplicitTheme(t *testing.T) {
	selector := &stubThemeSelector{}
	capture := &captureRenderer{}
	o := New(WithForms(badgeStore()), WithRegistry(captureRegistry(capture)), WithThemeSelector(selector))

	explicit := &theme.RendererConfig{Theme: "inline"}
	_, err := o.Generate(context.Background(), Request{
		FormID:        "badge",
		Renderer:      "capture",
		RenderOptions: render.RenderOptions{Theme: explicit},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(selector.calls) != 0 {
		t.Fatalf("selector should not run when a theme is given")
	}
	if capture.options.Theme != explicit {
		t.Fatalf("explicit theme was replaced")
	}
}

func TestGenerateThemeSelectorError(t *testing.T) {
	selector := &stubThemeSelector{err: errors.New("boom")}
	o := New(WithForms(badgeStore()), WithRegistry(captureRegistry(&captureRenderer{})), WithThemeSelector(selector))

	_, err := o.Generate(context.Background(), Request{FormID: "badge", Renderer: "capture"})
	if err == nil || !strings.Contains(err.Error(), "select theme") {
		t.Fatalf("expected select theme error, got %v", err)
	}
}

func TestStaticThemesSelect(t *testing.T) {
	themes := NewStaticThemes(
		&theme.Manifest{Name: "light", Variants: map[string]theme.Variant{"contrast": {}}},
		&theme.Manifest{Name: "dark"},
	)

	sel, err := themes.Select("", "contrast")
	if err != nil {
		t.Fatalf("select fallback: %v", err)
	}
	if sel.Theme != "light" || sel.Variant != "contrast" {
		t.Fatalf("unexpected selection %+v", sel)
	}

	sel, err = themes.Select("dark", "missing")
	if err != nil {
		t.Fatalf("select dark: %v", err)
	}
	if sel.Theme != "dark" || sel.Variant != "" {
		t.Fatalf("unknown variant should fall back to base: %+v", sel)
	}

	if _, err := themes.Select("nope", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if got := strings.Join(themes.Names(), ","); got != "dark,light" {
		t.Fatalf("unexpected names %q", got)
	}
}

func badgeStore() *formconfig.Store {
	store := formconfig.NewStore()
	store.Put(model.FormConfig{
		ID:    "badge",
		Title: "New badge",
		Fields: []model.FieldDescriptor{
			{Name: "name", Label: "Name", Kind: model.FieldKindText, Required: true},
		},
	})
	return store
}

func captureRegistry(r render.Renderer) *render.Registry {
	registry := render.NewRegistry()
	registry.MustRegister(r)
	return registry
}

type captureRenderer struct {
	options render.RenderOptions
	view    render.View
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	r.view = view
	return []byte(view.ID), nil
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
