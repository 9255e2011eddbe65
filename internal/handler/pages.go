package handler

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-formengine/pkg/render/template/pongo"
)

//go:embed templates/*.tmpl
var embeddedPages embed.FS

// notices are the flash messages selectable with ?notice=.
var notices = map[string]string{
	"created":    "Saved.",
	"updated":    "Changes saved.",
	"deleted":    "Deleted.",
	"signed-out": "You have been signed out.",
}

// Pages renders dashboard pages: a content template wrapped by layout.tmpl.
type Pages struct {
	engine     *pongo.Engine
	appName    string
	stylesheet string
}

// NewPages builds the page renderer over the embedded templates. pages may
// override them.
func NewPages(appName, assetsPrefix string, pages fs.FS) (*Pages, error) {
	if pages == nil {
		sub, err := fs.Sub(embeddedPages, "templates")
		if err != nil {
			return nil, fmt.Errorf("handler: page templates: %w", err)
		}
		pages = sub
	}
	engine, err := pongo.New(pongo.WithFS(pages), pongo.WithSetName("formengine-pages"))
	if err != nil {
		return nil, fmt.Errorf("handler: page engine: %w", err)
	}
	return &Pages{
		engine:     engine,
		appName:    appName,
		stylesheet: assetsPrefix + "/formengine.css",
	}, nil
}

// Render executes page with data and writes the wrapped result.
func (p *Pages) Render(w http.ResponseWriter, status int, page string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["app_name"] = p.appName
	data["stylesheet"] = p.stylesheet

	content, err := p.engine.RenderTemplate(page, data)
	if err != nil {
		return fmt.Errorf("handler: render %s: %w", page, err)
	}
	data["content"] = content
	out, err := p.engine.RenderTemplate("layout", data)
	if err != nil {
		return fmt.Errorf("handler: render layout: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write([]byte(out))
	return err
}
