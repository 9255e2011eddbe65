// Package handler serves the dashboard: login, resource pages, the JSON API
// and the live form preview.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/domain"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/provider"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/session"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// Config carries the handler dependencies.
type Config struct {
	Logger   *zap.Logger
	Forms    *orchestrator.Orchestrator
	Sessions *session.Manager
	Admins   provider.Provider[domain.Admin]
	Pages    *Pages
	// Ping reports backend health for /healthz. Optional.
	Ping func(ctx context.Context) error
}

// Handler holds the shared dependencies of every route.
type Handler struct {
	log       *zap.Logger
	forms     *orchestrator.Orchestrator
	sessions  *session.Manager
	admins    provider.Provider[domain.Admin]
	pages     *Pages
	ping      func(ctx context.Context) error
	resources []Mountable
}

// New validates cfg and builds a Handler.
func New(cfg Config) (*Handler, error) {
	switch {
	case cfg.Forms == nil:
		return nil, errors.New("handler: orchestrator is required")
	case cfg.Sessions == nil:
		return nil, errors.New("handler: session manager is required")
	case cfg.Admins == nil:
		return nil, errors.New("handler: admin provider is required")
	case cfg.Pages == nil:
		return nil, errors.New("handler: pages are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		log:      cfg.Logger,
		forms:    cfg.Forms,
		sessions: cfg.Sessions,
		admins:   cfg.Admins,
		pages:    cfg.Pages,
		ping:     cfg.Ping,
	}, nil
}

// Register adds resources to the dashboard navigation and routes.
func (h *Handler) Register(resources ...Mountable) {
	h.resources = append(h.resources, resources...)
}

// Home redirects to the first registered resource.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if len(h.resources) == 0 {
		h.errorPage(w, r, http.StatusNotFound, "Nothing to manage", "No resources are registered.")
		return
	}
	http.Redirect(w, r, h.resources[0].Link().Href, http.StatusSeeOther)
}

// Health reports liveness and, when configured, backend reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// page returns the layout data shared by every page.
func (h *Handler) page(r *http.Request, title string) map[string]any {
	data := map[string]any{"title": title}
	if s, ok := session.FromContext(r.Context()); ok {
		data["user"] = s
	}
	nav := make([]NavLink, 0, len(h.resources))
	for _, res := range h.resources {
		link := res.Link()
		link.Active = r.URL.Path == link.Href || strings.HasPrefix(r.URL.Path, link.Href+"/")
		nav = append(nav, link)
	}
	data["nav"] = nav
	if msg, ok := notices[r.URL.Query().Get("notice")]; ok {
		data["notice"] = msg
	}
	return data
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	if err := h.pages.Render(w, status, page, data); err != nil {
		h.log.Error("render page failed", zap.String("page", page), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	data := h.page(r, heading)
	data["heading"] = heading
	data["message"] = message
	h.render(w, r, status, "error", data)
}

// failPage renders err as an error page with the status statusFor picks.
func (h *Handler) failPage(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}
	switch status {
	case http.StatusNotFound:
		h.errorPage(w, r, status, "Not found", "The record you asked for does not exist.")
	case http.StatusInternalServerError:
		h.errorPage(w, r, status, "Something went wrong", "The request could not be completed.")
	default:
		h.errorPage(w, r, status, http.StatusText(status), err.Error())
	}
}

// formPage describes a rendered form page.
type formPage struct {
	Title      string
	Page       string
	Status     int
	Form       *form.Form
	Action     string
	CancelURL  string
	FormErrors []string
	Live       bool
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, p formPage) {
	opts := render.RenderOptions{
		Action:     p.Action,
		CancelURL:  p.CancelURL,
		FormErrors: p.FormErrors,
	}
	cfg := p.Form.Config()
	if p.Live {
		opts.LiveURL = "/ws/forms/" + cfg.ID
	}
	out, err := h.forms.Render(r.Context(), p.Form, orchestrator.Request{
		ThemeName:     r.URL.Query().Get("theme"),
		ThemeVariant:  r.URL.Query().Get("variant"),
		RenderOptions: opts,
	})
	if err != nil {
		h.failPage(w, r, err)
		return
	}

	data := h.page(r, p.Title)
	data["form"] = string(out)
	if p.Live {
		data["preview_id"] = "fe-" + cfg.ID
	}
	page := p.Page
	if page == "" {
		page = "form"
	}
	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	h.render(w, r, status, page, data)
}

// applyBackendErrors maps a backend validation error onto f and returns the
// form-level messages. Other errors yield a single form-level message.
func (h *Handler) applyBackendErrors(r *http.Request, f *form.Form, err error) (int, []string) {
	var verr *provider.ValidationError
	if errors.As(err, &verr) {
		mapping := render.MapErrorPayload(f.Config(), verr.Payload())
		if len(mapping.Fields) > 0 {
			merged := f.Errors()
			for name, msg := range mapping.Fields {
				merged[name] = msg
			}
			f.SetErrors(merged)
		}
		return http.StatusUnprocessableEntity, mapping.Form
	}
	status, _ := statusFor(err)
	switch status {
	case http.StatusNotFound:
		return status, []string{"The record no longer exists."}
	case http.StatusConflict:
		return status, []string{"A record with the same id already exists."}
	}
	h.log.Error("submit failed", zap.String("form", f.Config().ID), zap.String("path", r.URL.Path), zap.Error(err))
	return status, []string{"The request could not be completed. Please try again."}
}
