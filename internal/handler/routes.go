package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formengine/components/options"
)

// Routes registers every dashboard route on r. Everything except sign-in and
// health checks requires a session.
func (h *Handler) Routes(r chi.Router, lists *options.Component) error {
	r.Get("/healthz", h.Health)
	r.Get(LoginPath, h.LoginPage)
	r.Post(LoginPath, h.Login)
	r.Post("/logout", h.Logout)

	var mountErr error
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Require(LoginPath))
		r.Get("/", h.Home)
		for _, res := range h.resources {
			res.MountPages(h, r)
			res.MountAPI(h, r)
		}
		r.Post("/api/forms/{"+FormParam+"}/validate", h.ValidateForm)
		r.Get("/ws/forms/{"+FormParam+"}", h.LiveForm)
		if lists != nil {
			_, mountErr = lists.Mount(r, "/")
		}
	})
	return mountErr
}
