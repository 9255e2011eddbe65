package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/domain"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/provider"
	"github.com/goliatone/go-formengine/pkg/session"
)

// LoginFormID names the sign-in form configuration.
const LoginFormID = "login"

var errBadCredentials = &provider.ValidationError{Message: "Invalid email or password"}

// LoginPage renders the sign-in form. Signed-in admins are sent on.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Get(r); err == nil {
		http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
		return
	}
	f, err := h.forms.NewForm(r.Context(), LoginFormID)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	h.renderLogin(w, r, f, http.StatusOK, nil)
}

// Login checks the submitted credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Bad request", "The submitted form could not be read.")
		return
	}

	var admin domain.Admin
	cfg, ok := h.forms.Forms().Get(LoginFormID)
	if !ok {
		h.errorPage(w, r, http.StatusInternalServerError, "Something went wrong", "The sign-in form is missing.")
		return
	}
	values := form.DecodeValues(cfg, r.PostForm)
	f, err := h.forms.Build(r.Context(), cfg,
		form.WithInitialValues(values),
		form.WithSubmit(func(ctx context.Context, payload model.Values) error {
			email, _ := payload["email"].(string)
			password, _ := payload["password"].(string)
			found, err := h.authenticate(ctx, email, password)
			if err != nil {
				return err
			}
			admin = found
			return nil
		}),
	)
	if err != nil {
		h.failPage(w, r, err)
		return
	}

	submitted, err := f.Submit(r.Context())
	switch {
	case err != nil:
		status, formErrors := h.applyBackendErrors(r, f, err)
		if errors.Is(err, errBadCredentials) {
			status = http.StatusUnauthorized
			email, _ := values["email"].(string)
			h.log.Info("sign-in rejected", zap.String("email", strings.ToLower(strings.TrimSpace(email))))
		}
		h.renderLogin(w, r, f, status, formErrors)
		return
	case !submitted:
		h.renderLogin(w, r, f, http.StatusUnprocessableEntity, nil)
		return
	}

	if _, err := h.sessions.Set(w, session.Session{
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
		Role:    admin.Role,
	}); err != nil {
		h.failPage(w, r, err)
		return
	}
	h.log.Info("admin signed in", zap.String("admin", admin.ID))
	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

// Logout ends the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.log.Warn("clear session failed", zap.Error(err))
	}
	http.Redirect(w, r, LoginPath+"?notice=signed-out", http.StatusSeeOther)
}

// authenticate finds the admin by email and checks the password hash.
func (h *Handler) authenticate(ctx context.Context, email, password string) (domain.Admin, error) {
	admins, err := h.admins.List(ctx)
	if err != nil {
		return domain.Admin{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range admins {
		if strings.ToLower(admin.Email) != email {
			continue
		}
		if session.CheckPassword(password, admin.Password) {
			return admin, nil
		}
		break
	}
	return domain.Admin{}, errBadCredentials
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, f *form.Form, status int, formErrors []string) {
	action := LoginPath
	if next := r.URL.Query().Get("next"); next != "" {
		action += "?next=" + url.QueryEscape(safeNext(next))
	}
	h.renderForm(w, r, formPage{
		Title:      "Sign in",
		Page:       "login",
		Status:     status,
		Form:       f,
		Action:     action,
		FormErrors: formErrors,
	})
}

// safeNext keeps redirects on this host.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
