// Package server assembles the dashboard: providers, forms, sessions and the
// HTTP routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/components/options"
	"github.com/goliatone/go-formengine/internal/config"
	"github.com/goliatone/go-formengine/internal/handler"
	"github.com/goliatone/go-formengine/internal/logging"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/renderers/html"
	"github.com/goliatone/go-formengine/pkg/session"
)

const (
	appName      = "Formengine"
	assetsPrefix = "/assets"
)

// App is a wired dashboard ready to serve.
type App struct {
	cfg      config.Config
	log      *zap.Logger
	stores   *Stores
	sessions *session.Manager
	router   chi.Router
}

// New wires the dashboard described by cfg.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sessions := session.NewManager(session.Config{
		Secret:     []byte(cfg.Session.Secret),
		Issuer:     "formengine",
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})
	if err := sessions.Init(ctx); err != nil {
		return nil, fmt.Errorf("server: sessions: %w", err)
	}

	stores, err := OpenStores(ctx, cfg.Provider, sessions.Token)
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}
	app := &App{cfg: cfg, log: log, stores: stores, sessions: sessions}

	created, err := SeedAdmin(ctx, stores.Admins, cfg.Admin)
	switch {
	case err != nil && cfg.Provider.Kind == config.ProviderREST:
		log.Warn("could not seed admin on the backend", zap.Error(err))
	case err != nil:
		_ = app.Close()
		return nil, err
	case created:
		log.Info("seeded admin account", zap.String("email", cfg.Admin.Email))
	}

	forms, err := app.orchestrator()
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	pages, err := handler.NewPages(appName, assetsPrefix, nil)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	h, err := handler.New(handler.Config{
		Logger:   log,
		Forms:    forms,
		Sessions: sessions,
		Admins:   stores.Admins,
		Pages:    pages,
		Ping:     stores.Ping,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	h.Register(
		handler.TaskResource(stores.Tasks),
		handler.ShopItemResource(stores.ShopItems),
		handler.BadgeResource(stores.Badges),
		handler.AdminResource(stores.Admins),
	)

	r := chi.NewRouter()
	r.Use(logging.Recovery(log))
	r.Use(logging.Middleware(log))
	r.Handle(assetsPrefix+"/*", http.StripPrefix(assetsPrefix+"/", http.FileServer(http.FS(html.AssetsFS()))))
	lists := options.New(options.WithSource(stores.Sources()))
	if err := h.Routes(r, lists); err != nil {
		_ = app.Close()
		return nil, err
	}
	app.router = r
	return app, nil
}

func (a *App) orchestrator() (*orchestrator.Orchestrator, error) {
	opts := []orchestrator.Option{
		orchestrator.WithOptionSource(a.stores.Sources()),
		orchestrator.WithDisabledPolicy(form.ParseDisabledPolicy(a.cfg.Forms.DisabledPolicy)),
	}
	if dir := a.cfg.Forms.Dir; dir != "" {
		opts = append(opts, orchestrator.WithFormsFS(os.DirFS(dir)))
	}
	if path := a.cfg.Theme.Manifest; path != "" {
		manifest, err := LoadManifest(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, orchestrator.WithThemeSelector(defaultVariant{
			ThemeSelector: orchestrator.NewStaticThemes(manifest),
			variant:       a.cfg.Theme.Variant,
		}))
	}
	forms := orchestrator.New(opts...)
	if err := forms.Err(); err != nil {
		return nil, err
	}
	return forms, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.router,
		ReadTimeout:       a.cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("dashboard listening",
			zap.String("addr", srv.Addr),
			zap.String("provider", a.cfg.Provider.Kind),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	a.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Close tears down sessions and providers.
func (a *App) Close() error {
	return errors.Join(a.sessions.Close(), a.stores.Close())
}
