package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/config"
	"github.com/goliatone/go-formengine/internal/domain"
	"github.com/goliatone/go-formengine/internal/server"
	"github.com/goliatone/go-formengine/pkg/provider/memory"
	"github.com/goliatone/go-formengine/pkg/session"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Provider.MockDelay = 0
	cfg.Admin = config.AdminConfig{Email: "root@example.com", Password: "Root#1234", Name: "Root"}
	return cfg
}

func TestOpenStoresMemory(t *testing.T) {
	cfg := testConfig(t)
	stores, err := server.OpenStores(context.Background(), cfg.Provider, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, stores.Close()) })

	tasks, err := stores.Tasks.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, len(domain.DefaultFixtures().Tasks))

	admins, err := stores.Admins.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, admins)

	opts, err := stores.Sources().Options(context.Background(), "categories")
	require.NoError(t, err)
	require.NotEmpty(t, opts)
	require.NoError(t, stores.Ping(context.Background()))
}

func TestOpenStoresWithoutFixtures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Provider.SeedFixtures = false
	stores, err := server.OpenStores(context.Background(), cfg.Provider, nil)
	require.NoError(t, err)

	tasks, err := stores.Tasks.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestOpenStoresSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Provider.Kind = config.ProviderSQLite
	cfg.Provider.DSN = "file:" + filepath.Join(t.TempDir(), "formengine.db")

	ctx := context.Background()
	stores, err := server.OpenStores(ctx, cfg.Provider, nil)
	require.NoError(t, err)
	require.NoError(t, stores.Ping(ctx))

	badges, err := stores.Badges.List(ctx)
	require.NoError(t, err)
	require.Len(t, badges, len(domain.DefaultFixtures().Badges))

	created, err := server.SeedAdmin(ctx, stores.Admins, cfg.Admin)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, stores.Close())

	// Reopening must not duplicate the seed data.
	stores, err = server.OpenStores(ctx, cfg.Provider, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })
	badges, err = stores.Badges.List(ctx)
	require.NoError(t, err)
	require.Len(t, badges, len(domain.DefaultFixtures().Badges))
	admins, err := stores.Admins.List(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
}

func TestOpenStoresUnknownKind(t *testing.T) {
	_, err := server.OpenStores(context.Background(), config.ProviderConfig{Kind: "redis"}, nil)
	require.ErrorContains(t, err, `unknown provider kind "redis"`)
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	admins := memory.New[domain.Admin](nil, memory.WithDelay(0))
	cfg := config.AdminConfig{Email: "root@example.com", Password: "Root#1234"}

	created, err := server.SeedAdmin(ctx, admins, cfg)
	require.NoError(t, err)
	require.True(t, created)

	list, err := admins.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Admin", list[0].Name)
	require.Equal(t, domain.RoleAdmin, list[0].Role)
	require.True(t, session.CheckPassword("Root#1234", list[0].Password))

	created, err = server.SeedAdmin(ctx, admins, cfg)
	require.NoError(t, err)
	require.False(t, created, "an existing admin blocks seeding")

	created, err = server.SeedAdmin(ctx, memory.New[domain.Admin](nil), config.AdminConfig{})
	require.NoError(t, err)
	require.False(t, created)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: acme\nversion: 1.0.0\ntokens:\n  brand: \"#123456\"\n"), 0o600))

	manifest, err := server.LoadManifest(path)
	require.NoError(t, err)
	require.Equal(t, "acme", manifest.Name)
	require.Equal(t, "#123456", manifest.Tokens["brand"])

	nameless := filepath.Join(dir, "nameless.yaml")
	require.NoError(t, os.WriteFile(nameless, []byte("version: 1.0.0\n"), 0o600))
	_, err = server.LoadManifest(nameless)
	require.ErrorContains(t, err, "has no name")

	_, err = server.LoadManifest(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestAppServesDashboard(t *testing.T) {
	cfg := testConfig(t)
	app, err := server.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })
	h := app.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/formengine.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	form := url.Values{"email": {cfg.Admin.Email}, "password": {cfg.Admin.Password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/tasks", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/shop-items/new", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `<option value="cat-treats">Treats</option>`)
}

func TestAppRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.HTTP.ShutdownTimeout = time.Second
	app, err := server.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewRejectsBadThemeManifest(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theme.Manifest = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := server.New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}
