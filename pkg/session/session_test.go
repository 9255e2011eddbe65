package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef-test")

func newManager(t *testing.T, now func() time.Time) *Manager {
	t.Helper()
	m := NewManager(Config{Secret: secret, Issuer: "formengine", Now: now})
	require.NoError(t, m.Init(context.Background()))
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestSetGetClear(t *testing.T) {
	m := newManager(t, nil)

	rec := httptest.NewRecorder()
	issued, err := m.Set(rec, Session{AdminID: "a1", Email: "ada@example.com", Name: "Ada", Role: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].HttpOnly)

	got, err := m.Get(requestWith(cookies))
	require.NoError(t, err)
	require.Equal(t, "a1", got.AdminID)
	require.Equal(t, "Ada", got.Name)
	require.Equal(t, issued.ID, got.ID)

	clearRec := httptest.NewRecorder()
	require.NoError(t, m.Clear(clearRec, requestWith(cookies)))
	require.Equal(t, -1, clearRec.Result().Cookies()[0].MaxAge)

	_, err = m.Get(requestWith(cookies))
	require.ErrorIs(t, err, ErrNoSession, "cleared token must be revoked")
}

func TestGetRejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Now()
	m := newManager(t, func() time.Time { return now })

	rec := httptest.NewRecorder()
	_, err := m.Set(rec, Session{AdminID: "a1", ExpiresAt: now.Add(time.Minute)})
	require.NoError(t, err)
	cookies := rec.Result().Cookies()

	now = now.Add(2 * time.Minute)
	_, err = m.Get(requestWith(cookies))
	require.ErrorIs(t, err, ErrNoSession)

	other := NewManager(Config{Secret: []byte("another-secret-value")})
	require.NoError(t, other.Init(context.Background()))
	foreign := httptest.NewRecorder()
	_, err = other.Set(foreign, Session{AdminID: "a2"})
	require.NoError(t, err)
	_, err = m.Get(requestWith(foreign.Result().Cookies()))
	require.ErrorIs(t, err, ErrNoSession)

	_, err = m.Get(requestWith(nil))
	require.ErrorIs(t, err, ErrNoSession)
}

func TestLifecycle(t *testing.T) {
	m := NewManager(Config{Secret: []byte("short")})
	require.Error(t, m.Init(context.Background()))

	m = NewManager(Config{Secret: secret})
	_, err := m.Get(requestWith(nil))
	require.ErrorIs(t, err, ErrClosed)

	require.NoError(t, m.Init(context.Background()))
	require.NoError(t, m.Close())
	_, err = m.Set(httptest.NewRecorder(), Session{AdminID: "a1"})
	require.True(t, errors.Is(err, ErrClosed))
}

func TestRequireMiddleware(t *testing.T) {
	m := newManager(t, nil)
	var seen Session
	protected := m.Require("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	page := httptest.NewRequest(http.MethodGet, "/tasks?page=2", nil)
	page.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, page)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login?next=%2Ftasks%3Fpage%3D2", rec.Header().Get("Location"))

	api := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	api.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, api)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	login := httptest.NewRecorder()
	_, err := m.Set(login, Session{AdminID: "a1", Name: "Ada"})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, requestWith(login.Result().Cookies()))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "Ada", seen.Name)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("Secret#1")
	require.NoError(t, err)
	require.True(t, IsHash(hash))
	require.False(t, IsHash("Secret#1"))
	require.True(t, CheckPassword("Secret#1", hash))
	require.False(t, CheckPassword("secret#1", hash))

	_, err = HashPassword("")
	require.Error(t, err)
}
