package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCookieName = "formengine_session"
	DefaultTTL        = 12 * time.Hour
)

// Config configures a Manager.
type Config struct {
	Secret     []byte
	Issuer     string
	CookieName string
	TTL        time.Duration
	Secure     bool
	Now        func() time.Time
}

// Manager reads and writes sessions on HTTP requests. Init must be called
// before use and Close on teardown; logout revocations live only for the
// lifetime of the Manager.
type Manager struct {
	cfg   Config
	codec *Codec

	mu      sync.Mutex
	ready   bool
	revoked map[string]time.Time
}

// NewManager applies defaults to cfg. Secrets are checked by Init.
func NewManager(cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{cfg: cfg}
}

// Init prepares the token codec.
func (m *Manager) Init(context.Context) error {
	codec, err := NewCodec(m.cfg.Secret, m.cfg.Issuer)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codec = codec
	m.revoked = make(map[string]time.Time)
	m.ready = true
	return nil
}

// Close forgets revocations. Later calls fail with ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = false
	m.revoked = nil
	return nil
}

func (m *Manager) codecFor() (*Codec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return nil, ErrClosed
	}
	return m.codec, nil
}

// Get returns the session carried by r.
func (m *Manager) Get(r *http.Request) (Session, error) {
	codec, err := m.codecFor()
	if err != nil {
		return Session{}, err
	}
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, ErrNoSession
	}
	s, err := codec.Decode(cookie.Value)
	if err != nil {
		return Session{}, err
	}
	if !s.Valid(m.cfg.Now()) || m.isRevoked(s.ID) {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Set issues a new token for s and writes the cookie. ID and ExpiresAt are
// filled when empty.
func (m *Manager) Set(w http.ResponseWriter, s Session) (Session, error) {
	codec, err := m.codecFor()
	if err != nil {
		return Session{}, err
	}
	if s.AdminID == "" {
		return Session{}, errors.New("session: admin id is required")
	}
	now := m.cfg.Now()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = now.Add(m.cfg.TTL)
	}
	token, err := codec.Encode(s, now)
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Clear revokes the session carried by r, if any, and expires the cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	if _, err := m.codecFor(); err != nil {
		return err
	}
	if s, err := m.Get(r); err == nil {
		m.mu.Lock()
		if m.revoked != nil {
			m.revoked[s.ID] = s.ExpiresAt
		}
		m.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.cfg.Now()
	for key, exp := range m.revoked {
		if !exp.IsZero() && now.After(exp) {
			delete(m.revoked, key)
		}
	}
	_, ok := m.revoked[id]
	return ok
}

// Require rejects requests without a session. HTML requests are redirected
// to loginPath with a next parameter; others get 401.
func (m *Manager) Require(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := m.Get(r)
			if err != nil {
				if wantsHTML(r) {
					target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized","code":"unauthorized"}`)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func wantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return r.Header.Get("Content-Type") == "application/x-www-form-urlencoded"
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}

// Token mints a bearer token for the session carried by ctx, for backends
// that share the signing secret. Without a session it returns "".
func (m *Manager) Token(ctx context.Context) string {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	codec, err := m.codecFor()
	if err != nil {
		return ""
	}
	token, err := codec.Encode(s, m.cfg.Now())
	if err != nil {
		return ""
	}
	return token
}
