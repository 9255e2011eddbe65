// Package session keeps the signed-in admin across requests. A Manager is
// injected into handlers; it reads and writes a signed JWT cookie, revokes
// tokens on logout and exposes the current Session through the request
// context.
package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoSession is returned when the request carries no valid session.
	ErrNoSession = errors.New("session: no session")
	// ErrClosed is returned by a Manager after Close.
	ErrClosed = errors.New("session: manager closed")
)

// Session is the signed-in admin.
type Session struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"adminId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session names an admin and has not expired.
func (s Session) Valid(now time.Time) bool {
	return s.AdminID != "" && (s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt))
}

type contextKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by the middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
