package options

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-formengine/pkg/form"
)

const (
	// SourceParam is the path wildcard naming the option source.
	SourceParam = "source"

	defaultRoute = "/api/options"
	defaultLimit = 50
	maxLimit     = 200
)

// Mux is satisfied by *http.ServeMux and chi.Router.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Component serves option lists at <route>/{source}?q=&limit=.
type Component struct {
	source       form.OptionSource
	route        string
	defaultLimit int
	maxLimit     int
	listAll      bool
	guard        func(*http.Request) error
}

type Option func(*Component)

// New returns a component mounted at /api/options that lists the first 50
// entries when the query is empty.
func New(opts ...Option) *Component {
	c := &Component{
		route:        defaultRoute,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		listAll:      true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func WithSource(src form.OptionSource) Option {
	return func(c *Component) {
		c.source = src
	}
}

func WithRoute(route string) Option {
	return func(c *Component) {
		if route = strings.Trim(strings.TrimSpace(route), "/"); route != "" {
			c.route = "/" + route
		}
	}
}

// WithLimits sets the limit used when the request has none and the cap
// applied to every request. Non-positive values keep the defaults.
func WithLimits(def, max int) Option {
	return func(c *Component) {
		if def > 0 {
			c.defaultLimit = def
		}
		if max > 0 {
			c.maxLimit = max
		}
	}
}

// WithoutEmptyListing answers an empty query with no options.
func WithoutEmptyListing() Option {
	return func(c *Component) {
		c.listAll = false
	}
}

// WithGuard rejects requests for which guard returns an error. The response
// is 403 unless the error carries a status (see Deny).
func WithGuard(guard func(*http.Request) error) Option {
	return func(c *Component) {
		c.guard = guard
	}
}

// Pattern is the route pattern under base, including the {source} wildcard.
func (c *Component) Pattern(base string) string {
	base = strings.Trim(strings.TrimSpace(base), "/")
	if base != "" {
		base = "/" + base
	}
	return base + c.route + "/{" + SourceParam + "}"
}

// Mount registers the component under base and returns the pattern used.
func (c *Component) Mount(mux Mux, base string) (string, error) {
	if mux == nil {
		return "", errors.New("options: missing mux")
	}
	pattern := c.Pattern(base)
	mux.Handle(pattern, c)
	return pattern, nil
}

func (c *Component) clamp(limit int) int {
	switch {
	case limit < 0:
		return 0
	case limit == 0:
		limit = c.defaultLimit
	}
	return min(limit, c.maxLimit)
}
