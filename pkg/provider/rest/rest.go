// Package rest implements provider.Provider against a JSON REST backend
// exposing /{resource} and /{resource}/{id}.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-formengine/pkg/provider"
)

const maxResponseBytes = 10 << 20

// StatusError reports an unexpected response status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("rest: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("rest: unexpected status %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// TokenFunc supplies a bearer token for each request. An empty token sends
// no Authorization header.
type TokenFunc func(ctx context.Context) string

type config struct {
	client  *http.Client
	timeout time.Duration
	token   TokenFunc
}

// Option customises a Client.
type Option func(*config)

// WithHTTPClient injects the client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout caps every request.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithToken sets the bearer token source.
func WithToken(fn TokenFunc) Option {
	return func(c *config) {
		c.token = fn
	}
}

// Client is a provider.Provider backed by HTTP calls.
type Client[T provider.Entity[T]] struct {
	base string
	cfg  config
}

// New builds a Client for resource under baseURL.
func New[T provider.Entity[T]](baseURL, resource string, opts ...Option) (*Client[T], error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("rest: invalid base url %q", baseURL)
	}
	resource = strings.Trim(resource, "/")
	if resource == "" {
		return nil, errors.New("rest: resource is required")
	}
	cfg := config{client: http.DefaultClient, timeout: 10 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Client[T]{
		base: strings.TrimRight(u.String(), "/") + "/" + resource,
		cfg:  cfg,
	}, nil
}

// List implements provider.Provider.
func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.do(ctx, http.MethodGet, c.base, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get implements provider.Provider.
func (c *Client[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, c.itemURL(id), nil, &out)
	return out, err
}

// Create implements provider.Provider.
func (c *Client[T]) Create(ctx context.Context, item T) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPost, c.base, item, &out)
	return out, err
}

// Update implements provider.Provider.
func (c *Client[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPut, c.itemURL(id), item.WithID(id), &out)
	return out, err
}

// Delete implements provider.Provider.
func (c *Client[T]) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client[T]) itemURL(id string) string {
	return c.base + "/" + url.PathEscape(id)
}

func (c *Client[T]) do(ctx context.Context, method, target string, body any, out any) error {
	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("rest: encode %s %s: %w", method, target, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.token != nil {
		if token := c.cfg.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.cfg.client.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("rest: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("rest: %s %s: %w", method, target, provider.ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("rest: %s %s: %w", method, target, provider.ErrConflict)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		if verr := decodeValidation(data); verr != nil {
			return verr
		}
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("rest: decode %s %s: %w", method, target, err)
	}
	return nil
}

// errorBody is the backend validation payload: a message plus messages per
// field, where each value is a string or a list of strings.
type errorBody struct {
	Message string         `json:"message"`
	Error   string         `json:"error"`
	Errors  map[string]any `json:"errors"`
}

func decodeValidation(data []byte) *provider.ValidationError {
	var body errorBody
	if err := sonic.Unmarshal(data, &body); err != nil {
		return nil
	}
	verr := &provider.ValidationError{Message: body.Message, Fields: make(map[string][]string)}
	if verr.Message == "" {
		verr.Message = body.Error
	}
	for key, raw := range body.Errors {
		switch v := raw.(type) {
		case string:
			verr.Fields[key] = []string{v}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					verr.Fields[key] = append(verr.Fields[key], s)
				}
			}
		}
	}
	if verr.Message == "" && len(verr.Fields) == 0 {
		return nil
	}
	return verr
}
