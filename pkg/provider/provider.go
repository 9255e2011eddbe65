// Package provider defines the data access contract the dashboard uses for
// every resource. Implementations are interchangeable: memory serves fixtures
// with a simulated backend delay, rest talks to the real API and sqlite keeps
// records locally.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("provider: not found")
	// ErrConflict is returned when creating a record whose id is taken.
	ErrConflict = errors.New("provider: conflict")
)

// Entity is implemented by value types that carry their own id.
type Entity[T any] interface {
	EntityID() string
	WithID(id string) T
}

// Provider is the CRUD surface of one resource. Create assigns an id when the
// item has none. Update replaces the whole record.
type Provider[T Entity[T]] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// ValidationError carries backend validation messages keyed by field path.
// Keys that match no field are shown as form-level messages.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

// NewValidationError builds a ValidationError with one message for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "provider: validation failed"
	}
	if e.Message != "" {
		return "provider: " + e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "provider: validation failed: " + strings.Join(parts, "; ")
}

// Payload returns the messages in the shape render.MapErrorPayload expects.
// The top-level message is keyed under "form".
func (e *ValidationError) Payload() map[string][]string {
	out := make(map[string][]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		out[k] = append([]string(nil), v...)
	}
	if e.Message != "" {
		out["form"] = append(out["form"], e.Message)
	}
	return out
}
