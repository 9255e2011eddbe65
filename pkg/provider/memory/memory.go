// Package memory serves records from process memory. Every call waits a fixed
// delay before touching the data, to mimic a remote backend.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formengine/pkg/provider"
)

// DefaultDelay is the simulated backend latency.
const DefaultDelay = 300 * time.Millisecond

type config struct {
	delay time.Duration
	newID func() string
}

// Option customises a Store.
type Option func(*config)

// WithDelay overrides the simulated latency. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithIDGenerator replaces the uuid generator used by Create.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Store is a provider.Provider kept in a map. List returns records in
// insertion order.
type Store[T provider.Entity[T]] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	cfg   config
}

// New builds a Store holding seed. Seed records without an id get one.
func New[T provider.Entity[T]](seed []T, opts ...Option) *Store[T] {
	cfg := config{delay: DefaultDelay, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	s := &Store[T]{items: make(map[string]T, len(seed)), cfg: cfg}
	for _, item := range seed {
		if item.EntityID() == "" {
			item = item.WithID(cfg.newID())
		}
		if _, exists := s.items[item.EntityID()]; exists {
			continue
		}
		s.items[item.EntityID()] = item
		s.order = append(s.order, item.EntityID())
	}
	return s
}

// The wait is not interrupted by ctx; a canceled request still observes the
// full delay.
func (s *Store[T]) wait() {
	if s.cfg.delay > 0 {
		time.Sleep(s.cfg.delay)
	}
}

// List implements provider.Provider.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	s.wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// Get implements provider.Provider.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	s.wait()
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return zero, fmt.Errorf("memory: get %q: %w", id, provider.ErrNotFound)
	}
	return item, nil
}

// Create implements provider.Provider.
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	s.wait()
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if item.EntityID() == "" {
		item = item.WithID(s.cfg.newID())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.EntityID()]; exists {
		return zero, fmt.Errorf("memory: create %q: %w", item.EntityID(), provider.ErrConflict)
	}
	s.items[item.EntityID()] = item
	s.order = append(s.order, item.EntityID())
	return item, nil
}

// Update implements provider.Provider.
func (s *Store[T]) Update(ctx context.Context, id string, item T) (T, error) {
	s.wait()
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return zero, fmt.Errorf("memory: update %q: %w", id, provider.ErrNotFound)
	}
	item = item.WithID(id)
	s.items[id] = item
	return item, nil
}

// Delete implements provider.Provider.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("memory: delete %q: %w", id, provider.ErrNotFound)
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored records without waiting.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
