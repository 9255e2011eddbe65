package formconfig

import (
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// Store holds FormConfigs keyed by id. It is safe for concurrent use; Get
// returns deep copies so callers cannot mutate the shared templates.
type Store struct {
	mu    sync.RWMutex
	forms map[string]model.FormConfig
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{forms: make(map[string]model.FormConfig)}
}

// Load reads every config under fsys and binds named checks through
// registry (the built-in registry when nil).
func Load(fsys fs.FS, registry *validation.CheckRegistry) (*Store, error) {
	store, err := LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	if err := store.Resolve(registry); err != nil {
		return nil, err
	}
	return store, nil
}

// Defaults loads the embedded forms with the built-in checks.
func Defaults() (*Store, error) {
	return Load(EmbeddedFS(), nil)
}

// Get returns a copy of the form with the given id.
func (s *Store) Get(id string) (model.FormConfig, bool) {
	if s == nil {
		return model.FormConfig{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.forms[id]
	if !ok {
		return model.FormConfig{}, false
	}
	return cfg.Clone(), true
}

// MustGet is Get for ids known at compile time.
func (s *Store) MustGet(id string) model.FormConfig {
	cfg, ok := s.Get(id)
	if !ok {
		panic(fmt.Sprintf("formconfig: form %q not found", id))
	}
	return cfg
}

// Put stores a copy of cfg, replacing any form with the same id.
func (s *Store) Put(cfg model.FormConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[cfg.ID] = cfg.Clone()
}

// IDs lists form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms) == 0
}

// Resolve binds every unbound named check in place. The first unknown check
// aborts and leaves the store unchanged.
func (s *Store) Resolve(registry *validation.CheckRegistry) error {
	if registry == nil {
		registry = validation.NewCheckRegistry()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved := make(map[string]model.FormConfig, len(s.forms))
	for id, cfg := range s.forms {
		out, err := registry.Resolve(cfg)
		if err != nil {
			return fmt.Errorf("formconfig: form %q: %w", id, err)
		}
		resolved[id] = out
	}
	s.forms = resolved
	return nil
}
