package orchestrator

import (
	"fmt"
	"sort"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// StaticThemes is an in-memory theme.ThemeSelector over a fixed set of
// manifests. An empty name selects the fallback theme; an unknown variant
// falls back to the base tokens.
type StaticThemes struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*StaticThemes)(nil)

// NewStaticThemes registers manifests. The first one becomes the fallback.
func NewStaticThemes(manifests ...*theme.Manifest) *StaticThemes {
	s := &StaticThemes{manifests: make(map[string]*theme.Manifest)}
	for _, m := range manifests {
		s.Add(m)
	}
	return s
}

// Add registers or replaces a manifest.
func (s *StaticThemes) Add(manifest *theme.Manifest) {
	if manifest == nil || manifest.Name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[manifest.Name] = manifest
	if s.fallback == "" {
		s.fallback = manifest.Name
	}
}

// Names lists the registered themes.
func (s *StaticThemes) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector.
func (s *StaticThemes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.fallback
	}
	if name == "" {
		return nil, nil
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("orchestrator: theme %q not registered", name)
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
