package server

import (
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// LoadManifest reads a go-theme manifest from a YAML (or JSON) file.
func LoadManifest(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server: read theme manifest: %w", err)
	}
	var manifest theme.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("server: parse theme manifest %s: %w", path, err)
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("server: theme manifest %s has no name", path)
	}
	return &manifest, nil
}

// defaultVariant fills in the configured variant when a request names none.
type defaultVariant struct {
	theme.ThemeSelector
	variant string
}

func (d defaultVariant) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	if variant == "" {
		variant = d.variant
	}
	return d.ThemeSelector.Select(name, variant, opts...)
}
