package formconfig

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/pkg/model"
)

// LoadFS walks fsys and parses every JSON/YAML file as one FormConfig. A file
// without an id takes its base name. Checks are left unbound; call
// Store.Resolve before handing configs to a form. When fsys is nil the
// returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("formconfig: read %s: %w", p, err)
		}
		cfg, err := Parse(data, p)
		if err != nil {
			return err
		}
		if _, exists := store.Get(cfg.ID); exists {
			return fmt.Errorf("formconfig: duplicate form %q (file %s)", cfg.ID, p)
		}
		store.Put(cfg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse decodes a single FormConfig document. source names the document in
// errors and provides the fallback id.
func Parse(data []byte, source string) (model.FormConfig, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.FormConfig{}, fmt.Errorf("formconfig: file %s is empty", source)
	}

	var cfg model.FormConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		cfg = model.FormConfig{}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return model.FormConfig{}, fmt.Errorf("formconfig: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}

	cfg.ID = strings.TrimSpace(cfg.ID)
	if cfg.ID == "" {
		base := path.Base(source)
		cfg.ID = strings.TrimSuffix(base, path.Ext(base))
	}
	if cfg.ID == "" || cfg.ID == "." {
		return model.FormConfig{}, fmt.Errorf("formconfig: file %s defines no form id", source)
	}
	return cfg, nil
}

func isConfigFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
