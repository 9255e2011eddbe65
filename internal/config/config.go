// Package config loads dashboard settings: built-in defaults, then an
// optional YAML file, then FORMENGINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider kinds.
const (
	ProviderMemory = "memory"
	ProviderREST   = "rest"
	ProviderSQLite = "sqlite"
)

// Config is the full dashboard configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Provider ProviderConfig `yaml:"provider"`
	Session  SessionConfig  `yaml:"session"`
	Admin    AdminConfig    `yaml:"admin"`
	Forms    FormsConfig    `yaml:"forms"`
	Log      LogConfig      `yaml:"log"`
	Theme    ThemeConfig    `yaml:"theme"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type ProviderConfig struct {
	Kind         string        `yaml:"kind"`
	BaseURL      string        `yaml:"baseURL"`
	Timeout      time.Duration `yaml:"timeout"`
	DSN          string        `yaml:"dsn"`
	MockDelay    time.Duration `yaml:"mockDelay"`
	SeedFixtures bool          `yaml:"seedFixtures"`
}

type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookieName"`
	Secure     bool          `yaml:"secure"`
}

// AdminConfig is the account created when no admin exists.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type FormsConfig struct {
	// Dir overrides the embedded form configurations when set.
	Dir            string `yaml:"dir"`
	DisabledPolicy string `yaml:"disabledPolicy"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ThemeConfig struct {
	// Manifest is a go-theme manifest file (YAML or JSON).
	Manifest string `yaml:"manifest"`
	Variant  string `yaml:"variant"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Provider: ProviderConfig{
			Kind:         ProviderMemory,
			Timeout:      10 * time.Second,
			DSN:          "file:formengine.db",
			MockDelay:    300 * time.Millisecond,
			SeedFixtures: true,
		},
		Session: SessionConfig{
			Secret:     "formengine-dev-secret-change-me",
			TTL:        12 * time.Hour,
			CookieName: "formengine_session",
		},
		Admin: AdminConfig{
			Email:    "admin@formengine.local",
			Password: "Admin#123",
			Name:     "Admin",
		},
		Forms: FormsConfig{DisabledPolicy: "keep"},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration. path may be empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	var errs []error
	switch c.Provider.Kind {
	case ProviderMemory:
	case ProviderREST:
		if c.Provider.BaseURL == "" {
			errs = append(errs, errors.New("provider.baseURL is required for the rest provider"))
		}
	case ProviderSQLite:
		if c.Provider.DSN == "" {
			errs = append(errs, errors.New("provider.dsn is required for the sqlite provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown provider kind %q", c.Provider.Kind))
	}
	if len(c.Session.Secret) < 16 {
		errs = append(errs, errors.New("session.secret must be at least 16 bytes"))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup("FORMENGINE_" + key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup("FORMENGINE_" + key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("FORMENGINE_%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup("FORMENGINE_" + key); ok && v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("FORMENGINE_%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("ADDR", &cfg.HTTP.Addr)
	str("PROVIDER", &cfg.Provider.Kind)
	str("API_URL", &cfg.Provider.BaseURL)
	dur("API_TIMEOUT", &cfg.Provider.Timeout)
	str("DSN", &cfg.Provider.DSN)
	dur("MOCK_DELAY", &cfg.Provider.MockDelay)
	boolean("SEED", &cfg.Provider.SeedFixtures)
	str("SESSION_SECRET", &cfg.Session.Secret)
	dur("SESSION_TTL", &cfg.Session.TTL)
	boolean("SESSION_SECURE", &cfg.Session.Secure)
	str("ADMIN_EMAIL", &cfg.Admin.Email)
	str("ADMIN_PASSWORD", &cfg.Admin.Password)
	str("FORMS_DIR", &cfg.Forms.Dir)
	str("DISABLED_POLICY", &cfg.Forms.DisabledPolicy)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("THEME", &cfg.Theme.Manifest)
	str("THEME_VARIANT", &cfg.Theme.Variant)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
