package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formengine/internal/config"
	"github.com/goliatone/go-formengine/internal/domain"
	"github.com/goliatone/go-formengine/pkg/provider"
	"github.com/goliatone/go-formengine/pkg/provider/memory"
	"github.com/goliatone/go-formengine/pkg/provider/rest"
	"github.com/goliatone/go-formengine/pkg/provider/sqlite"
	"github.com/goliatone/go-formengine/pkg/session"
)

// Stores groups the providers of every resource.
type Stores struct {
	Tasks      provider.Provider[domain.Task]
	Badges     provider.Provider[domain.Badge]
	ShopItems  provider.Provider[domain.ShopItem]
	Admins     provider.Provider[domain.Admin]
	Categories provider.Provider[domain.Category]

	ping  func(ctx context.Context) error
	close func() error
}

// Ping reports backend reachability. Memory stores are always reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backing database, if any.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Sources exposes categories and badges as option sources.
func (s *Stores) Sources() provider.Sources {
	return provider.Sources{
		"categories": provider.ListOptions(s.Categories),
		"badges":     provider.ListOptions(s.Badges),
	}
}

// OpenStores builds the providers selected by cfg.Kind. token is sent as a
// bearer token by the rest provider.
func OpenStores(ctx context.Context, cfg config.ProviderConfig, token rest.TokenFunc) (*Stores, error) {
	fixtures := domain.Fixtures{}
	if cfg.SeedFixtures {
		fixtures = domain.DefaultFixtures()
	}

	switch cfg.Kind {
	case config.ProviderMemory, "":
		opts := []memory.Option{memory.WithDelay(cfg.MockDelay)}
		return &Stores{
			Tasks:      memory.New(fixtures.Tasks, opts...),
			Badges:     memory.New(fixtures.Badges, opts...),
			ShopItems:  memory.New(fixtures.ShopItems, opts...),
			Admins:     memory.New[domain.Admin](nil, opts...),
			Categories: memory.New(fixtures.Categories, opts...),
		}, nil

	case config.ProviderREST:
		opts := []rest.Option{rest.WithTimeout(cfg.Timeout), rest.WithToken(token)}
		tasks, err := rest.New[domain.Task](cfg.BaseURL, "tasks", opts...)
		if err != nil {
			return nil, err
		}
		badges, err := rest.New[domain.Badge](cfg.BaseURL, "badges", opts...)
		if err != nil {
			return nil, err
		}
		items, err := rest.New[domain.ShopItem](cfg.BaseURL, "shop-items", opts...)
		if err != nil {
			return nil, err
		}
		admins, err := rest.New[domain.Admin](cfg.BaseURL, "admins", opts...)
		if err != nil {
			return nil, err
		}
		categories, err := rest.New[domain.Category](cfg.BaseURL, "categories", opts...)
		if err != nil {
			return nil, err
		}
		return &Stores{Tasks: tasks, Badges: badges, ShopItems: items, Admins: admins, Categories: categories}, nil

	case config.ProviderSQLite:
		db, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		s := &Stores{ping: db.Ping, close: db.Close}
		tasks := sqlite.NewTable[domain.Task](db, "tasks")
		badges := sqlite.NewTable[domain.Badge](db, "badges")
		items := sqlite.NewTable[domain.ShopItem](db, "shop-items")
		categories := sqlite.NewTable[domain.Category](db, "categories")
		err = errors.Join(
			tasks.Seed(ctx, fixtures.Tasks),
			badges.Seed(ctx, fixtures.Badges),
			items.Seed(ctx, fixtures.ShopItems),
			categories.Seed(ctx, fixtures.Categories),
		)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("server: seed sqlite: %w", err)
		}
		s.Tasks, s.Badges, s.ShopItems, s.Categories = tasks, badges, items, categories
		s.Admins = sqlite.NewTable[domain.Admin](db, "admins")
		return s, nil

	default:
		return nil, fmt.Errorf("server: unknown provider kind %q", cfg.Kind)
	}
}

// SeedAdmin creates the configured admin when no admin exists yet. It
// reports whether an account was created.
func SeedAdmin(ctx context.Context, admins provider.Provider[domain.Admin], cfg config.AdminConfig) (bool, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return false, nil
	}
	existing, err := admins.List(ctx)
	if err != nil {
		return false, fmt.Errorf("server: list admins: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	hash, err := session.HashPassword(cfg.Password)
	if err != nil {
		return false, err
	}
	name := cfg.Name
	if name == "" {
		name = "Admin"
	}
	_, err = admins.Create(ctx, domain.Admin{
		Name:     name,
		Email:    cfg.Email,
		Role:     domain.RoleAdmin,
		Password: hash,
	})
	if err != nil {
		return false, fmt.Errorf("server: seed admin: %w", err)
	}
	return true, nil
}
