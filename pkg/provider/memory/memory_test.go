package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formengine/internal/domain"
	"github.com/goliatone/go-formengine/pkg/provider"
)

var _ provider.Provider[domain.Badge] = (*Store[domain.Badge])(nil)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := New([]domain.Badge{{Name: "Helper"}}, WithDelay(0), WithIDGenerator(sequentialIDs()))

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.Badge{{ID: "id-1", Name: "Helper"}}, items)

	created, err := store.Create(ctx, domain.Badge{Name: "Gardener", Image: "g.png", Points: 5})
	require.NoError(t, err)
	require.Equal(t, "id-2", created.ID)

	_, err = store.Create(ctx, domain.Badge{ID: "id-2"})
	require.ErrorIs(t, err, provider.ErrConflict)

	updated, err := store.Update(ctx, "id-2", domain.Badge{Name: "Master gardener"})
	require.NoError(t, err)
	require.Equal(t, "id-2", updated.ID)

	got, err := store.Get(ctx, "id-2")
	require.NoError(t, err)
	require.Equal(t, "Master gardener", got.Name)

	require.NoError(t, store.Delete(ctx, "id-1"))
	_, err = store.Get(ctx, "id-1")
	require.ErrorIs(t, err, provider.ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, "id-1"), provider.ErrNotFound)

	_, err = store.Update(ctx, "missing", domain.Badge{})
	require.ErrorIs(t, err, provider.ErrNotFound)

	items, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, store.Len())
}

func TestStoreDelayIsNotCanceled(t *testing.T) {
	store := New([]domain.Badge{{ID: "b1", Name: "Helper"}}, WithDelay(40*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := store.Get(ctx, "b1")
	require.True(t, errors.Is(err, context.Canceled))
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestListOptionsFromStore(t *testing.T) {
	store := New([]domain.Category{{ID: "c2", Name: "Kitchen"}, {ID: "c1", Name: "Garden"}}, WithDelay(0))
	sources := provider.Sources{"categories": provider.ListOptions[domain.Category](store)}

	opts, err := sources.Options(context.Background(), "categories")
	require.NoError(t, err)
	require.Len(t, opts, 2)
	require.Equal(t, "c1", opts[0].Value)
	require.Equal(t, "Garden", opts[0].Label)

	_, err = sources.Options(context.Background(), "badges")
	require.ErrorIs(t, err, provider.ErrUnknownSource)
}
