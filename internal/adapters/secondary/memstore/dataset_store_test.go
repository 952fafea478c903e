package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-report-backend/internal/adapters/secondary/memstore"
	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
)

func TestDatasetStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put then get returns the same dataset", func(t *testing.T) {
		store := memstore.NewDatasetStore(4)
		dataset := &domain.Dataset{ID: "a"}

		require.NoError(t, store.Put(ctx, dataset))

		got, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Same(t, dataset, got)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		store := memstore.NewDatasetStore(4)

		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrDatasetNotFound)
	})

	t.Run("re-storing an existing id is a no-op", func(t *testing.T) {
		store := memstore.NewDatasetStore(4)
		first := &domain.Dataset{ID: "a", Name: "first"}
		second := &domain.Dataset{ID: "a", Name: "second"}

		require.NoError(t, store.Put(ctx, first))
		require.NoError(t, store.Put(ctx, second))

		got, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Same(t, first, got)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("evicts the least recently used entry at capacity", func(t *testing.T) {
		store := memstore.NewDatasetStore(2)

		require.NoError(t, store.Put(ctx, &domain.Dataset{ID: "a"}))
		require.NoError(t, store.Put(ctx, &domain.Dataset{ID: "b"}))

		// Touch "a" so "b" becomes the eviction candidate
		_, err := store.Get(ctx, "a")
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, &domain.Dataset{ID: "c"}))

		_, err = store.Get(ctx, "b")
		assert.ErrorIs(t, err, apperrors.ErrDatasetNotFound)

		_, err = store.Get(ctx, "a")
		assert.NoError(t, err)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("non-positive capacity falls back to the default", func(t *testing.T) {
		store := memstore.NewDatasetStore(0)
		require.NoError(t, store.Put(ctx, &domain.Dataset{ID: "a"}))
		assert.Equal(t, 1, store.Len())
	})
}
