package services_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
	"github.com/lorrc/ticket-report-backend/internal/core/mocks"
	"github.com/lorrc/ticket-report-backend/internal/core/services"
	"github.com/lorrc/ticket-report-backend/internal/infrastructure/metrics"
)

func newDatasetService(store *mocks.MockDatasetStore) *services.DatasetService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewDatasetService(
		services.NewLoaderService(logger),
		store,
		metrics.NewPipeline(),
		logger,
	)
}

func contentHash(content string) string {
	digest := sha256.Sum256([]byte(content))
	return hex.EncodeToString(digest[:])
}

func TestDatasetService_Ingest(t *testing.T) {
	ctx := context.Background()
	validCSV := csvHeader + "\n" +
		"IT-1,Hardware,Berlin,alex,Done,High,2024-01-01T00:00,2024-01-01T02:30\n"

	t.Run("cleans and stores a new upload keyed by content hash", func(t *testing.T) {
		store := mocks.NewMockDatasetStore()
		svc := newDatasetService(store)

		wantID := contentHash(validCSV)
		store.On("Get", ctx, wantID).Return(nil, apperrors.ErrDatasetNotFound)
		store.On("Put", ctx, mock.AnythingOfType("*domain.Dataset")).Return(nil)

		result, err := svc.Ingest(ctx, "tickets.csv", strings.NewReader(validCSV))

		require.NoError(t, err)
		assert.False(t, result.CacheHit)
		assert.Equal(t, wantID, result.Dataset.ID)
		assert.Equal(t, "tickets.csv", result.Dataset.Name)
		assert.Len(t, result.Dataset.Tickets, 1)

		store.AssertExpectations(t)
	})

	t.Run("identical content is served from the cache", func(t *testing.T) {
		store := mocks.NewMockDatasetStore()
		svc := newDatasetService(store)

		cached := &domain.Dataset{ID: contentHash(validCSV), Name: "tickets.csv"}
		store.On("Get", ctx, cached.ID).Return(cached, nil)

		result, err := svc.Ingest(ctx, "renamed.csv", strings.NewReader(validCSV))

		require.NoError(t, err)
		assert.True(t, result.CacheHit)
		assert.Same(t, cached, result.Dataset)
		store.AssertNotCalled(t, "Put")
	})

	t.Run("different content always bypasses the cache", func(t *testing.T) {
		otherCSV := validCSV + "IT-2,Software,Madrid,kim,Done,Low,2024-01-02T10:00,2024-01-02T12:00\n"
		assert.NotEqual(t, contentHash(validCSV), contentHash(otherCSV))
	})

	t.Run("empty upload fails with a load error", func(t *testing.T) {
		store := mocks.NewMockDatasetStore()
		svc := newDatasetService(store)

		result, err := svc.Ingest(ctx, "empty.csv", strings.NewReader(""))

		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrEmptyUpload)
		store.AssertNotCalled(t, "Put")
	})

	t.Run("loader failures are not stored", func(t *testing.T) {
		store := mocks.NewMockDatasetStore()
		svc := newDatasetService(store)

		badCSV := "Issue key,Created,Resolved\nIT-1,2024-01-01T00:00,2024-01-01T02:30\n"
		store.On("Get", ctx, contentHash(badCSV)).Return(nil, apperrors.ErrDatasetNotFound)

		result, err := svc.Ingest(ctx, "bad.csv", strings.NewReader(badCSV))

		require.Error(t, err)
		assert.Nil(t, result)

		var schemaErr *apperrors.SchemaError
		assert.ErrorAs(t, err, &schemaErr)
		store.AssertNotCalled(t, "Put")
	})
}

func TestDatasetService_GetDataset(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the store", func(t *testing.T) {
		store := mocks.NewMockDatasetStore()
		svc := newDatasetService(store)

		dataset := &domain.Dataset{ID: "abc"}
		store.On("Get", ctx, "abc").Return(dataset, nil)

		got, err := svc.GetDataset(ctx, "abc")

		require.NoError(t, err)
		assert.Same(t, dataset, got)
	})

	t.Run("unknown id surfaces not found", func(t *testing.T) {
		store := mocks.NewMockDatasetStore()
		svc := newDatasetService(store)

		store.On("Get", ctx, "missing").Return(nil, apperrors.ErrDatasetNotFound)

		_, err := svc.GetDataset(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrDatasetNotFound)
	})
}
