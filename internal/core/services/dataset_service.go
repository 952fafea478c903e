package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
	"github.com/lorrc/ticket-report-backend/internal/core/ports"
	"github.com/lorrc/ticket-report-backend/internal/infrastructure/metrics"
)

// DatasetService implements ingestion of uploaded ticket exports. Datasets
// are keyed by the SHA-256 of the uploaded bytes, so the cache can never
// serve a stale table for mutated content: different bytes, different key.
type DatasetService struct {
	loader  *LoaderService
	store   ports.DatasetStore
	metrics *metrics.Pipeline
	logger  *slog.Logger
}

var _ ports.DatasetService = (*DatasetService)(nil)

// NewDatasetService creates a new dataset service
func NewDatasetService(
	loader *LoaderService,
	store ports.DatasetStore,
	pipelineMetrics *metrics.Pipeline,
	logger *slog.Logger,
) *DatasetService {
	return &DatasetService{
		loader:  loader,
		store:   store,
		metrics: pipelineMetrics,
		logger:  logger.With("service", "dataset"),
	}
}

// Ingest reads the full upload, checks the cache by content hash, and runs
// the loader on a miss. The cleaned table is immutable from here on.
func (s *DatasetService) Ingest(ctx context.Context, name string, raw io.Reader) (*ports.IngestResult, error) {
	content, err := io.ReadAll(raw)
	if err != nil {
		return nil, &apperrors.LoadError{Err: err}
	}
	if len(content) == 0 {
		return nil, &apperrors.LoadError{Err: apperrors.ErrEmptyUpload}
	}

	digest := sha256.Sum256(content)
	id := hex.EncodeToString(digest[:])

	// Identical bytes were uploaded before: serve the cached table.
	if cached, err := s.store.Get(ctx, id); err == nil {
		s.metrics.CacheHits.Inc()
		s.logger.Info("dataset served from cache", "dataset_id", id)
		return &ports.IngestResult{Dataset: cached, CacheHit: true}, nil
	} else if !errors.Is(err, apperrors.ErrDatasetNotFound) {
		return nil, err
	}

	tickets, stats, err := s.loader.Load(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	dataset := &domain.Dataset{
		ID:       id,
		Name:     name,
		Tickets:  tickets,
		Stats:    stats,
		LoadedAt: time.Now().UTC(),
	}

	if err := s.store.Put(ctx, dataset); err != nil {
		return nil, err
	}

	s.metrics.DatasetsLoaded.Inc()
	s.logger.Info("dataset ingested",
		"dataset_id", id,
		"name", name,
		"rows_loaded", stats.RowsLoaded,
	)

	return &ports.IngestResult{Dataset: dataset}, nil
}

// GetDataset returns a previously ingested dataset.
func (s *DatasetService) GetDataset(ctx context.Context, id string) (*domain.Dataset, error) {
	return s.store.Get(ctx, id)
}
