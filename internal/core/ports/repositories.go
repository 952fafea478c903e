package ports

import (
	"context"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
)

// DatasetStore defines the port for the cleaned-table cache. Implementations
// key datasets by content hash; a dataset is immutable once stored.
type DatasetStore interface {
	// Put stores a cleaned dataset under its content-hash ID.
	Put(ctx context.Context, dataset *domain.Dataset) error

	// Get returns the dataset for the given content-hash ID, or
	// apperrors.ErrDatasetNotFound if it was never stored or has been
	// evicted.
	Get(ctx context.Context, id string) (*domain.Dataset, error)
}
