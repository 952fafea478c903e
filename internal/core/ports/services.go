package ports

import (
	"context"
	"io"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
)

// IngestResult describes the outcome of a dataset upload.
type IngestResult struct {
	Dataset  *domain.Dataset
	CacheHit bool // true when the identical bytes were uploaded before
}

// DatasetService defines the port for ingesting and describing uploaded
// ticket exports.
type DatasetService interface {
	// Ingest reads a raw CSV upload, cleans it, and stores the resulting
	// dataset keyed by the content hash of the uploaded bytes. Re-uploading
	// identical content is served from the cache.
	Ingest(ctx context.Context, name string, raw io.Reader) (*IngestResult, error)

	// GetDataset returns a previously ingested dataset by its content-hash ID.
	GetDataset(ctx context.Context, id string) (*domain.Dataset, error)
}

// ReportParams defines the input for building a report or a filtered view.
type ReportParams struct {
	DatasetID string
	Criteria  domain.FilterCriteria
}

// ListTicketsParams defines the input for the filtered, sorted ticket listing.
type ListTicketsParams struct {
	DatasetID string
	Criteria  domain.FilterCriteria
	Limit     int // 0 means the full sorted set
}

// ReportService defines the port for the filter-and-aggregate half of the
// pipeline.
type ReportService interface {
	// BuildReport validates the criteria, filters the dataset, and
	// aggregates the filtered view into a report.
	BuildReport(ctx context.Context, params ReportParams) (*domain.Report, error)

	// FilterTickets validates the criteria and returns the filtered rows
	// sorted by resolution time descending.
	FilterTickets(ctx context.Context, params ListTicketsParams) ([]domain.Ticket, error)
}
