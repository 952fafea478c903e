package services

import (
	"context"
	"log/slog"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	"github.com/lorrc/ticket-report-backend/internal/core/ports"
	"github.com/lorrc/ticket-report-backend/internal/infrastructure/metrics"
)

// defaultSlowestLimit caps the per-ticket resolution listing embedded in a
// report. The full sorted set stays available through FilterTickets.
const defaultSlowestLimit = 50

// ReportService implements the filter-and-aggregate half of the pipeline.
// Every call re-runs filter and aggregation against the immutable cleaned
// table; nothing here mutates shared state.
type ReportService struct {
	datasets ports.DatasetService
	metrics  *metrics.Pipeline
	logger   *slog.Logger
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service
func NewReportService(datasets ports.DatasetService, pipelineMetrics *metrics.Pipeline, logger *slog.Logger) *ReportService {
	return &ReportService{
		datasets: datasets,
		metrics:  pipelineMetrics,
		logger:   logger.With("service", "report"),
	}
}

// BuildReport validates the criteria, filters the dataset, and aggregates
// the view into a report. A rejected range never touches the table; an empty
// filtered set yields a report marked Empty rather than an error.
func (s *ReportService) BuildReport(ctx context.Context, params ports.ReportParams) (*domain.Report, error) {
	filtered, err := s.filter(ctx, params.DatasetID, params.Criteria)
	if err != nil {
		return nil, err
	}

	report := domain.BuildReport(filtered, params.Criteria, defaultSlowestLimit)
	s.metrics.ReportsBuilt.Inc()

	if report.Empty {
		s.logger.Info("report built over empty view", "dataset_id", params.DatasetID)
	} else {
		s.logger.Info("report built",
			"dataset_id", params.DatasetID,
			"tickets", report.Summary.TotalTickets,
		)
	}

	return &report, nil
}

// FilterTickets validates the criteria and returns the filtered rows sorted
// by resolution time descending, optionally truncated to the n slowest.
func (s *ReportService) FilterTickets(ctx context.Context, params ports.ListTicketsParams) ([]domain.Ticket, error) {
	filtered, err := s.filter(ctx, params.DatasetID, params.Criteria)
	if err != nil {
		return nil, err
	}
	return domain.TopNByResolution(filtered, params.Limit), nil
}

func (s *ReportService) filter(ctx context.Context, datasetID string, criteria domain.FilterCriteria) ([]domain.Ticket, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	dataset, err := s.datasets.GetDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	return criteria.Apply(dataset.Tickets), nil
}
