package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-report-backend/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
	"github.com/lorrc/ticket-report-backend/internal/core/ports"
)

// uploadFieldName is the multipart form field carrying the CSV file.
const uploadFieldName = "file"

// DatasetHandler handles HTTP requests for dataset uploads and summaries
type DatasetHandler struct {
	datasetService ports.DatasetService
	errorHandler   *ErrorHandler
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(
	datasetService ports.DatasetService,
	errorHandler *ErrorHandler,
	maxUploadBytes int64,
	logger *slog.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With("handler", "dataset"),
	}
}

// --- Response DTOs ---

// LoadStatsDTO reports what the cleaning passes did to an upload.
type LoadStatsDTO struct {
	RowsRead        int `json:"rowsRead"`
	RowsDroppedNull int `json:"rowsDroppedNull"`
	RowsDroppedBad  int `json:"rowsDroppedUnparsable"`
	RowsLoaded      int `json:"rowsLoaded"`
}

// UploadResponse is the JSON response for a dataset upload.
type UploadResponse struct {
	DatasetID string       `json:"datasetId"`
	Name      string       `json:"name"`
	Stats     LoadStatsDTO `json:"stats"`
	CacheHit  bool         `json:"cacheHit"`
	LoadedAt  string       `json:"loadedAt"`
}

// DatasetSummaryDTO describes a dataset so the dashboard can populate its
// filter widgets: date bounds and the distinct values per categorical field.
type DatasetSummaryDTO struct {
	DatasetID   string       `json:"datasetId"`
	Name        string       `json:"name"`
	Stats       LoadStatsDTO `json:"stats"`
	FirstDate   *string      `json:"firstDate"`
	LastDate    *string      `json:"lastDate"`
	Locations   []string     `json:"locations"`
	IssueTypes  []string     `json:"issueTypes"`
	Assignees   []string     `json:"assignees"`
	Statuses    []string     `json:"statuses"`
	Priorities  []string     `json:"priorities"`
	LoadedAt    string       `json:"loadedAt"`
}

func toLoadStatsDTO(stats domain.LoadStats) LoadStatsDTO {
	return LoadStatsDTO{
		RowsRead:        stats.RowsRead,
		RowsDroppedNull: stats.RowsDroppedNull,
		RowsDroppedBad:  stats.RowsDroppedBad,
		RowsLoaded:      stats.RowsLoaded,
	}
}

func toDatasetSummaryDTO(dataset *domain.Dataset) DatasetSummaryDTO {
	summary := DatasetSummaryDTO{
		DatasetID:  dataset.ID,
		Name:       dataset.Name,
		Stats:      toLoadStatsDTO(dataset.Stats),
		Locations:  dataset.DistinctValues(domain.FieldLocation),
		IssueTypes: dataset.DistinctValues(domain.FieldIssueType),
		Assignees:  dataset.DistinctValues(domain.FieldAssignee),
		Statuses:   dataset.DistinctValues(domain.FieldStatus),
		Priorities: dataset.DistinctValues(domain.FieldPriority),
		LoadedAt:   dataset.LoadedAt.Format(time.RFC3339),
	}

	if min, max, ok := dataset.DateBounds(); ok {
		first := min.Format(time.DateOnly)
		last := max.Format(time.DateOnly)
		summary.FirstDate = &first
		summary.LastDate = &last
	}

	return summary
}

// --- Handlers ---

// HandleUploadDataset handles POST /datasets
func (h *DatasetHandler) HandleUploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.Handle(w, r, apperrors.NewPayloadTooLargeError(h.maxUploadBytes))
			return
		}
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Expected a multipart upload with a 'file' field"))
		return
	}
	defer file.Close()

	result, err := h.datasetService.Ingest(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("dataset uploaded",
		"dataset_id", result.Dataset.ID,
		"filename", header.Filename,
		"cache_hit", result.CacheHit,
	)

	response := UploadResponse{
		DatasetID: result.Dataset.ID,
		Name:      result.Dataset.Name,
		Stats:     toLoadStatsDTO(result.Dataset.Stats),
		CacheHit:  result.CacheHit,
		LoadedAt:  result.Dataset.LoadedAt.Format(time.RFC3339),
	}

	if result.CacheHit {
		WriteJSON(w, http.StatusOK, response)
		return
	}
	WriteCreated(w, response)
}

// HandleGetDataset handles GET /datasets/{datasetID}
func (h *DatasetHandler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	datasetID, err := parseDatasetID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	dataset, err := h.datasetService.GetDataset(r.Context(), datasetID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toDatasetSummaryDTO(dataset))
}

// parseDatasetID extracts and validates the dataset ID from the URL
func parseDatasetID(r *http.Request) (string, error) {
	datasetID := chi.URLParam(r, "datasetID")

	v := validation.NewValidator()
	v.Required("datasetID", datasetID).
		Custom("datasetID", len(datasetID) == 64, "Must be a 64-character content hash")
	if v.HasErrors() {
		return "", v.Errors()
	}

	return datasetID, nil
}
