package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-report-backend/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-report-backend/internal/adapters/secondary/export"
	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	"github.com/lorrc/ticket-report-backend/internal/core/ports"
)

const maxTicketsLimit = 1000

// ReportHandler handles HTTP requests for filtered views and reports
type ReportHandler struct {
	reportService ports.ReportService
	csvWriter     *export.CSVWriter
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	reportService ports.ReportService,
	csvWriter *export.CSVWriter,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		csvWriter:     csvWriter,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "report"),
	}
}

// RegisterRoutes sets up the routing for the filter/aggregate endpoints.
// They are mounted under /datasets/{datasetID}.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/report", h.HandleGetReport)
	r.Get("/tickets", h.HandleListTickets)
	r.Get("/export", h.HandleExportCSV)
}

// --- Response DTOs ---

// CountItemDTO is one bucket of a grouped count.
type CountItemDTO struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ProportionItemDTO is one bucket of a proportional distribution.
type ProportionItemDTO struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// VolumePointDTO is the ticket count for one calendar date.
type VolumePointDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SummaryMetricsDTO carries the headline report numbers.
type SummaryMetricsDTO struct {
	TotalTickets       int     `json:"totalTickets"`
	AvgResolutionHours float64 `json:"avgResolutionHours"`
	UniqueLocations    int     `json:"uniqueLocations"`
}

// TicketDTO defines the JSON response for a cleaned ticket row.
type TicketDTO struct {
	IssueKey        string  `json:"issueKey"`
	IssueType       string  `json:"issueType"`
	Location        string  `json:"location"`
	Assignee        string  `json:"assignee"`
	Status          string  `json:"status"`
	Priority        string  `json:"priority"`
	Created         string  `json:"created"`
	Resolved        string  `json:"resolved"`
	ResolutionHours float64 `json:"resolutionHours"`
	CreatedDate     string  `json:"createdDate"`
}

// ReportDTO is the full report payload: period, summary metrics, and one
// aggregation per chart. An empty view is flagged, not an error.
type ReportDTO struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`

	Empty   bool               `json:"empty"`
	Warning string             `json:"warning,omitempty"`
	Summary *SummaryMetricsDTO `json:"summary,omitempty"`

	IssueTypeCounts []CountItemDTO      `json:"issueTypeCounts,omitempty"`
	AssigneeCounts  []CountItemDTO      `json:"assigneeCounts,omitempty"`
	StatusCounts    []CountItemDTO      `json:"statusCounts,omitempty"`
	LocationCounts  []CountItemDTO      `json:"locationCounts,omitempty"`
	PriorityShares  []ProportionItemDTO `json:"priorityShares,omitempty"`
	DailyVolume     []VolumePointDTO    `json:"dailyVolume,omitempty"`
	SlowestTickets  []TicketDTO         `json:"slowestTickets,omitempty"`
}

func toTicketDTO(t *domain.Ticket) TicketDTO {
	return TicketDTO{
		IssueKey:        t.IssueKey,
		IssueType:       t.IssueType,
		Location:        t.Location,
		Assignee:        t.Assignee,
		Status:          t.Status,
		Priority:        t.Priority,
		Created:         t.Created.Format(time.RFC3339),
		Resolved:        t.Resolved.Format(time.RFC3339),
		ResolutionHours: t.ResolutionHours,
		CreatedDate:     t.CreatedDate.Format(time.DateOnly),
	}
}

func toTicketDTOs(tickets []domain.Ticket) []TicketDTO {
	response := make([]TicketDTO, 0, len(tickets))
	for i := range tickets {
		response = append(response, toTicketDTO(&tickets[i]))
	}
	return response
}

func toCountItemDTOs(items []domain.CountItem) []CountItemDTO {
	response := make([]CountItemDTO, 0, len(items))
	for _, item := range items {
		response = append(response, CountItemDTO{Value: item.Value, Count: item.Count})
	}
	return response
}

func toReportDTO(report *domain.Report) ReportDTO {
	dto := ReportDTO{
		PeriodStart: report.PeriodStart.Format(time.DateOnly),
		PeriodEnd:   report.PeriodEnd.Format(time.DateOnly),
		Empty:       report.Empty,
	}

	if report.Empty {
		dto.Warning = "No tickets match the selected filters"
		return dto
	}

	dto.Summary = &SummaryMetricsDTO{
		TotalTickets:       report.Summary.TotalTickets,
		AvgResolutionHours: report.Summary.AvgResolutionHours,
		UniqueLocations:    report.Summary.UniqueLocations,
	}

	dto.IssueTypeCounts = toCountItemDTOs(report.IssueTypeCounts)
	dto.AssigneeCounts = toCountItemDTOs(report.AssigneeCounts)
	dto.StatusCounts = toCountItemDTOs(report.StatusCounts)
	dto.LocationCounts = toCountItemDTOs(report.LocationCounts)

	dto.PriorityShares = make([]ProportionItemDTO, 0, len(report.PriorityShares))
	for _, share := range report.PriorityShares {
		dto.PriorityShares = append(dto.PriorityShares, ProportionItemDTO{
			Value:      share.Value,
			Count:      share.Count,
			Proportion: share.Proportion,
		})
	}

	dto.DailyVolume = make([]VolumePointDTO, 0, len(report.DailyVolume))
	for _, point := range report.DailyVolume {
		dto.DailyVolume = append(dto.DailyVolume, VolumePointDTO{
			Date:  point.Date.Format(time.DateOnly),
			Count: point.Count,
		})
	}

	dto.SlowestTickets = toTicketDTOs(report.SlowestTickets)

	return dto
}

// --- Handlers ---

// HandleGetReport handles GET /datasets/{datasetID}/report
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	datasetID, criteria, err := h.parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	report, err := h.reportService.BuildReport(r.Context(), ports.ReportParams{
		DatasetID: datasetID,
		Criteria:  criteria,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toReportDTO(report))
}

// HandleListTickets handles GET /datasets/{datasetID}/tickets
func (h *ReportHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	datasetID, criteria, err := h.parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	limit := validation.ParseIntQueryParam(r, "limit", 0)
	v := validation.NewValidator()
	v.Max("limit", limit, maxTicketsLimit)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	tickets, err := h.reportService.FilterTickets(r.Context(), ports.ListTicketsParams{
		DatasetID: datasetID,
		Criteria:  criteria,
		Limit:     limit,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toTicketDTOs(tickets))
}

// HandleExportCSV handles GET /datasets/{datasetID}/export
func (h *ReportHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	datasetID, criteria, err := h.parseFilterQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	tickets, err := h.reportService.FilterTickets(r.Context(), ports.ListTicketsParams{
		DatasetID: datasetID,
		Criteria:  criteria,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	filename := fmt.Sprintf("tickets_%s_%s.csv",
		criteria.Start.Format(time.DateOnly),
		criteria.End.Format(time.DateOnly),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if err := h.csvWriter.Write(w, tickets); err != nil {
		// Headers are already sent; all we can do is log.
		h.logger.Error("csv export failed mid-stream",
			"dataset_id", datasetID,
			"error", err,
		)
	}
}

// parseFilterQuery extracts the dataset ID and filter criteria shared by the
// report, tickets, and export endpoints.
func (h *ReportHandler) parseFilterQuery(r *http.Request) (string, domain.FilterCriteria, error) {
	datasetID, err := parseDatasetID(r)
	if err != nil {
		return "", domain.FilterCriteria{}, err
	}

	start, err := validation.ParseDateQueryParam(r, "start")
	if err != nil {
		return "", domain.FilterCriteria{}, err
	}

	end, err := validation.ParseDateQueryParam(r, "end")
	if err != nil {
		return "", domain.FilterCriteria{}, err
	}

	criteria := domain.FilterCriteria{
		Start:      start,
		End:        end,
		Locations:  validation.ParseSetQueryParam(r, "locations"),
		IssueTypes: validation.ParseSetQueryParam(r, "issueTypes"),
	}

	return datasetID, criteria, nil
}
