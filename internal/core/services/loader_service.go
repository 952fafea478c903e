package services

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
)

// timestampLayouts are tried in order when parsing Created/Resolved values.
// Jira exports use the day/month-name form; ISO variants cover everything
// else we have seen in the wild.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/Jan/06 3:04 PM",
	"02/Jan/2006 15:04",
	"2006-01-02",
}

// LoaderService turns a raw CSV export into a cleaned, immutable ticket table.
type LoaderService struct {
	logger *slog.Logger
}

// NewLoaderService creates a new loader service
func NewLoaderService(logger *slog.Logger) *LoaderService {
	return &LoaderService{
		logger: logger.With("service", "loader"),
	}
}

// rawRow holds one data row before timestamp parsing. The parsed pointers
// stay nil when the value is blank or unparsable, mirroring the two-pass
// drop-null behavior: blanks are dropped first, parse failures second.
type rawRow struct {
	ticket   domain.Ticket
	created  *time.Time
	resolved *time.Time
}

// Load verifies the schema, runs both cleaning passes, and derives the
// computed fields. Either a full cleaned table is produced or none is.
func (s *LoaderService) Load(raw io.Reader) ([]domain.Ticket, domain.LoadStats, error) {
	reader := csv.NewReader(raw)
	reader.FieldsPerRecord = -1 // ragged rows are a data problem, not a structural one

	header, err := reader.Read()
	if err != nil {
		// io.EOF here means an empty file: no header, nothing to validate.
		if err == io.EOF {
			return nil, domain.LoadStats{}, &apperrors.LoadError{Err: apperrors.ErrEmptyUpload}
		}
		return nil, domain.LoadStats{}, &apperrors.LoadError{Err: err}
	}

	index, missing := indexColumns(header)
	if len(missing) > 0 {
		return nil, domain.LoadStats{}, &apperrors.SchemaError{Missing: missing}
	}

	var stats domain.LoadStats
	rows := make([]rawRow, 0)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.LoadStats{}, &apperrors.LoadError{Err: err}
		}
		stats.RowsRead++

		createdRaw := cell(record, index[domain.ColumnCreated])
		resolvedRaw := cell(record, index[domain.ColumnResolved])

		// First pass: rows missing either timestamp are dropped outright.
		if createdRaw == "" || resolvedRaw == "" {
			stats.RowsDroppedNull++
			continue
		}

		row := rawRow{
			ticket: domain.Ticket{
				IssueKey:  cell(record, index[domain.ColumnIssueKey]),
				IssueType: cell(record, index[domain.ColumnIssueType]),
				Location:  cell(record, index[domain.ColumnLocation]),
				Assignee:  cell(record, index[domain.ColumnAssignee]),
				Status:    cell(record, index[domain.ColumnStatus]),
				Priority:  cell(record, index[domain.ColumnPriority]),
			},
			created:  parseTimestamp(createdRaw),
			resolved: parseTimestamp(resolvedRaw),
		}
		rows = append(rows, row)
	}

	// Second pass: unparsable timestamps are treated as missing, not fatal.
	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		if row.created == nil || row.resolved == nil {
			stats.RowsDroppedBad++
			continue
		}
		t := row.ticket
		t.Created = *row.created
		t.Resolved = *row.resolved
		t.Derive()
		tickets = append(tickets, t)
	}
	stats.RowsLoaded = len(tickets)

	s.logger.Info("dataset loaded",
		"rows_read", stats.RowsRead,
		"rows_dropped_null", stats.RowsDroppedNull,
		"rows_dropped_bad", stats.RowsDroppedBad,
		"rows_loaded", stats.RowsLoaded,
	)

	return tickets, stats, nil
}

// indexColumns maps required column names to their header positions and
// reports the ones that are absent, in canonical order.
func indexColumns(header []string) (map[string]int, []string) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	index := make(map[string]int, len(domain.RequiredColumns))
	var missing []string
	for _, col := range domain.RequiredColumns {
		pos, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = pos
	}
	return index, missing
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseTimestamp(value string) *time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
