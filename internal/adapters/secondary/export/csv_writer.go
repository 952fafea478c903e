package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
)

// Derived column headers appended after the original export columns.
const (
	columnResolutionHours = "Resolution Time (hrs)"
	columnCreatedDate     = "Created Date"
)

// CSVWriter serializes a filtered table back to CSV: the original column
// order followed by the two derived columns.
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Write streams the tickets as CSV to w. Timestamps are RFC3339, the derived
// date is YYYY-MM-DD, and resolution hours carry two decimals to match the
// rounding of the summary metrics.
func (c *CSVWriter) Write(w io.Writer, tickets []domain.Ticket) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(domain.RequiredColumns)+2)
	header = append(header, domain.RequiredColumns...)
	header = append(header, columnResolutionHours, columnCreatedDate)
	if err := writer.Write(header); err != nil {
		return err
	}

	for i := range tickets {
		t := &tickets[i]
		record := []string{
			t.IssueKey,
			t.IssueType,
			t.Location,
			t.Assignee,
			t.Status,
			t.Priority,
			t.Created.Format(time.RFC3339),
			t.Resolved.Format(time.RFC3339),
			strconv.FormatFloat(t.ResolutionHours, 'f', 2, 64),
			t.CreatedDate.Format(time.DateOnly),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
