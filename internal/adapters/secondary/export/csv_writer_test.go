package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-report-backend/internal/adapters/secondary/export"
	"github.com/lorrc/ticket-report-backend/internal/core/domain"
)

func TestCSVWriter_Write(t *testing.T) {
	writer := export.NewCSVWriter()

	ticket := domain.Ticket{
		IssueKey:  "IT-1",
		IssueType: "Hardware",
		Location:  "Berlin",
		Assignee:  "alex",
		Status:    "Done",
		Priority:  "High",
		Created:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Resolved:  time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC),
	}
	ticket.Derive()

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, []domain.Ticket{ticket}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"Issue key", "Issue Type", "Location", "Assignee", "Status", "Priority",
		"Created", "Resolved", "Resolution Time (hrs)", "Created Date",
	}, records[0])

	assert.Equal(t, []string{
		"IT-1", "Hardware", "Berlin", "alex", "Done", "High",
		"2024-01-01T00:00:00Z", "2024-01-01T02:30:00Z", "2.50", "2024-01-01",
	}, records[1])
}

func TestCSVWriter_WriteEmpty(t *testing.T) {
	writer := export.NewCSVWriter()

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}
