package services_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
	"github.com/lorrc/ticket-report-backend/internal/core/services"
)

const csvHeader = "Issue key,Issue Type,Location,Assignee,Status,Priority,Created,Resolved"

func newLoader() *services.LoaderService {
	return services.NewLoaderService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoaderService_Load(t *testing.T) {
	t.Run("loads valid rows and derives fields", func(t *testing.T) {
		input := csvHeader + "\n" +
			"IT-1,Hardware,Berlin,alex,Done,High,2024-01-01T00:00,2024-01-01T02:30\n" +
			"IT-2,Software,Madrid,kim,Done,Low,2024-01-02T10:00,2024-01-02T10:00\n"

		tickets, stats, err := newLoader().Load(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, tickets, 2)

		assert.Equal(t, "IT-1", tickets[0].IssueKey)
		assert.Equal(t, 2.5, tickets[0].ResolutionHours)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), tickets[0].CreatedDate)

		assert.Equal(t, 0.0, tickets[1].ResolutionHours)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), tickets[1].CreatedDate)

		assert.Equal(t, domain.LoadStats{RowsRead: 2, RowsLoaded: 2}, stats)
	})

	t.Run("missing columns fail with a schema error naming them", func(t *testing.T) {
		input := "Issue key,Issue Type,Location,Assignee,Status,Created,Resolved\n" +
			"IT-1,Hardware,Berlin,alex,Done,2024-01-01T00:00,2024-01-01T02:30\n"

		tickets, _, err := newLoader().Load(strings.NewReader(input))

		require.Error(t, err)
		assert.Nil(t, tickets)

		var schemaErr *apperrors.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Contains(t, schemaErr.Missing, "Priority")
	})

	t.Run("rows missing either timestamp are dropped first", func(t *testing.T) {
		input := csvHeader + "\n" +
			"IT-1,Hardware,Berlin,alex,Done,High,2024-01-01T00:00,2024-01-01T02:30\n" +
			"IT-2,Hardware,Berlin,alex,Open,High,2024-01-02T00:00,\n" +
			"IT-3,Hardware,Berlin,alex,Open,High,,2024-01-03T02:30\n"

		tickets, stats, err := newLoader().Load(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, "IT-1", tickets[0].IssueKey)
		assert.Equal(t, 2, stats.RowsDroppedNull)
	})

	t.Run("unparsable timestamps are dropped in the second pass", func(t *testing.T) {
		input := csvHeader + "\n" +
			"IT-1,Hardware,Berlin,alex,Done,High,not-a-date,2024-01-01T02:30\n" +
			"IT-2,Hardware,Berlin,alex,Done,High,2024-01-02T10:00,garbage\n" +
			"IT-3,Hardware,Berlin,alex,Done,High,2024-01-03T10:00,2024-01-03T12:00\n"

		tickets, stats, err := newLoader().Load(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, "IT-3", tickets[0].IssueKey)
		assert.Equal(t, 2, stats.RowsDroppedBad)
		assert.Equal(t, 0, stats.RowsDroppedNull)
	})

	t.Run("accepts jira-style timestamps", func(t *testing.T) {
		input := csvHeader + "\n" +
			"IT-1,Hardware,Berlin,alex,Done,High,01/Jan/24 9:00 AM,01/Jan/24 11:30 AM\n"

		tickets, _, err := newLoader().Load(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, 2.5, tickets[0].ResolutionHours)
	})

	t.Run("keeps rows where resolved precedes created", func(t *testing.T) {
		input := csvHeader + "\n" +
			"IT-1,Hardware,Berlin,alex,Done,High,2024-01-01T12:00,2024-01-01T06:00\n"

		tickets, _, err := newLoader().Load(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, -6.0, tickets[0].ResolutionHours)
	})

	t.Run("empty file fails with a load error", func(t *testing.T) {
		tickets, _, err := newLoader().Load(strings.NewReader(""))

		require.Error(t, err)
		assert.Nil(t, tickets)

		var loadErr *apperrors.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.ErrorIs(t, loadErr.Err, apperrors.ErrEmptyUpload)
	})

	t.Run("malformed csv fails with a load error", func(t *testing.T) {
		input := csvHeader + "\n" +
			"IT-1,\"unterminated,Berlin,alex,Done,High,2024-01-01T00:00,2024-01-01T02:30\n"

		tickets, _, err := newLoader().Load(strings.NewReader(input))

		require.Error(t, err)
		assert.Nil(t, tickets)

		var loadErr *apperrors.LoadError
		assert.ErrorAs(t, err, &loadErr)
	})

	t.Run("header only yields an empty table, not an error", func(t *testing.T) {
		tickets, stats, err := newLoader().Load(strings.NewReader(csvHeader + "\n"))

		require.NoError(t, err)
		assert.Empty(t, tickets)
		assert.Equal(t, domain.LoadStats{}, stats)
	})
}
