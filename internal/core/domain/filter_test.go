package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func makeTicket(key, location, issueType string, createdDate time.Time) domain.Ticket {
	t := domain.Ticket{
		IssueKey:  key,
		IssueType: issueType,
		Location:  location,
		Created:   createdDate.Add(9 * time.Hour),
		Resolved:  createdDate.Add(11 * time.Hour),
	}
	t.Derive()
	return t
}

func TestFilterCriteria_Validate(t *testing.T) {
	t.Run("accepts start before end", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start: date(2024, 1, 1),
			End:   date(2024, 1, 31),
		}
		assert.NoError(t, criteria.Validate())
	})

	t.Run("accepts single-day range", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start: date(2024, 1, 1),
			End:   date(2024, 1, 1),
		}
		assert.NoError(t, criteria.Validate())
	})

	t.Run("rejects start after end", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start: date(2024, 2, 1),
			End:   date(2024, 1, 1),
		}

		err := criteria.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRange)

		var rangeErr *apperrors.InvalidRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "2024-02-01", rangeErr.Start)
		assert.Equal(t, "2024-01-01", rangeErr.End)
	})
}

func TestFilterCriteria_Apply(t *testing.T) {
	tickets := []domain.Ticket{
		makeTicket("IT-1", "Berlin", "Hardware", date(2024, 1, 1)),
		makeTicket("IT-2", "Berlin", "Software", date(2024, 1, 15)),
		makeTicket("IT-3", "Madrid", "Hardware", date(2024, 1, 31)),
		makeTicket("IT-4", "Berlin", "Hardware", date(2024, 2, 1)),
	}

	t.Run("range bounds are inclusive", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start:      date(2024, 1, 1),
			End:        date(2024, 1, 31),
			Locations:  []string{"Berlin", "Madrid"},
			IssueTypes: []string{"Hardware", "Software"},
		}

		result := criteria.Apply(tickets)

		require.Len(t, result, 3)
		assert.Equal(t, "IT-1", result[0].IssueKey)
		assert.Equal(t, "IT-3", result[2].IssueKey)
	})

	t.Run("intersects location and issue type sets", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start:      date(2024, 1, 1),
			End:        date(2024, 2, 28),
			Locations:  []string{"Berlin"},
			IssueTypes: []string{"Hardware"},
		}

		result := criteria.Apply(tickets)

		require.Len(t, result, 2)
		assert.Equal(t, "IT-1", result[0].IssueKey)
		assert.Equal(t, "IT-4", result[1].IssueKey)
	})

	t.Run("empty locations set matches nothing", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start:      date(2024, 1, 1),
			End:        date(2024, 2, 28),
			IssueTypes: []string{"Hardware", "Software"},
		}

		result := criteria.Apply(tickets)
		assert.Empty(t, result)
	})

	t.Run("empty issue type set matches nothing", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start:     date(2024, 1, 1),
			End:       date(2024, 2, 28),
			Locations: []string{"Berlin", "Madrid"},
		}

		result := criteria.Apply(tickets)
		assert.Empty(t, result)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start:      date(2024, 1, 1),
			End:        date(2024, 1, 1),
			Locations:  []string{"Berlin"},
			IssueTypes: []string{"Hardware"},
		}

		criteria.Apply(tickets)

		assert.Len(t, tickets, 4)
		assert.Equal(t, "IT-1", tickets[0].IssueKey)
	})

	t.Run("filtering is idempotent", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Start:      date(2024, 1, 1),
			End:        date(2024, 1, 31),
			Locations:  []string{"Berlin"},
			IssueTypes: []string{"Hardware", "Software"},
		}

		once := criteria.Apply(tickets)
		twice := criteria.Apply(once)

		assert.Equal(t, once, twice)
	})
}
