package validation_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-report-backend/internal/adapters/primary/validation"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
)

func TestValidator(t *testing.T) {
	t.Run("required rejects blank values", func(t *testing.T) {
		v := validation.NewValidator()
		v.Required("name", "   ")

		assert.True(t, v.HasErrors())
	})

	t.Run("min and max bound integers", func(t *testing.T) {
		v := validation.NewValidator()
		v.Min("limit", 5, 1).Max("limit", 5, 10)
		assert.False(t, v.HasErrors())

		v = validation.NewValidator()
		v.Max("limit", 2000, 1000)
		assert.True(t, v.HasErrors())
	})

	t.Run("custom adds a message when the check fails", func(t *testing.T) {
		v := validation.NewValidator()
		v.Custom("datasetID", false, "Must be a 64-character content hash")

		require.True(t, v.HasErrors())
		assert.Contains(t, v.Errors().Errors["datasetID"], "Must be a 64-character content hash")
	})
}

func TestParseDateQueryParam(t *testing.T) {
	t.Run("parses a YYYY-MM-DD date as midnight UTC", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?start=2024-01-15", nil)

		got, err := validation.ParseDateQueryParam(r, "start")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("missing parameter is a bad request", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)

		_, err := validation.ParseDateQueryParam(r, "start")

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})

	t.Run("non-date value is a bad request", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?end=15-01-2024", nil)

		_, err := validation.ParseDateQueryParam(r, "end")

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})
}

func TestParseSetQueryParam(t *testing.T) {
	t.Run("splits on commas and trims whitespace", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?locations=Berlin,%20Madrid%20,Paris", nil)

		got := validation.ParseSetQueryParam(r, "locations")

		assert.Equal(t, []string{"Berlin", "Madrid", "Paris"}, got)
	})

	t.Run("missing parameter is an empty set", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)

		assert.Nil(t, validation.ParseSetQueryParam(r, "locations"))
	})

	t.Run("blank entries are skipped", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?issueTypes=Hardware,,%20", nil)

		assert.Equal(t, []string{"Hardware"}, validation.ParseSetQueryParam(r, "issueTypes"))
	})
}

func TestParseIntQueryParam(t *testing.T) {
	t.Run("parses a valid integer", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?limit=25", nil)
		assert.Equal(t, 25, validation.ParseIntQueryParam(r, "limit", 0))
	})

	t.Run("falls back to the default on missing or bad input", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?limit=abc", nil)
		assert.Equal(t, 10, validation.ParseIntQueryParam(r, "limit", 10))

		r = httptest.NewRequest("GET", "/?limit=-5", nil)
		assert.Equal(t, 10, validation.ParseIntQueryParam(r, "limit", 10))

		r = httptest.NewRequest("GET", "/", nil)
		assert.Equal(t, 10, validation.ParseIntQueryParam(r, "limit", 10))
	})
}
