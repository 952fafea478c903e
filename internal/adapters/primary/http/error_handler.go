package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/lorrc/ticket-report-backend/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
)

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse includes field-level validation errors
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	// Check for AppError first (our custom error type)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err, requestID)
		h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}

	// Check for ValidationErrors
	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusUnprocessableEntity, err, requestID)
		h.writeValidationErrorResponse(w, validationErrs)
		return
	}

	// Map known pipeline errors to HTTP responses
	statusCode, response := h.mapPipelineError(err)
	h.logError(r, statusCode, err, requestID)
	h.writeErrorResponse(w, statusCode, response)
}

// mapPipelineError converts pipeline errors to HTTP status codes and responses
func (h *ErrorHandler) mapPipelineError(err error) (int, ErrorResponse) {
	// Structured pipeline errors carry their own detail
	var schemaErr *apperrors.SchemaError
	if errors.As(err, &schemaErr) {
		return http.StatusBadRequest, ErrorResponse{
			Error: schemaErr.Error(),
			Code:  "SCHEMA_ERROR",
			Details: map[string]interface{}{
				"missingColumns": schemaErr.Missing,
			},
		}
	}

	var loadErr *apperrors.LoadError
	if errors.As(err, &loadErr) {
		return http.StatusBadRequest, ErrorResponse{
			Error: loadErr.Error(),
			Code:  "LOAD_ERROR",
		}
	}

	var rangeErr *apperrors.InvalidRangeError
	if errors.As(err, &rangeErr) {
		return http.StatusBadRequest, ErrorResponse{
			Error: rangeErr.Error(),
			Code:  "INVALID_RANGE",
			Details: map[string]interface{}{
				"start": rangeErr.Start,
				"end":   rangeErr.End,
			},
		}
	}

	switch {
	case errors.Is(err, apperrors.ErrDatasetNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Dataset not found. Upload the file again.",
			Code:  "DATASET_NOT_FOUND",
		}

	case errors.Is(err, apperrors.ErrEmptyUpload):
		return http.StatusBadRequest, ErrorResponse{
			Error: "Uploaded file is empty",
			Code:  "EMPTY_UPLOAD",
		}

	case errors.Is(err, apperrors.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: "Uploaded file exceeds the size limit",
			Code:  "UPLOAD_TOO_LARGE",
		}

	case errors.Is(err, apperrors.ErrInvalidRange):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_RANGE",
		}

	// Rate limiting
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, ErrorResponse{
			Error: "Too many requests. Please try again later.",
			Code:  "RATE_LIMITED",
		}

	// Default to internal server error
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_ERROR",
		}
	}
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error, requestID string) {
	logAttrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err.Error(),
	}

	// Log at different levels based on status code
	switch {
	case statusCode >= 500:
		h.logger.Error("server error", logAttrs...)
	case statusCode >= 400:
		h.logger.Warn("client error", logAttrs...)
	default:
		h.logger.Info("request error", logAttrs...)
	}
}

// writeErrorResponse writes a JSON error response
func (h *ErrorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// writeValidationErrorResponse writes a validation error response
func (h *ErrorHandler) writeValidationErrorResponse(w http.ResponseWriter, errs *apperrors.ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: errs.Errors,
	})
}
