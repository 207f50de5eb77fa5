package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON or writeError, so every response
// on the API has the same content type and every error has the same shape:
//
//	{"error": "not_found", "message": "idea not found with id 42"}
//
// The frontend can always read "error" for the category and "message" for
// something to show the user.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/idea-board/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Offending field for validation errors
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be set BEFORE the body is written. Once Encode
// calls w.Write the headers are on the wire and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent, so logging is all we can do.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// ERROR MAPPING:
// The service layer returns apperror values and never thinks about HTTP.
// This is the one place where categories become status codes:
//
//	ErrValidation    → 400 validation_error
//	ErrInvalidFormat → 400 invalid_format
//	ErrUnauthorized  → 401 unauthorized
//	ErrNotFound      → 404 not_found (also used for rows owned by someone else)
//	ErrConflict      → 409 conflict
//	anything else    → 500 internal_error
//
// A 500 never carries the underlying error text to the client; it can
// contain SQL or file paths. The cause is logged and, when Sentry is
// configured, reported with the request attached.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status, errorType := classify(err)
		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{
				Error:   errorType,
				Message: appErr.Message,
				Field:   appErr.Field,
			})
			return
		}
	}

	logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("requestID", chimiddleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)
	reportError(r, err)

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrInvalidFormat):
		return http.StatusBadRequest, "invalid_format"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal_error"
}

// reportError sends err to Sentry. sentryhttp puts a request-scoped hub on
// the context; without it (tests, Sentry disabled) the current hub is used,
// which is a no-op when no client was initialised.
func reportError(r *http.Request, err error) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// badRequest is a shortcut for request-shape problems found before the
// service layer is reached (bad JSON, non-numeric ids).
func badRequest(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
		Field:   field,
	})
}
