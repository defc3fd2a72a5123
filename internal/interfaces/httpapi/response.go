package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/arena-streams/internal/usecase"
)

// Cache-Control values per resource.
const (
	cacheSports  = "public, max-age=3600"
	cacheMatches = "public, max-age=60"
	cacheStream  = "public, max-age=300"
	cacheMatch   = "public, max-age=60"
	cachePage    = "public, max-age=300"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Message    string
	Details    string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

// writeRawJSON serves upstream bytes without re-encoding them.
func writeRawJSON(ctx context.Context, w http.ResponseWriter, status int, body []byte) {
	ctx, span := startSpan(ctx, "httpapi.writeRawJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func setCacheControl(w http.ResponseWriter, value string) {
	w.Header().Set("Cache-Control", value)
}

// writeError maps err to a status and writes {error, details}. failure is
// the message used for upstream and unexpected errors, such as
// "Failed to fetch matches".
func writeError(ctx context.Context, w http.ResponseWriter, err error, failure string) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err, failure)
	writeJSON(ctx, w, mapped.HTTPStatus, errorBody{
		Error:   mapped.Message,
		Details: mapped.Details,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
}

func mapError(ctx context.Context, err error, failure string) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	if failure == "" {
		failure = "Internal server error"
	}

	var notFound *usecase.MatchNotFoundError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Message:    "Invalid request",
			Details:    err.Error(),
		}
	case errors.As(err, &notFound):
		mapped := mappedError{
			HTTPStatus: http.StatusNotFound,
			Message:    "Match not found",
		}
		if len(notFound.FailedSports) > 0 {
			mapped.Details = "unavailable feeds: " + notFound.FailedFeeds()
		}
		return mapped
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Message:    "Not found",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Message:    failure,
			Details:    err.Error(),
		}
	}
}
