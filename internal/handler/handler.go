package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"taste-haven/internal/middleware"
	"taste-haven/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code. The status
// is already sent when encoding fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().
			Err(err).
			Int("status", status).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("failed to encode response")
	}
}

// writeError writes an error body carrying the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, resp model.ErrorResponse, logger zerolog.Logger) {
	resp.CorrelationID = middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", resp.Message).
		Int("status", status).
		Str("request_id", resp.CorrelationID).
		Msg("handler error")

	writeJSON(w, r, status, resp, logger)
}

// writeServiceError maps a service error onto a status code. Validation
// failures become 400 with invalidMessage, domain errors become 404 and
// anything else is answered with 500 and failMessage; its cause is only logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, invalidMessage, failMessage string, logger zerolog.Logger) {
	var vErr *model.ValidationError
	var dErr *model.DomainError

	switch {
	case errors.As(err, &vErr):
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{Message: invalidMessage, Errors: vErr.Fields}, logger)
	case errors.As(err, &dErr):
		writeError(w, r, http.StatusNotFound, model.ErrorResponse{Message: dErr.Message}, logger)
	default:
		logger.Error().Err(err).Msg(failMessage)
		writeError(w, r, http.StatusInternalServerError, model.ErrorResponse{Message: failMessage}, logger)
	}
}

// methodNotAllowed answers a request with an unsupported method.
func methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string, logger zerolog.Logger) {
	w.Header().Set("Allow", allow)
	writeError(w, r, http.StatusMethodNotAllowed, model.ErrorResponse{Message: "Method not allowed"}, logger)
}

// pathID extracts the trailing id from a path such as /api/orders/{id}.
// Paths with further segments yield "".
func pathID(path, prefix string) string {
	id := strings.TrimPrefix(path, prefix)
	if id == path || strings.Contains(id, "/") {
		return ""
	}
	return id
}
