package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// Error codes carried in ErrorDetail.Code.
const (
	codeNotFound         = "not_found"
	codeValidation       = "validation_error"
	codeBadRequest       = "bad_request"
	codeStoreUnavailable = "store_unavailable"
	codeInternal         = "internal_error"
)

// writeJSON encodes body as the response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already written; nothing useful to do on failure.
	json.NewEncoder(w).Encode(body)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeError maps a service error onto an HTTP status via its sentinel.
// notFound is the message used for domain.ErrNotFound, because the handler is
// the layer that knows what was being looked up.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, codeNotFound, notFound)
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err))
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.log.WarnContext(r.Context(), "record store unavailable", "path", r.URL.Path, "error", err)
		writeErrorBody(w, http.StatusServiceUnavailable, codeStoreUnavailable, "record store unavailable")
	default:
		s.log.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		writeErrorBody(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.Aggregator.Search: validation error: unknown record kind \"x\"" → "unknown record kind \"x\""
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 && len(msg) > i+len(prefix) {
		return msg[i+len(prefix):]
	}
	return msg
}
