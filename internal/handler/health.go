package handler

import (
	"net/http"

	"github.com/pkordes/farm-logbook/backend/spec"
)

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running and the
// record store answers a ping, and 503 store_unavailable otherwise.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store != nil {
		if err := s.deps.Store.Ping(r.Context()); err != nil {
			s.log.WarnContext(r.Context(), "health check failed", "error", err)
			writeErrorBody(w, http.StatusServiceUnavailable, codeStoreUnavailable, "record store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml by serving the embedded API description.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	//nolint:errcheck
	w.Write(spec.OpenAPI)
}
