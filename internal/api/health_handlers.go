package api

import (
	"net/http"

	"github.com/vytor/recallvault/internal/logger"
)

// handleHealth reports liveness; it only proves the process is serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type readyResponse struct {
	Status     string   `json:"status"`
	Migrations []string `json:"migrations,omitempty"`
}

// handleReady reports readiness. Returns 503 while the database is
// unreachable or its schema version cannot be read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	resp := readyResponse{Status: "ready"}
	if s.DB != nil {
		if err := s.DB.PingContext(r.Context()); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, readyResponse{Status: "database unavailable"})
			return
		}
		versions, err := s.DB.AppliedMigrations(r.Context())
		if err != nil {
			log.Warn("readiness check failed - migrations: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, readyResponse{Status: "migrations unavailable"})
			return
		}
		resp.Migrations = versions
	}
	writeJSON(w, r, http.StatusOK, resp)
}
