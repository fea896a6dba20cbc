package internal

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jbautista-a11y/inventario-ti/internal/auth"

	"go.uber.org/zap"
)

// audit appends an entry to the audit trail for the acting user. A failed
// audit write is logged and swallowed; it never fails the action it records.
func (s *Server) audit(r *http.Request, action, detail string) {
	actor := auth.ActorFromContext(r.Context())
	if err := s.Store.RecordAudit(r.Context(), actor, action, detail); err != nil {
		s.Logger.Warn("audit write failed",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.Error(err))
	}
}

// listLogs returns the newest audit entries, capped at 100.
func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.Store.ListAudit(r.Context(), limit)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
