package api

import (
	"net/http"
	"time"

	"github.com/auradash/aura-metals-backend/internal/models"
	"github.com/auradash/aura-metals-backend/internal/stats"
)

// handleStats serves the derived statistics the dashboard shows above the
// chart: latest record, price change, today's and all-time extremes.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	metal, err := models.ParseMetal(r.URL.Query().Get("metal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_METAL", err.Error())
		return
	}

	snap, ok := s.snapshot(w, r, metal)
	if !ok {
		return
	}

	summary := stats.Summarize(snap.Records, time.Now())
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      summary,
		Count:     intPtr(len(snap.Records)),
		Source:    s.source(metal),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
