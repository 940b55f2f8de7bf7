package api

import (
	"net/http"
	"time"

	"github.com/auradash/aura-metals-backend/internal/models"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Poller     string `json:"poller"`
	GoldFeed   string `json:"gold_feed"`
	SilverFeed string `json:"silver_feed"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	pollerStatus := "stopped"
	if s.refresher.Running() {
		pollerStatus = "running"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: healthServices{
			Poller:     pollerStatus,
			GoldFeed:   string(s.store.Get(models.Gold).State),
			SilverFeed: string(s.store.Get(models.Silver).State),
		},
	})
}
