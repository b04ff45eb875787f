package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cropwatch-lk/cropwatch-api/api"
	"github.com/cropwatch-lk/cropwatch-api/config"
	"github.com/cropwatch-lk/cropwatch-api/escalation"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// Escalation exported for testing purposes
type Escalation struct {
	Monitor escalation.Monitor
}

// OverdueReportsHandler returns open reports that have exceeded their
// priority SLA, most overdue first
func (e Escalation) OverdueReportsHandler(w http.ResponseWriter, r *http.Request) {
	district := r.URL.Query().Get("district")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	candidates, err := e.Monitor.Candidates(ctx, district)
	if err != nil {
		config.ErrorStatus("failed to get overdue reports", http.StatusInternalServerError, w, err)
		return
	}

	if len(candidates) == 0 {
		candidates = []models.EscalationCandidate{}
	}
	b, err := json.Marshal(candidates)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
