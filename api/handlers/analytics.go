package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cropwatch-lk/cropwatch-api/analytics"
	"github.com/cropwatch-lk/cropwatch-api/api"
	"github.com/cropwatch-lk/cropwatch-api/config"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// Analytics exported for testing purposes
type Analytics struct {
	Engine *analytics.Engine
}

// GrowthHandler returns per-disease growth indicators
func (a Analytics) GrowthHandler(w http.ResponseWriter, r *http.Request) {
	days, district := analyticsParams(r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	indicators, err := a.Engine.Growth(ctx, days, district)
	if err != nil {
		config.ErrorStatus("failed to compute growth indicators", http.StatusInternalServerError, w, err)
		return
	}

	if len(indicators) == 0 {
		indicators = []models.GrowthIndicator{}
	}
	b, err := json.Marshal(indicators)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SpreadRiskHandler returns the spread-risk map
func (a Analytics) SpreadRiskHandler(w http.ResponseWriter, r *http.Request) {
	days, district := analyticsParams(r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	result, err := a.Engine.SpreadRisk(ctx, days, district)
	if err != nil {
		config.ErrorStatus("failed to compute spread risk", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(result)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CoverageHandler returns the reporting-coverage index
func (a Analytics) CoverageHandler(w http.ResponseWriter, r *http.Request) {
	days, district := analyticsParams(r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	result, err := a.Engine.Coverage(ctx, days, district)
	if err != nil {
		config.ErrorStatus("failed to compute coverage index", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(result)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func analyticsParams(r *http.Request) (int, string) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	return days, r.URL.Query().Get("district")
}
