package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cropwatch-lk/cropwatch-api/analytics"
	mocksdb "github.com/cropwatch-lk/cropwatch-api/databases/mocks"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

func TestSpreadRisk_IntensityAndNeighbors(t *testing.T) {
	var reports []models.DiseaseReport
	// hot zone: 8 fresh reports of two diseases in Mahailuppallama
	reports = append(reports, nReportsAt(6, "rice blast", "Mahailuppallama", "Anuradhapura", time.Hour)...)
	reports = append(reports, nReportsAt(2, "brown spot", "Mahailuppallama", "Anuradhapura", time.Hour)...)
	// one in-window report in the adjacent Senapura
	reports = append(reports, reportAt("rice blast", "Senapura", "Anuradhapura", 2*time.Hour))

	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).Return(reports, nil)

	engine := analytics.NewEngine(db)
	result, err := engine.SpreadRisk(context.Background(), 7, "")

	assert.NoError(t, err)
	assert.Equal(t, 7, result.WindowDays)
	assert.Len(t, result.Zones, 2)

	hot := result.Zones[0]
	assert.Equal(t, "Mahailuppallama", hot.GnDivision)
	assert.Equal(t, 8, hot.ReportCount)
	assert.Equal(t, 2, hot.DiseaseCount)
	// (8*10 + 2*5) * ~1.0 recency, close to the 90 ceiling
	assert.InDelta(t, 90, hot.Intensity, 1)
	assert.Equal(t, "critical", hot.RiskLevel)

	// Senapura already reports in-window, so it is elevated; Halmillawa
	// is silent and only on watch
	statuses := map[string]string{}
	for _, n := range result.Neighbors {
		statuses[n.GnDivision] = n.Status
	}
	assert.Equal(t, "elevated", statuses["Senapura"])
	assert.Equal(t, "watch", statuses["Halmillawa"])
}

func TestSpreadRisk_DistrictPredictions(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).
		Return(nReportsAt(10, "rice blast", "Mahailuppallama", "Anuradhapura", time.Hour), nil)

	engine := analytics.NewEngine(db)
	result, err := engine.SpreadRisk(context.Background(), 7, "")

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Predictions)
	for _, p := range result.Predictions {
		assert.Equal(t, "Anuradhapura", p.FromDistrict)
		assert.Equal(t, "rice blast", p.Disease)
		// the source zone is critical and no neighbor district reports
		assert.Equal(t, "high", p.Probability)
	}
}

func TestSpreadRisk_StaleZoneDecays(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	// 5 reports but the last one is 6 days into a 7 day window
	db.On("Find", mock.Anything, mock.Anything).
		Return(nReportsAt(5, "brown spot", "Thalawa", "Anuradhapura", 6*24*time.Hour), nil)

	engine := analytics.NewEngine(db)
	result, err := engine.SpreadRisk(context.Background(), 7, "")

	assert.NoError(t, err)
	assert.Len(t, result.Zones, 1)
	// (5*10 + 1*5) * (1 - 6/7) ~= 7.9
	assert.InDelta(t, 7.9, result.Zones[0].Intensity, 0.5)
	assert.Equal(t, "low", result.Zones[0].RiskLevel)
	assert.Empty(t, result.Neighbors)
	assert.Empty(t, result.Predictions)
}
