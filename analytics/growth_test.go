package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cropwatch-lk/cropwatch-api/analytics"
	mocksdb "github.com/cropwatch-lk/cropwatch-api/databases/mocks"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

func reportAt(disease, gnDivision, district string, age time.Duration) models.DiseaseReport {
	return models.DiseaseReport{
		ID:         primitive.NewObjectID(),
		ReporterID: "farmer-1",
		Crop:       "rice",
		Disease:    disease,
		District:   district,
		GnDivision: gnDivision,
		CreatedAt:  primitive.NewDateTimeFromTime(time.Now().UTC().Add(-age)),
	}
}

func nReportsAt(n int, disease, gnDivision, district string, age time.Duration) []models.DiseaseReport {
	reports := make([]models.DiseaseReport, 0, n)
	for i := 0; i < n; i++ {
		reports = append(reports, reportAt(disease, gnDivision, district, age))
	}
	return reports
}

func TestGrowth_NewDiseaseIsHundredPercent(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).
		Return(nReportsAt(5, "tungro", "Senapura", "Anuradhapura", 24*time.Hour), nil)

	engine := analytics.NewEngine(db)
	indicators, err := engine.Growth(context.Background(), 7, "")

	assert.NoError(t, err)
	assert.Len(t, indicators, 1)
	assert.Equal(t, "tungro", indicators[0].Disease)
	assert.Equal(t, 5, indicators[0].CurrentCount)
	assert.Equal(t, 0, indicators[0].PreviousCount)
	assert.Equal(t, 100.0, indicators[0].PercentChange)
	assert.Equal(t, "new", indicators[0].Trend)
}

func TestGrowth_TrendsAndRiskLevels(t *testing.T) {
	var reports []models.DiseaseReport
	// rice blast: 2 previous, 8 current -> +300%, critical
	reports = append(reports, nReportsAt(2, "rice blast", "Senapura", "Anuradhapura", 10*24*time.Hour)...)
	reports = append(reports, nReportsAt(8, "rice blast", "Senapura", "Anuradhapura", 2*24*time.Hour)...)
	// brown spot: 10 previous, 2 current -> -80%, decreasing
	reports = append(reports, nReportsAt(10, "brown spot", "Senapura", "Anuradhapura", 10*24*time.Hour)...)
	reports = append(reports, nReportsAt(2, "brown spot", "Senapura", "Anuradhapura", 2*24*time.Hour)...)

	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).Return(reports, nil)

	engine := analytics.NewEngine(db)
	indicators, err := engine.Growth(context.Background(), 7, "")

	assert.NoError(t, err)
	assert.Len(t, indicators, 2)

	// sorted by percent change descending
	assert.Equal(t, "rice blast", indicators[0].Disease)
	assert.Equal(t, "increasing", indicators[0].Trend)
	assert.Equal(t, 300.0, indicators[0].PercentChange)
	assert.Equal(t, "critical", indicators[0].RiskLevel)

	assert.Equal(t, "brown spot", indicators[1].Disease)
	assert.Equal(t, "decreasing", indicators[1].Trend)
	assert.Equal(t, -80.0, indicators[1].PercentChange)
}

func TestGrowth_DiseaseGoneFromCurrentWindow(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).
		Return(nReportsAt(4, "leaf folder", "Senapura", "Anuradhapura", 10*24*time.Hour), nil)

	engine := analytics.NewEngine(db)
	indicators, err := engine.Growth(context.Background(), 7, "")

	assert.NoError(t, err)
	assert.Len(t, indicators, 1)
	assert.Equal(t, 0, indicators[0].CurrentCount)
	assert.Equal(t, -100.0, indicators[0].PercentChange)
	assert.Equal(t, "decreasing", indicators[0].Trend)
	assert.Equal(t, "low", indicators[0].RiskLevel)
}
