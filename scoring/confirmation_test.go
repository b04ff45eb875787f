package scoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	mocksdb "github.com/cropwatch-lk/cropwatch-api/databases/mocks"
	"github.com/cropwatch-lk/cropwatch-api/models"
	"github.com/cropwatch-lk/cropwatch-api/scoring"
)

func pendingReport(reporterID string) *models.DiseaseReport {
	return &models.DiseaseReport{
		ID:                 primitive.NewObjectID(),
		ReporterID:         reporterID,
		Disease:            "brown spot",
		GnDivision:         "Mahailuppallama",
		TrustScore:         62,
		VerificationStatus: models.StatusPending,
		CreatedAt:          primitive.NewDateTimeFromTime(time.Now()),
	}
}

func corroborating(reporterID string) models.DiseaseReport {
	return models.DiseaseReport{
		ID:         primitive.NewObjectID(),
		ReporterID: reporterID,
		Disease:    "brown spot",
		GnDivision: "Mahailuppallama",
		CreatedAt:  primitive.NewDateTimeFromTime(time.Now().Add(-time.Hour)),
	}
}

func TestConfirmation_TwoDistinctReportersPromote(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).
		Return([]models.DiseaseReport{corroborating("farmer-2"), corroborating("farmer-3")}, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	report := pendingReport("farmer-1")
	checker := scoring.ConfirmationChecker{DB: db}

	promoted, err := checker.Apply(context.Background(), report)
	assert.NoError(t, err)
	assert.True(t, promoted)
	assert.Equal(t, models.StatusVerified, report.VerificationStatus)
	assert.Equal(t, 77, report.TrustScore)
	assert.Equal(t, 2, report.CommunityConfirmations.Count)
}

func TestConfirmation_TrustBoostCapsAtHundred(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).
		Return([]models.DiseaseReport{corroborating("farmer-2"), corroborating("farmer-3")}, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	report := pendingReport("farmer-1")
	report.TrustScore = 95
	checker := scoring.ConfirmationChecker{DB: db}

	promoted, err := checker.Apply(context.Background(), report)
	assert.NoError(t, err)
	assert.True(t, promoted)
	assert.Equal(t, 100, report.TrustScore)
}

func TestConfirmation_SingleReporterDoesNotPromote(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).
		Return([]models.DiseaseReport{corroborating("farmer-2")}, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	report := pendingReport("farmer-1")
	checker := scoring.ConfirmationChecker{DB: db}

	promoted, err := checker.Apply(context.Background(), report)
	assert.NoError(t, err)
	assert.False(t, promoted)
	assert.Equal(t, models.StatusPending, report.VerificationStatus)
	assert.Equal(t, 62, report.TrustScore)
	assert.Equal(t, 1, report.CommunityConfirmations.Count)
}

func TestConfirmation_DuplicateAndAnonymousReportersIgnored(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).
		Return([]models.DiseaseReport{
			corroborating("farmer-2"),
			corroborating("farmer-2"),
			corroborating(""),
			corroborating("farmer-1"),
		}, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	report := pendingReport("farmer-1")
	checker := scoring.ConfirmationChecker{DB: db}

	promoted, err := checker.Apply(context.Background(), report)
	assert.NoError(t, err)
	assert.False(t, promoted)
	assert.Equal(t, 1, report.CommunityConfirmations.Count)
}

func TestConfirmation_NoCandidatesLeavesReportAlone(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).Return([]models.DiseaseReport{}, nil)

	report := pendingReport("farmer-1")
	checker := scoring.ConfirmationChecker{DB: db}

	promoted, err := checker.Apply(context.Background(), report)
	assert.NoError(t, err)
	assert.False(t, promoted)
	db.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmation_LostOptimisticLockSkips(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("Find", mock.Anything, mock.Anything).
		Return([]models.DiseaseReport{corroborating("farmer-2"), corroborating("farmer-3")}, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	report := pendingReport("farmer-1")
	checker := scoring.ConfirmationChecker{DB: db}

	promoted, err := checker.Apply(context.Background(), report)
	assert.NoError(t, err)
	assert.False(t, promoted)
	assert.Equal(t, 0, report.Version)
}
