package verification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	mocksdb "github.com/cropwatch-lk/cropwatch-api/databases/mocks"
	"github.com/cropwatch-lk/cropwatch-api/models"
	"github.com/cropwatch-lk/cropwatch-api/verification"
)

var officer = models.Actor{OfficerID: "officer-1", Name: "N. Perera", District: "Anuradhapura"}

type stubAggregator struct {
	calls  int
	result *models.CommunityAlert
}

func (s *stubAggregator) Evaluate(ctx context.Context, report models.DiseaseReport) (*models.CommunityAlert, error) {
	s.calls++
	return s.result, nil
}

func storedReport(status models.VerificationStatus) *models.DiseaseReport {
	return &models.DiseaseReport{
		ID:                 primitive.NewObjectID(),
		Disease:            "rice blast",
		GnDivision:         "Senapura",
		District:           "Anuradhapura",
		TrustScore:         70,
		VerificationStatus: status,
		Priority:           models.PriorityMedium,
		Version:            3,
	}
}

func TestCanTransition_Table(t *testing.T) {
	all := []models.VerificationStatus{
		models.StatusPending, models.StatusUnderReview, models.StatusVerified,
		models.StatusRejected, models.StatusFlagged, models.StatusNeedsFieldVisit,
	}
	allowed := map[models.VerificationStatus][]models.VerificationStatus{
		models.StatusPending: {
			models.StatusUnderReview, models.StatusVerified, models.StatusRejected,
			models.StatusFlagged, models.StatusNeedsFieldVisit,
		},
		models.StatusUnderReview: {
			models.StatusVerified, models.StatusRejected,
			models.StatusFlagged, models.StatusNeedsFieldVisit,
		},
		models.StatusFlagged: {
			models.StatusUnderReview, models.StatusVerified, models.StatusRejected,
			models.StatusNeedsFieldVisit,
		},
		models.StatusNeedsFieldVisit: {
			models.StatusUnderReview, models.StatusVerified, models.StatusRejected,
		},
		models.StatusVerified: {},
		models.StatusRejected: {models.StatusUnderReview},
	}

	for _, from := range all {
		permitted := map[models.VerificationStatus]bool{}
		for _, to := range allowed[from] {
			permitted[to] = true
		}
		for _, to := range all {
			assert.Equal(t, permitted[to], verification.CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestTransition_VerifiedIsTerminal(t *testing.T) {
	report := storedReport(models.StatusVerified)
	db := &mocksdb.ReportDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(report, nil)

	logs := &mocksdb.ActionLogDatabase{}
	agg := &stubAggregator{}
	svc := verification.Service{Reports: db, Auditor: verification.Auditor{DB: logs}, Aggregator: agg}

	_, _, err := svc.Transition(context.Background(), officer, report.ID,
		models.TransitionRequest{Status: models.StatusRejected})

	var invalid *models.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StatusVerified, invalid.From)
	assert.Equal(t, models.StatusRejected, invalid.To)

	// the rejected attempt must not touch the report or the audit log
	db.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	logs.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	assert.Equal(t, 0, agg.calls)
}

func TestTransition_VerifyRunsAggregationAndAudit(t *testing.T) {
	report := storedReport(models.StatusUnderReview)
	db := &mocksdb.ReportDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(report, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	logs := &mocksdb.ActionLogDatabase{}
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	agg := &stubAggregator{result: &models.CommunityAlert{Disease: "rice blast"}}
	svc := verification.Service{Reports: db, Auditor: verification.Auditor{DB: logs}, Aggregator: agg}

	updated, alert, err := svc.Transition(context.Background(), officer, report.ID,
		models.TransitionRequest{Status: models.StatusVerified, Reason: "field symptoms match"})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusVerified, updated.VerificationStatus)
	assert.True(t, updated.Reviewed)
	assert.Equal(t, officer.OfficerID, updated.ReviewedBy)
	assert.Equal(t, 4, updated.Version)
	assert.NotNil(t, alert)
	assert.Equal(t, 1, agg.calls)
	logs.AssertNumberOfCalls(t, "InsertOne", 1)
}

func TestTransition_RejectDoesNotAggregate(t *testing.T) {
	report := storedReport(models.StatusUnderReview)
	db := &mocksdb.ReportDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(report, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	logs := &mocksdb.ActionLogDatabase{}
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	agg := &stubAggregator{}
	svc := verification.Service{Reports: db, Auditor: verification.Auditor{DB: logs}, Aggregator: agg}

	updated, alert, err := svc.Transition(context.Background(), officer, report.ID,
		models.TransitionRequest{Status: models.StatusRejected, Reason: "no symptoms on visit"})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.VerificationStatus)
	assert.Nil(t, alert)
	assert.Equal(t, 0, agg.calls)
}

func TestTransition_PriorityEscalationStamps(t *testing.T) {
	report := storedReport(models.StatusPending)
	db := &mocksdb.ReportDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(report, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	logs := &mocksdb.ActionLogDatabase{}
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	svc := verification.Service{Reports: db, Auditor: verification.Auditor{DB: logs}}

	emergency := models.PriorityEmergency
	updated, _, err := svc.Transition(context.Background(), officer, report.ID,
		models.TransitionRequest{Status: models.StatusUnderReview, Priority: &emergency})

	assert.NoError(t, err)
	assert.Equal(t, models.PriorityEmergency, updated.Priority)
}

func TestTransition_UnknownStatusRejected(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	svc := verification.Service{Reports: db}

	_, _, err := svc.Transition(context.Background(), officer, primitive.NewObjectID(),
		models.TransitionRequest{Status: "archived"})

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
	db.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestTransition_UnknownReport(t *testing.T) {
	db := &mocksdb.ReportDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	svc := verification.Service{Reports: db}

	_, _, err := svc.Transition(context.Background(), officer, primitive.NewObjectID(),
		models.TransitionRequest{Status: models.StatusUnderReview})

	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "report", notFound.Kind)
}

func TestChangePriority_Audited(t *testing.T) {
	report := storedReport(models.StatusUnderReview)
	db := &mocksdb.ReportDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(report, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	logs := &mocksdb.ActionLogDatabase{}
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	svc := verification.Service{Reports: db, Auditor: verification.Auditor{DB: logs}}

	updated, err := svc.ChangePriority(context.Background(), officer, report.ID,
		models.PriorityRequest{Priority: models.PriorityHigh, Reason: "spreading fast"})

	assert.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.NotNil(t, updated.EscalatedAt)
	assert.Equal(t, officer.OfficerID, updated.EscalatedBy)
	logs.AssertNumberOfCalls(t, "InsertOne", 1)
}

func TestChangePriority_RetriesOnLostOptimisticLock(t *testing.T) {
	report := storedReport(models.StatusUnderReview)
	db := &mocksdb.ReportDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(report, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil).Once()
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	logs := &mocksdb.ActionLogDatabase{}
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	svc := verification.Service{Reports: db, Auditor: verification.Auditor{DB: logs}}

	updated, err := svc.ChangePriority(context.Background(), officer, report.ID,
		models.PriorityRequest{Priority: models.PriorityEmergency})

	assert.NoError(t, err)
	assert.Equal(t, models.PriorityEmergency, updated.Priority)
	db.AssertNumberOfCalls(t, "UpdateOne", 2)
	logs.AssertNumberOfCalls(t, "InsertOne", 1)
}

func TestChangePriority_GivesUpAfterRepeatedConflicts(t *testing.T) {
	report := storedReport(models.StatusUnderReview)
	db := &mocksdb.ReportDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(report, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	logs := &mocksdb.ActionLogDatabase{}

	svc := verification.Service{Reports: db, Auditor: verification.Auditor{DB: logs}}

	updated, err := svc.ChangePriority(context.Background(), officer, report.ID,
		models.PriorityRequest{Priority: models.PriorityEmergency})

	assert.Nil(t, updated)
	var vErr *models.ValidationError
	assert.ErrorAs(t, err, &vErr)
	logs.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}
