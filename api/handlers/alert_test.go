package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cropwatch-lk/cropwatch-api/api/handlers"
	mocksdb "github.com/cropwatch-lk/cropwatch-api/databases/mocks"
	"github.com/cropwatch-lk/cropwatch-api/models"
	"github.com/cropwatch-lk/cropwatch-api/verification"
)

func TestAlert_AlertsHandlerGnDivision(t *testing.T) {
	db := &mocksdb.AlertDatabase{}
	db.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.CommunityAlert{{
			Disease:    "brown spot",
			GnDivision: "Mahailuppallama",
			Severity:   models.SeverityLow,
			Status:     models.AlertActive,
		}}, nil)

	req, err := http.NewRequest("GET", "/api/v1/alerts?gnDivision=Mahailuppallama", nil)
	if err != nil {
		t.Fatal(err)
	}

	u := handlers.Alert{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.AlertsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var alerts []models.CommunityAlert
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alerts))
	assert.Len(t, alerts, 1)
}

func TestAlert_AlertsHandlerDistrictRestrictsSeverity(t *testing.T) {
	db := &mocksdb.AlertDatabase{}
	db.On("Find", mock.Anything, mock.MatchedBy(func(filter interface{}) bool {
		m, ok := filter.(bson.M)
		if !ok {
			return false
		}
		_, hasSeverity := m["severity"]
		return m["district"] == "Anuradhapura" && hasSeverity
	}), mock.Anything).Return([]models.CommunityAlert{}, nil)

	req, err := http.NewRequest("GET", "/api/v1/alerts?district=Anuradhapura", nil)
	if err != nil {
		t.Fatal(err)
	}

	u := handlers.Alert{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.AlertsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
	db.AssertExpectations(t)
}

func TestAlert_ResolveAlertHandler(t *testing.T) {
	alertID := primitive.NewObjectID()
	db := &mocksdb.AlertDatabase{}
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	db.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.CommunityAlert{
			ID:         alertID,
			Disease:    "brown spot",
			Status:     models.AlertResolved,
			ResolvedBy: testActor.OfficerID,
		}, nil)

	logs := &mocksdb.ActionLogDatabase{}
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	u := handlers.Alert{DB: db, Auditor: verification.Auditor{DB: logs}}
	req := authedRequest(t, "POST", "/api/v1/alerts/"+alertID.Hex()+"/resolve",
		models.ResolveAlertRequest{Reason: "harvest completed"},
		map[string]string{"alert_id": alertID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ResolveAlertHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var alert models.CommunityAlert
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alert))
	assert.Equal(t, models.AlertResolved, alert.Status)
	logs.AssertNumberOfCalls(t, "InsertOne", 1)
}

func TestAlert_ResolveAlertHandlerAlreadyResolved(t *testing.T) {
	alertID := primitive.NewObjectID()
	db := &mocksdb.AlertDatabase{}
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	u := handlers.Alert{DB: db}
	req := authedRequest(t, "POST", "/api/v1/alerts/"+alertID.Hex()+"/resolve",
		nil, map[string]string{"alert_id": alertID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ResolveAlertHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAlert_AlertByIDHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/alerts/1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"alert_id": "1234"})

	u := handlers.Alert{DB: &mocksdb.AlertDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.AlertByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
