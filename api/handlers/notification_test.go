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
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cropwatch-lk/cropwatch-api/api/handlers"
	mocksdb "github.com/cropwatch-lk/cropwatch-api/databases/mocks"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

func TestNotification_NotificationsHandlerGnDivision(t *testing.T) {
	db := &mocksdb.NotificationDatabase{}
	db.On("Find", mock.Anything, mock.MatchedBy(func(filter interface{}) bool {
		f, ok := filter.(bson.M)
		return ok && f["gnDivision"] == "Mahailuppallama"
	}), mock.Anything).
		Return([]models.Notification{{
			GnDivision: "Mahailuppallama",
			Message:    models.Recommendation{En: "Drain the field and apply a recommended fungicide."},
		}}, nil)

	n := handlers.Notification{DB: db}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?gnDivision=Mahailuppallama", nil)
	rr := httptest.NewRecorder()

	n.NotificationsHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.Notification
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Mahailuppallama", got[0].GnDivision)
}

func TestNotification_NotificationsHandlerEmpty(t *testing.T) {
	db := &mocksdb.NotificationDatabase{}
	db.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)

	n := handlers.Notification{DB: db}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	rr := httptest.NewRecorder()

	n.NotificationsHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestNotification_MarkNotificationReadHandler(t *testing.T) {
	db := &mocksdb.NotificationDatabase{}
	db.On("UpdateOne", mock.Anything, mock.Anything, bson.M{"$set": bson.M{"read": true}}).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	n := handlers.Notification{DB: db}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/notifications/64c0a8f4e1d2c3b4a5f6e7d8/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": "64c0a8f4e1d2c3b4a5f6e7d8"})
	rr := httptest.NewRecorder()

	n.MarkNotificationReadHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"read": true}`, rr.Body.String())
}

func TestNotification_MarkNotificationReadHandlerNotFound(t *testing.T) {
	db := &mocksdb.NotificationDatabase{}
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	n := handlers.Notification{DB: db}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/notifications/64c0a8f4e1d2c3b4a5f6e7d8/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": "64c0a8f4e1d2c3b4a5f6e7d8"})
	rr := httptest.NewRecorder()

	n.MarkNotificationReadHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
