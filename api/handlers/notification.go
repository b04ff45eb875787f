package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cropwatch-lk/cropwatch-api/api"
	"github.com/cropwatch-lk/cropwatch-api/config"
	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// Notification exported for testing purposes
type Notification struct {
	DB databases.NotificationDatabase
}

// NotificationsHandler returns unexpired notifications for a location.
// Farmers poll this with their GN division; district dashboards pass
// district only.
func (n Notification) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{"expiresAt": bson.M{"$gt": primitive.NewDateTimeFromTime(time.Now())}}
	if gn := r.URL.Query().Get("gnDivision"); gn != "" {
		filter["gnDivision"] = gn
	}
	if ds := r.URL.Query().Get("dsDivision"); ds != "" {
		filter["dsDivision"] = ds
	}
	if district := r.URL.Query().Get("district"); district != "" {
		filter["district"] = district
	}
	if unread := r.URL.Query().Get("unread"); unread == "true" {
		filter["read"] = false
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	dbResp, err := n.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get notifications", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Notification{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MarkNotificationReadHandler marks one notification as read
func (n Notification) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notification_id"]

	nID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := n.DB.UpdateOne(ctx, bson.M{"_id": nID}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		config.ErrorStatus("failed to mark notification as read", http.StatusInternalServerError, w, err)
		return
	}
	if res != nil && res.MatchedCount == 0 {
		config.ErrorStatus("failed to get notification by ID", http.StatusNotFound, w,
			&models.NotFoundError{Kind: "notification", ID: notificationID})
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"read": true}`))
}
