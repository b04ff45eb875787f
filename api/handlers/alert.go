package handlers

import (
	"encoding/json"
	"fmt"
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
	"github.com/cropwatch-lk/cropwatch-api/verification"
)

// Alert exported for testing purposes
type Alert struct {
	DB      databases.AlertDatabase
	Auditor verification.Auditor
}

// AlertsHandler returns community alerts. gnDivision scopes to one division;
// a bare district query returns only high and critical alerts so that
// district dashboards surface the outbreaks worth acting on.
func (a Alert) AlertsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.AlertStatus(status).IsValid() {
			config.ErrorStatus("unknown alert status", http.StatusBadRequest, w, fmt.Errorf("status %q", status))
			return
		}
		filter["status"] = status
	} else {
		filter["status"] = bson.M{"$in": []models.AlertStatus{models.AlertActive, models.AlertMonitoring}}
	}

	gnDivision := r.URL.Query().Get("gnDivision")
	district := r.URL.Query().Get("district")
	switch {
	case gnDivision != "":
		filter["gnDivision"] = gnDivision
		if district != "" {
			filter["district"] = district
		}
	case district != "":
		filter["district"] = district
		filter["severity"] = bson.M{"$in": []models.Severity{models.SeverityHigh, models.SeverityCritical}}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.M{"lastUpdatedAt": -1})
	dbResp, err := a.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get alerts", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.CommunityAlert{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AlertByIDHandler returns an alert by ID
func (a Alert) AlertByIDHandler(w http.ResponseWriter, r *http.Request) {
	alertID := mux.Vars(r)["alert_id"]

	aID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := a.DB.FindOne(ctx, bson.M{"_id": aID})
	if err != nil {
		config.ErrorStatus("failed to get alert by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ResolveAlertHandler closes a live alert. Resolution is the only mutation
// officers can apply to an alert and it is always audited.
func (a Alert) ResolveAlertHandler(w http.ResponseWriter, r *http.Request) {
	alertID := mux.Vars(r)["alert_id"]

	aID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req models.ResolveAlertRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	res, err := a.DB.UpdateOne(ctx,
		bson.M{"_id": aID, "status": bson.M{"$ne": models.AlertResolved}},
		bson.M{"$set": bson.M{
			"status":        models.AlertResolved,
			"resolvedBy":    actor.OfficerID,
			"resolvedAt":    now,
			"lastUpdatedAt": now,
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to resolve alert", http.StatusInternalServerError, w, err)
		return
	}
	if res != nil && res.MatchedCount == 0 {
		config.ErrorStatus("alert not found or already resolved", http.StatusNotFound, w,
			&models.NotFoundError{Kind: "alert", ID: alertID})
		return
	}

	a.Auditor.Record(ctx, models.OfficerActionLog{
		OfficerID:   actor.OfficerID,
		OfficerName: actor.Name,
		District:    actor.District,
		ActionType:  models.ActionResolveAlert,
		TargetType:  models.TargetAlert,
		TargetID:    alertID,
		Previous:    string(models.AlertActive),
		New:         string(models.AlertResolved),
		Reason:      req.Reason,
	})

	dbResp, err := a.DB.FindOne(ctx, bson.M{"_id": aID})
	if err != nil {
		config.ErrorStatus("failed to get alert by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
