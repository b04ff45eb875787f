package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/api"
	"github.com/cropwatch-lk/cropwatch-api/config"
	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// ActionLog exported for testing purposes
type ActionLog struct {
	DB databases.ActionLogDatabase
}

// ActionLogHandler returns audit entries filtered by officer, district or
// target, newest first. The log is append-only; there is no mutation route.
func (a ActionLog) ActionLogHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	limit64 := int64(Limit)
	Page = getPage(Page, r)
	skip64 := int64(Page * Limit)

	filter := bson.M{}
	if officerID := r.URL.Query().Get("officerId"); officerID != "" {
		filter["officerId"] = officerID
	}
	if district := r.URL.Query().Get("district"); district != "" {
		filter["district"] = district
	}
	if targetType := r.URL.Query().Get("targetType"); targetType != "" {
		filter["targetType"] = targetType
	}
	if targetID := r.URL.Query().Get("targetId"); targetID != "" {
		filter["targetId"] = targetID
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().
		SetLimit(limit64).
		SetSkip(skip64).
		SetSort(bson.M{"_id": -1})

	dbResp, err := a.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get action log", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.OfficerActionLog{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
