package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cropwatch-lk/cropwatch-api/api"
	"github.com/cropwatch-lk/cropwatch-api/config"
	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/escalation"
	"github.com/cropwatch-lk/cropwatch-api/models"
	"github.com/cropwatch-lk/cropwatch-api/verification"
)

// Verification exported for testing purposes
type Verification struct {
	Service verification.Service
	DB      databases.ReportDatabase
}

// TransitionHandler applies an officer status change to a report
func (v Verification) TransitionHandler(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req models.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, alert, err := v.Service.Transition(ctx, actor, reportID, req)
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	b, err := json.Marshal(models.CreateReportResponse{Report: report, Alert: alert})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PriorityHandler applies an officer priority change to a report
func (v Verification) PriorityHandler(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req models.PriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, err := v.Service.ChangePriority(ctx, actor, reportID, req)
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	b, err := json.Marshal(report)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// FieldVisitHandler records field-visit findings. The outcome is mapped
// through the transition table so a terminal report still rejects it.
func (v Verification) FieldVisitHandler(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req models.FieldVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	var target models.VerificationStatus
	switch req.Outcome {
	case "confirmed":
		target = models.StatusVerified
	case "not_found":
		target = models.StatusRejected
	default:
		config.ErrorStatus("unknown field visit outcome", http.StatusBadRequest, w,
			&models.ValidationError{Field: "outcome", Detail: "must be confirmed or not_found"})
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, alert, err := v.Service.Transition(ctx, actor, reportID, models.TransitionRequest{
		Status: target,
		Reason: "field visit",
		Notes:  req.Findings,
	})
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	b, err := json.Marshal(models.CreateReportResponse{Report: report, Alert: alert})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddNoteHandler appends an internal officer note to a report
func (v Verification) AddNoteHandler(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromRequest(w, r)
	if !ok {
		return
	}
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req models.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Note == "" {
		config.ErrorStatus("note must not be empty", http.StatusBadRequest, w,
			&models.ValidationError{Field: "note", Detail: "required"})
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	note := models.OfficerNote{
		ID:        uuid.New().String(),
		OfficerID: actor.OfficerID,
		Note:      req.Note,
		CreatedAt: now,
	}

	res, err := v.DB.UpdateOne(ctx,
		bson.M{"_id": reportID},
		bson.M{"$push": bson.M{"internalNotes": note}, "$set": bson.M{"updatedAt": now}},
	)
	if err != nil {
		config.ErrorStatus("failed to add note", http.StatusInternalServerError, w, err)
		return
	}
	if res != nil && res.MatchedCount == 0 {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w,
			&models.NotFoundError{Kind: "report", ID: reportID.Hex()})
		return
	}

	b, err := json.Marshal(note)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// StatsHandler summarizes the review queue, optionally for one district
func (v Verification) StatsHandler(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 30
	}
	district := r.URL.Query().Get("district")

	filter := bson.M{"createdAt": bson.M{"$gte": primitive.NewDateTimeFromTime(time.Now().AddDate(0, 0, -days))}}
	if district != "" {
		filter["district"] = district
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reports, err := v.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}

	stats := models.VerificationStats{
		District:   district,
		Total:      len(reports),
		ByStatus:   map[models.VerificationStatus]int{},
		ByPriority: map[models.Priority]int{},
		WindowDays: days,
	}
	trustSum := 0
	now := time.Now()
	for _, report := range reports {
		stats.ByStatus[report.VerificationStatus]++
		stats.ByPriority[report.Priority]++
		trustSum += report.TrustScore
		if report.VerificationStatus == models.StatusVerified && !report.Reviewed {
			stats.AutoVerified++
		}
		if budget, ok := escalation.BudgetFor(report.Priority); ok {
			open := report.VerificationStatus == models.StatusPending ||
				report.VerificationStatus == models.StatusUnderReview
			if open && now.Sub(report.CreatedAt.Time()) > budget {
				stats.PendingOverdue++
			}
		}
	}
	if len(reports) > 0 {
		stats.AverageTrust = float64(trustSum) / float64(len(reports))
	}

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func reportIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return primitive.NilObjectID, false
	}
	return rID, true
}

func actorFromRequest(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated officer on request", http.StatusUnauthorized, w,
			errors.New("missing actor"))
		return models.Actor{}, false
	}
	return actor, true
}

func writeTransitionError(w http.ResponseWriter, err error) {
	var invalid *models.InvalidTransitionError
	var notFound *models.NotFoundError
	var validation *models.ValidationError
	switch {
	case errors.As(err, &invalid):
		config.ErrorStatus("transition not permitted", http.StatusConflict, w, err)
	case errors.As(err, &notFound):
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
	case errors.As(err, &validation):
		config.ErrorStatus("invalid request", http.StatusBadRequest, w, err)
	default:
		config.ErrorStatus("failed to update report", http.StatusInternalServerError, w, err)
	}
}
