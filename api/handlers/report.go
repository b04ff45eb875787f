package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/alerting"
	"github.com/cropwatch-lk/cropwatch-api/api"
	"github.com/cropwatch-lk/cropwatch-api/config"
	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
	"github.com/cropwatch-lk/cropwatch-api/reputation"
	"github.com/cropwatch-lk/cropwatch-api/scoring"
	"github.com/cropwatch-lk/cropwatch-api/verification"
)

var (
	// Page denotes the starting Page for pagination results
	Page = 0
)

// Report exported for testing purposes
type Report struct {
	DB            databases.ReportDatabase
	Reputation    reputation.Lookup
	Confirmations scoring.ConfirmationChecker
	Aggregator    verification.AlertAggregator
	Validate      *validator.Validate
}

// CreateReportHandler ingests a farmer disease observation, scores it and
// runs the community-confirmation and alert-aggregation checks
func (rh Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := rh.Validate.Struct(req); err != nil {
		config.ErrorStatus("invalid report payload", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var rating *float64
	if rh.Reputation != nil {
		rating, _ = rh.Reputation.Rating(ctx, req.ReporterID)
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	report := models.DiseaseReport{
		ID:                 primitive.NewObjectID(),
		ReporterID:         req.ReporterID,
		ReporterName:       req.ReporterName,
		Crop:               req.Crop,
		Disease:            req.Disease,
		Confidence:         req.Confidence,
		District:           req.District,
		DsDivision:         req.DsDivision,
		GnDivision:         req.GnDivision,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		TrustScore:         scoring.Score(req.Disease, req.Confidence, rating),
		Severity:           scoring.SeverityForConfidence(req.Disease, req.Confidence),
		VerificationStatus: models.StatusPending,
		Priority:           models.PriorityMedium,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if !scoring.IsHealthyLabel(req.Disease) && req.Confidence < scoring.FlagConfidenceCutoff {
		report.VerificationStatus = models.StatusFlagged
	}

	if _, err := rh.DB.InsertOne(ctx, report); err != nil {
		config.ErrorStatus("failed to insert report", http.StatusInternalServerError, w, err)
		return
	}

	if _, err := rh.Confirmations.Apply(ctx, &report); err != nil {
		zap.S().Errorw("community confirmation check failed",
			"reportID", report.ID.Hex(), "error", err)
	}

	response := models.CreateReportResponse{Report: &report}
	if !scoring.IsHealthyLabel(report.Disease) && report.TrustScore >= alerting.TrustThreshold {
		alert, err := rh.Aggregator.Evaluate(ctx, report)
		if err != nil {
			zap.S().Errorw("alert aggregation failed",
				"reportID", report.ID.Hex(), "error", err)
		} else {
			response.Alert = alert
		}
	}

	b, err := json.Marshal(response)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ReportsHandler returns reports filtered by status, priority and district
func (rh Report) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	limit64 := int64(Limit)
	Page = getPage(Page, r)
	skip64 := int64(Page * Limit)

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.VerificationStatus(status).IsValid() {
			config.ErrorStatus("unknown verification status", http.StatusBadRequest, w, fmt.Errorf("status %q", status))
			return
		}
		filter["verificationStatus"] = status
	}
	if priority := r.URL.Query().Get("priority"); priority != "" {
		if !models.Priority(priority).IsValid() {
			config.ErrorStatus("unknown priority", http.StatusBadRequest, w, fmt.Errorf("priority %q", priority))
			return
		}
		filter["priority"] = priority
	}
	if district := r.URL.Query().Get("district"); district != "" {
		filter["district"] = district
	}
	if gn := r.URL.Query().Get("gnDivision"); gn != "" {
		filter["gnDivision"] = gn
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().
		SetLimit(limit64).
		SetSkip(skip64).
		SetSort(bson.M{"_id": -1})

	dbResp, err := rh.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.DiseaseReport{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReportByIDHandler returns a report by ID
func (rh Report) ReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	zap.S().Debugf("report_id: %v", reportID)

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := rh.DB.FindOne(ctx, bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
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

func getPage(Page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", Page)
	} else {
		var err error
		Page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if Page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", Page))
			return 0
		}
	}
	return Page
}
