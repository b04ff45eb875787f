package verification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// transitions is the closed officer transition table. verified is terminal;
// rejected can only be re-opened back into review.
var transitions = map[models.VerificationStatus][]models.VerificationStatus{
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

// CanTransition reports whether the officer transition table permits
// moving a report from one status to another.
func CanTransition(from, to models.VerificationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AlertAggregator re-aggregates a report's disease/location group after a
// verification outcome.
type AlertAggregator interface {
	Evaluate(ctx context.Context, report models.DiseaseReport) (*models.CommunityAlert, error)
}

// Service applies officer-driven report mutations through the transition
// table, re-aggregates alerts on verification and audits every change.
type Service struct {
	Reports    databases.ReportDatabase
	Auditor    Auditor
	Aggregator AlertAggregator
}

const maxTransitionRetries = 3

// Transition validates and applies an officer status change. The returned
// report reflects the stored state. Invalid transitions leave the report
// untouched and are reported as *models.InvalidTransitionError.
func (s Service) Transition(ctx context.Context, actor models.Actor, reportID primitive.ObjectID, req models.TransitionRequest) (*models.DiseaseReport, *models.CommunityAlert, error) {
	if !req.Status.IsValid() {
		return nil, nil, &models.ValidationError{Field: "status", Detail: "unknown verification status"}
	}
	if req.Priority != nil && !req.Priority.IsValid() {
		return nil, nil, &models.ValidationError{Field: "priority", Detail: "unknown priority"}
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		report, err := s.Reports.FindOne(ctx, bson.M{"_id": reportID})
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil, &models.NotFoundError{Kind: "report", ID: reportID.Hex()}
			}
			return nil, nil, err
		}

		if !CanTransition(report.VerificationStatus, req.Status) {
			// the rejected attempt is operational telemetry, not a status change
			zap.S().Warnw("rejected verification transition",
				"reportId", reportID.Hex(),
				"from", report.VerificationStatus,
				"to", req.Status,
				"officerId", actor.OfficerID)
			return nil, nil, &models.InvalidTransitionError{From: report.VerificationStatus, To: req.Status}
		}

		now := primitive.NewDateTimeFromTime(time.Now())
		set := bson.M{
			"verificationStatus": req.Status,
			"reviewed":           true,
			"reviewedBy":         actor.OfficerID,
			"reviewedAt":         now,
			"updatedAt":          now,
		}
		if notes := joinNotes(req.Reason, req.Notes); notes != "" {
			set["reviewNotes"] = notes
		}
		if req.Priority != nil {
			set["priority"] = *req.Priority
			if *req.Priority == models.PriorityHigh || *req.Priority == models.PriorityEmergency {
				set["escalatedAt"] = now
				set["escalatedBy"] = actor.OfficerID
			}
		}

		res, err := s.Reports.UpdateOne(ctx,
			bson.M{"_id": reportID, "__v": report.Version},
			bson.M{"$set": set, "$inc": bson.M{"__v": 1}},
		)
		if err != nil {
			return nil, nil, err
		}
		if res != nil && res.MatchedCount == 0 {
			// concurrent confirmation or review beat us, re-read and re-validate
			continue
		}

		previous := report.VerificationStatus
		report.VerificationStatus = req.Status
		report.Reviewed = true
		report.ReviewedBy = actor.OfficerID
		report.ReviewedAt = &now
		if v, ok := set["reviewNotes"].(string); ok {
			report.ReviewNotes = v
		}
		if req.Priority != nil {
			report.Priority = *req.Priority
		}
		report.Version++

		s.Auditor.Record(ctx, models.OfficerActionLog{
			OfficerID:   actor.OfficerID,
			OfficerName: actor.Name,
			District:    actor.District,
			ActionType:  models.ActionForStatus(req.Status),
			TargetType:  models.TargetReport,
			TargetID:    reportID.Hex(),
			Previous:    string(previous),
			New:         string(req.Status),
			Reason:      req.Reason,
			Notes:       req.Notes,
		})

		var alert *models.CommunityAlert
		if req.Status == models.StatusVerified && s.Aggregator != nil {
			alert, err = s.Aggregator.Evaluate(ctx, *report)
			if err != nil {
				// verification already committed; aggregation can be retried
				// by the next qualifying report
				zap.S().Errorw("alert aggregation after verification failed",
					"reportId", reportID.Hex(), "error", err)
			}
		}
		return report, alert, nil
	}

	return nil, nil, &models.ValidationError{Detail: "report was modified concurrently, retry"}
}

// ChangePriority applies an officer priority change with its own audit entry
func (s Service) ChangePriority(ctx context.Context, actor models.Actor, reportID primitive.ObjectID, req models.PriorityRequest) (*models.DiseaseReport, error) {
	if !req.Priority.IsValid() {
		return nil, &models.ValidationError{Field: "priority", Detail: "unknown priority"}
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		report, err := s.Reports.FindOne(ctx, bson.M{"_id": reportID})
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, &models.NotFoundError{Kind: "report", ID: reportID.Hex()}
			}
			return nil, err
		}

		now := primitive.NewDateTimeFromTime(time.Now())
		set := bson.M{
			"priority":  req.Priority,
			"updatedAt": now,
		}
		if req.Priority == models.PriorityHigh || req.Priority == models.PriorityEmergency {
			set["escalatedAt"] = now
			set["escalatedBy"] = actor.OfficerID
		}

		res, err := s.Reports.UpdateOne(ctx,
			bson.M{"_id": reportID, "__v": report.Version},
			bson.M{"$set": set, "$inc": bson.M{"__v": 1}},
		)
		if err != nil {
			return nil, err
		}
		if res != nil && res.MatchedCount == 0 {
			// concurrent confirmation or review beat us, re-read and retry
			continue
		}

		previous := report.Priority
		report.Priority = req.Priority
		if req.Priority == models.PriorityHigh || req.Priority == models.PriorityEmergency {
			report.EscalatedAt = &now
			report.EscalatedBy = actor.OfficerID
		}
		report.Version++

		s.Auditor.Record(ctx, models.OfficerActionLog{
			OfficerID:   actor.OfficerID,
			OfficerName: actor.Name,
			District:    actor.District,
			ActionType:  models.ActionChangePriority,
			TargetType:  models.TargetReport,
			TargetID:    reportID.Hex(),
			Previous:    string(previous),
			New:         string(req.Priority),
			Reason:      req.Reason,
		})

		return report, nil
	}

	return nil, &models.ValidationError{Detail: "report was modified concurrently, retry"}
}

func joinNotes(reason, notes string) string {
	switch {
	case reason == "":
		return notes
	case notes == "":
		return reason
	}
	return reason + "; " + notes
}
