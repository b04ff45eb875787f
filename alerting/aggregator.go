package alerting

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// EventSink receives alert lifecycle events. Delivery is best-effort;
// sinks must not block aggregation.
type EventSink interface {
	AlertCreated(alert models.CommunityAlert)
	AlertUpdated(alert models.CommunityAlert)
}

// Aggregator rolls qualifying reports into community alerts, one live
// alert per (disease, GN division) key. Creation goes through a single
// conditional upsert so two concurrent submissions cannot open two alerts;
// the communityAlerts collection carries a unique partial index on the key
// restricted to active/monitoring status.
type Aggregator struct {
	Reports       databases.ReportDatabase
	Alerts        databases.AlertDatabase
	Notifications databases.NotificationDatabase
	Sinks         []EventSink
	WindowDays    int
}

// Evaluate re-aggregates the (crop, disease, GN division) group of one
// report. It returns the live alert when the group is at or above the
// report threshold, nil otherwise.
func (a Aggregator) Evaluate(ctx context.Context, report models.DiseaseReport) (*models.CommunityAlert, error) {
	windowDays := a.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	now := time.Now()
	since := primitive.NewDateTimeFromTime(now.Add(-time.Duration(windowDays) * 24 * time.Hour))

	count64, err := a.Reports.CountDocuments(ctx, bson.M{
		"crop":       report.Crop,
		"disease":    report.Disease,
		"gnDivision": report.GnDivision,
		"createdAt":  bson.M{"$gte": since},
	})
	if err != nil {
		return nil, fmt.Errorf("counting reports for aggregation: %w", err)
	}
	count := int(count64)
	if count < ReportThreshold {
		return nil, nil
	}

	nowDT := primitive.NewDateTimeFromTime(now)
	liveFilter := bson.M{
		"disease":    report.Disease,
		"gnDivision": report.GnDivision,
		"status":     bson.M{"$in": []models.AlertStatus{models.AlertActive, models.AlertMonitoring}},
	}
	update := bson.M{
		// reportCount never decreases while the alert is live, even when
		// the rolling window slides past older reports
		"$max": bson.M{"reportCount": count},
		"$set": bson.M{"lastUpdatedAt": nowDT},
		"$setOnInsert": bson.M{
			"crop":            report.Crop,
			"district":        report.District,
			"dsDivision":      report.DsDivision,
			"status":          models.AlertActive,
			"severity":        SeverityForCount(count),
			"recommendation":  RecommendationFor(report.Disease),
			"firstReportedAt": nowDT,
		},
	}

	res, err := a.Alerts.Upsert(ctx, liveFilter, update)
	if err != nil {
		return nil, fmt.Errorf("upserting community alert: %w", err)
	}
	created := res != nil && res.UpsertedID != nil

	alert, err := a.Alerts.FindOne(ctx, liveFilter)
	if err != nil {
		return nil, fmt.Errorf("loading community alert after upsert: %w", err)
	}

	previousSeverity := alert.Severity
	if derived := SeverityForCount(alert.ReportCount); derived.AtLeast(alert.Severity) && derived != alert.Severity {
		if _, err := a.Alerts.UpdateOne(ctx,
			bson.M{"_id": alert.ID},
			bson.M{"$set": bson.M{"severity": derived}},
		); err != nil {
			zap.S().Errorw("failed to update alert severity", "alertId", alert.ID.Hex(), "error", err)
		} else {
			alert.Severity = derived
		}
	}

	if created {
		a.broadcast(ctx, *alert)
		for _, sink := range a.Sinks {
			sink.AlertCreated(*alert)
		}
		zap.S().Infow("community alert created",
			"alertId", alert.ID.Hex(),
			"disease", alert.Disease,
			"gnDivision", alert.GnDivision,
			"reportCount", alert.ReportCount,
			"severity", alert.Severity)
	} else {
		if alert.Severity != previousSeverity && alert.Severity.AtLeast(models.SeverityHigh) {
			// widen the broadcast when an existing alert escalates
			a.broadcast(ctx, *alert)
		}
		for _, sink := range a.Sinks {
			sink.AlertUpdated(*alert)
		}
	}

	return alert, nil
}

// broadcast emits notifications for an alert: always to the GN division,
// and to the DS division and district when severity is high or critical.
func (a Aggregator) broadcast(ctx context.Context, alert models.CommunityAlert) {
	expires := primitive.NewDateTimeFromTime(time.Now().Add(NotificationTTLDays * 24 * time.Hour))
	title := fmt.Sprintf("Disease outbreak alert: %s (%s)", alert.Disease, alert.Crop)

	targets := []models.Notification{{
		AlertID:    alert.ID,
		Title:      title,
		Message:    alert.Recommendation,
		Severity:   alert.Severity,
		District:   alert.District,
		DsDivision: alert.DsDivision,
		GnDivision: alert.GnDivision,
		Scope:      models.ScopeGnDivision,
	}}
	if alert.Severity.AtLeast(models.SeverityHigh) {
		targets = append(targets,
			models.Notification{
				AlertID:    alert.ID,
				Title:      title,
				Message:    alert.Recommendation,
				Severity:   alert.Severity,
				District:   alert.District,
				DsDivision: alert.DsDivision,
				Scope:      models.ScopeDsDivision,
			},
			models.Notification{
				AlertID:  alert.ID,
				Title:    title,
				Message:  alert.Recommendation,
				Severity: alert.Severity,
				District: alert.District,
				Scope:    models.ScopeDistrict,
			},
		)
	}

	nowDT := primitive.NewDateTimeFromTime(time.Now())
	for _, n := range targets {
		n.CreatedAt = nowDT
		n.ExpiresAt = expires
		if _, err := a.Notifications.InsertOne(ctx, n); err != nil {
			zap.S().Errorw("failed to insert alert notification",
				"alertId", alert.ID.Hex(), "scope", n.Scope, "error", err)
		}
	}
}
