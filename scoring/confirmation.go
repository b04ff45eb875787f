package scoring

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

const (
	// ConfirmationWindow is how far back corroborating reports are searched
	ConfirmationWindow = 3 * 24 * time.Hour
	// confirmationBoost is added to trust when enough confirmations exist
	confirmationBoost = 15
	// autoVerifyThreshold is the distinct-reporter count that promotes a
	// pending report to verified without officer review
	autoVerifyThreshold = 2
)

// ConfirmationChecker finds corroborating reports for a newly created
// report and applies the community-confirmation trust and status rules.
type ConfirmationChecker struct {
	DB databases.ReportDatabase
}

// Apply runs the confirmation check once for a newly persisted report.
// It mutates report in place to reflect the stored outcome and returns
// whether the report was auto-promoted to verified.
func (c ConfirmationChecker) Apply(ctx context.Context, report *models.DiseaseReport) (bool, error) {
	since := time.Now().Add(-ConfirmationWindow)
	filter := bson.M{
		"_id":        bson.M{"$ne": report.ID},
		"disease":    report.Disease,
		"gnDivision": report.GnDivision,
		"createdAt":  bson.M{"$gte": primitive.NewDateTimeFromTime(since)},
	}

	candidates, err := c.DB.Find(ctx, filter)
	if err != nil {
		return false, err
	}

	confirmations := distinctReporterConfirmations(report.ReporterID, candidates)
	if len(confirmations) == 0 {
		return false, nil
	}

	report.CommunityConfirmations = models.CommunityConfirmations{
		Count:         len(confirmations),
		Confirmations: confirmations,
	}

	set := bson.M{
		"communityConfirmations": report.CommunityConfirmations,
		"updatedAt":              primitive.NewDateTimeFromTime(time.Now()),
	}

	promoted := false
	if len(confirmations) >= autoVerifyThreshold {
		report.TrustScore = clamp(report.TrustScore + confirmationBoost)
		set["trustScore"] = report.TrustScore
		if report.VerificationStatus == models.StatusPending {
			// Community auto-promotion: the one path to verified that
			// bypasses the officer state machine.
			report.VerificationStatus = models.StatusVerified
			set["verificationStatus"] = models.StatusVerified
			promoted = true
		}
	}

	// version check guards against a concurrent officer review
	res, err := c.DB.UpdateOne(ctx,
		bson.M{"_id": report.ID, "__v": report.Version},
		bson.M{"$set": set, "$inc": bson.M{"__v": 1}},
	)
	if err != nil {
		return false, err
	}
	if res != nil && res.MatchedCount == 0 {
		zap.S().Warnw("confirmation update lost optimistic lock, skipping",
			"reportId", report.ID.Hex())
		return false, nil
	}
	report.Version++

	return promoted, nil
}

// distinctReporterConfirmations keeps one corroborating report per distinct
// known reporter other than the submitting reporter. Anonymous candidates
// cannot be shown to be independent and are ignored.
func distinctReporterConfirmations(reporterID string, candidates []models.DiseaseReport) []models.Confirmation {
	seen := map[string]struct{}{}
	var confirmations []models.Confirmation
	for _, cand := range candidates {
		if cand.ReporterID == "" || cand.ReporterID == reporterID {
			continue
		}
		if _, dup := seen[cand.ReporterID]; dup {
			continue
		}
		seen[cand.ReporterID] = struct{}{}
		confirmations = append(confirmations, models.Confirmation{
			ReportID:    cand.ID,
			ReporterID:  cand.ReporterID,
			ConfirmedAt: cand.CreatedAt,
		})
	}
	return confirmations
}
