package verification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// Auditor appends officer actions to the immutable action log. Writes are
// best-effort: a failed audit write must never abort the officer action
// that triggered it, so errors are logged and swallowed.
type Auditor struct {
	DB databases.ActionLogDatabase
}

// Record writes one audit entry, stamping CreatedAt
func (a Auditor) Record(ctx context.Context, entry models.OfficerActionLog) {
	if a.DB == nil {
		return
	}
	entry.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	if _, err := a.DB.InsertOne(ctx, entry); err != nil {
		zap.S().Errorw("failed to write officer action log",
			"actionType", entry.ActionType,
			"targetId", entry.TargetID,
			"officerId", entry.OfficerID,
			"error", err)
	}
}
