package analytics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// Engine computes read-only field intelligence over the report store.
// All methods are point-in-time reads, nothing is persisted.
type Engine struct {
	Reports databases.ReportDatabase
}

// NewEngine returns an analytics engine backed by the report store
func NewEngine(reports databases.ReportDatabase) *Engine {
	return &Engine{Reports: reports}
}

// reportsSince fetches reports created at or after since, optionally
// restricted to one district
func (e *Engine) reportsSince(ctx context.Context, since time.Time, district string) ([]models.DiseaseReport, error) {
	filter := bson.M{"createdAt": bson.M{"$gte": since}}
	if district != "" {
		filter["district"] = district
	}
	return e.Reports.Find(ctx, filter)
}
