package escalation

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// budgets holds the per-priority response-time budget. Priorities without
// an entry (low, info) never escalate.
var budgets = map[models.Priority]time.Duration{
	models.PriorityEmergency: 2 * time.Hour,
	models.PriorityHigh:      12 * time.Hour,
	models.PriorityMedium:    48 * time.Hour,
}

// BudgetFor returns the response budget for a priority and whether one exists
func BudgetFor(p models.Priority) (time.Duration, bool) {
	d, ok := budgets[p]
	return d, ok
}

// Monitor scans for reports overdue against their priority budget. It is a
// pure read; officers act on the result manually.
type Monitor struct {
	Reports databases.ReportDatabase
}

// Candidates returns overdue unresolved reports sorted by hoursOverdue
// descending. district narrows the scan when non-empty.
func (m Monitor) Candidates(ctx context.Context, district string) ([]models.EscalationCandidate, error) {
	filter := bson.M{
		"verificationStatus": bson.M{"$in": []models.VerificationStatus{
			models.StatusPending, models.StatusUnderReview,
		}},
		"priority": bson.M{"$in": []models.Priority{
			models.PriorityEmergency, models.PriorityHigh, models.PriorityMedium,
		}},
	}
	if district != "" {
		filter["district"] = district
	}

	reports, err := m.Reports.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var candidates []models.EscalationCandidate
	for _, report := range reports {
		budget, ok := budgets[report.Priority]
		if !ok {
			continue
		}
		age := now.Sub(report.CreatedAt.Time())
		if age <= budget {
			continue
		}
		candidates = append(candidates, models.EscalationCandidate{
			Report:       report,
			BudgetHours:  budget.Hours(),
			AgeHours:     age.Hours(),
			HoursOverdue: (age - budget).Hours(),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].HoursOverdue > candidates[j].HoursOverdue
	})
	return candidates, nil
}
