package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

// DefaultGrowthWindowDays is the window used when the caller passes no window
const DefaultGrowthWindowDays = 7

// Growth compares per-disease report volume in the current window against
// the preceding window of the same length.
func (e *Engine) Growth(ctx context.Context, days int, district string) ([]models.GrowthIndicator, error) {
	if days <= 0 {
		days = DefaultGrowthWindowDays
	}

	now := time.Now().UTC()
	currentSince := now.AddDate(0, 0, -days)
	previousSince := now.AddDate(0, 0, -2*days)

	reports, err := e.reportsSince(ctx, previousSince, district)
	if err != nil {
		return nil, err
	}

	current, previous := lo.FilterReject(reports, func(r models.DiseaseReport, _ int) bool {
		return !r.CreatedAt.Time().Before(currentSince)
	})
	currentCounts := lo.CountValuesBy(current, func(r models.DiseaseReport) string { return r.Disease })
	previousCounts := lo.CountValuesBy(previous, func(r models.DiseaseReport) string { return r.Disease })

	diseases := lo.Union(lo.Keys(currentCounts), lo.Keys(previousCounts))

	indicators := make([]models.GrowthIndicator, 0, len(diseases))
	for _, disease := range diseases {
		cur := currentCounts[disease]
		prev := previousCounts[disease]

		var change float64
		trend := "stable"
		switch {
		case prev == 0 && cur > 0:
			change = 100
			trend = "new"
		case prev == 0:
			continue
		default:
			change = float64(cur-prev) / float64(prev) * 100
			if change > 10 {
				trend = "increasing"
			} else if change < -10 {
				trend = "decreasing"
			}
		}

		indicators = append(indicators, models.GrowthIndicator{
			Disease:       disease,
			CurrentCount:  cur,
			PreviousCount: prev,
			PercentChange: change,
			Trend:         trend,
			RiskLevel:     growthRiskLevel(change, cur),
		})
	}

	sort.Slice(indicators, func(i, j int) bool {
		return indicators[i].PercentChange > indicators[j].PercentChange
	})
	return indicators, nil
}

func growthRiskLevel(percentChange float64, count int) string {
	switch {
	case percentChange > 50 && count > 5:
		return "critical"
	case percentChange > 25 || count > 10:
		return "high"
	case percentChange > 0 || count > 3:
		return "medium"
	default:
		return "low"
	}
}
