package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

// DefaultSpreadWindowDays is the window used when the caller passes no window
const DefaultSpreadWindowDays = 7

// SpreadRisk scores every reporting GN division's outbreak intensity and
// projects risk onto adjacent divisions and districts.
func (e *Engine) SpreadRisk(ctx context.Context, days int, district string) (*models.SpreadRiskResult, error) {
	if days <= 0 {
		days = DefaultSpreadWindowDays
	}

	now := time.Now().UTC()
	reports, err := e.reportsSince(ctx, now.AddDate(0, 0, -days), district)
	if err != nil {
		return nil, err
	}

	byGn := lo.GroupBy(reports, func(r models.DiseaseReport) string { return r.GnDivision })

	zones := make([]models.SpreadRiskZone, 0, len(byGn))
	for gn, group := range byGn {
		if gn == "" {
			continue
		}
		diseases := lo.Uniq(lo.Map(group, func(r models.DiseaseReport, _ int) string { return r.Disease }))
		last := lo.MaxBy(group, func(a, b models.DiseaseReport) bool { return a.CreatedAt.Time().After(b.CreatedAt.Time()) })

		daysSinceLast := now.Sub(last.CreatedAt.Time()).Hours() / 24
		recency := math.Max(0, 1-daysSinceLast/float64(days))
		intensity := math.Min(100, (float64(len(group))*10+float64(len(diseases))*5)*recency)

		zones = append(zones, models.SpreadRiskZone{
			GnDivision:    gn,
			DsDivision:    last.DsDivision,
			District:      last.District,
			ReportCount:   len(group),
			DiseaseCount:  len(diseases),
			Diseases:      diseases,
			DaysSinceLast: daysSinceLast,
			Intensity:     intensity,
			RiskLevel:     intensityRiskLevel(intensity),
		})
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Intensity > zones[j].Intensity })

	result := &models.SpreadRiskResult{
		WindowDays:  days,
		Zones:       zones,
		Neighbors:   []models.NeighborRisk{},
		Predictions: []models.SpreadPrediction{},
	}

	hot := lo.Filter(zones, func(z models.SpreadRiskZone, _ int) bool {
		return z.RiskLevel == "high" || z.RiskLevel == "critical"
	})

	seenNeighbor := map[string]bool{}
	for _, zone := range hot {
		for _, neighbor := range GnNeighbors(zone.GnDivision) {
			if seenNeighbor[neighbor] {
				continue
			}
			seenNeighbor[neighbor] = true
			status := "watch"
			if _, reporting := byGn[neighbor]; reporting {
				status = "elevated"
			}
			result.Neighbors = append(result.Neighbors, models.NeighborRisk{
				GnDivision: neighbor,
				SourceZone: zone.GnDivision,
				Status:     status,
			})
		}
	}

	reportingDistricts := lo.SliceToMap(reports, func(r models.DiseaseReport) (string, bool) { return r.District, true })
	seenPrediction := map[string]bool{}
	for _, zone := range hot {
		if zone.District == "" {
			continue
		}
		for _, neighbor := range DistrictNeighbors(zone.District) {
			key := zone.District + "/" + neighbor
			if seenPrediction[key] {
				continue
			}
			seenPrediction[key] = true

			probability := "medium"
			if reportingDistricts[neighbor] {
				probability = "confirmed_spread"
			} else if zone.RiskLevel == "critical" {
				probability = "high"
			}
			result.Predictions = append(result.Predictions, models.SpreadPrediction{
				FromDistrict: zone.District,
				ToDistrict:   neighbor,
				Disease:      dominantDisease(byGn[zone.GnDivision]),
				Probability:  probability,
			})
		}
	}

	return result, nil
}

func intensityRiskLevel(intensity float64) string {
	switch {
	case intensity > 70:
		return "critical"
	case intensity > 40:
		return "high"
	case intensity > 20:
		return "medium"
	default:
		return "low"
	}
}

// dominantDisease returns the most reported disease within a group
func dominantDisease(group []models.DiseaseReport) string {
	counts := lo.CountValuesBy(group, func(r models.DiseaseReport) string { return r.Disease })
	best, bestCount := "", 0
	for disease, count := range counts {
		if count > bestCount {
			best, bestCount = disease, count
		}
	}
	return best
}
