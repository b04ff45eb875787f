package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

const (
	// DefaultCoverageWindowDays is the window used when the caller passes no window
	DefaultCoverageWindowDays = 30

	// staleAfterDays marks a division stale once it has been silent this long
	staleAfterDays = 14

	// coverageLookbackDays bounds how far back the division universe is built.
	// A division that last reported inside the lookback but outside the window
	// still appears, as stale, instead of silently dropping off the index.
	coverageLookbackDays = 90

	underReportingFrequency = 0.1
	underReportingReporters = 2
)

// Coverage scores reporting activity per GN division and district and flags
// blind spots where silence may hide disease rather than indicate health.
func (e *Engine) Coverage(ctx context.Context, days int, district string) (*models.CoverageResult, error) {
	if days <= 0 {
		days = DefaultCoverageWindowDays
	}

	now := time.Now().UTC()
	lookback := days
	if lookback < coverageLookbackDays {
		lookback = coverageLookbackDays
	}
	reports, err := e.reportsSince(ctx, now.AddDate(0, 0, -lookback), district)
	if err != nil {
		return nil, err
	}

	windowStart := now.AddDate(0, 0, -days)
	byGn := lo.GroupBy(reports, func(r models.DiseaseReport) string { return r.GnDivision })

	divisions := make([]models.CoverageEntry, 0, len(byGn))
	for gn, group := range byGn {
		if gn == "" {
			continue
		}
		inWindow := lo.Filter(group, func(r models.DiseaseReport, _ int) bool {
			return !r.CreatedAt.Time().Before(windowStart)
		})
		reporters := lo.Uniq(lo.FilterMap(inWindow, func(r models.DiseaseReport, _ int) (string, bool) {
			return r.ReporterID, r.ReporterID != ""
		}))
		last := lo.MaxBy(group, func(a, b models.DiseaseReport) bool { return a.CreatedAt.Time().After(b.CreatedAt.Time()) })
		daysSinceLast := now.Sub(last.CreatedAt.Time()).Hours() / 24
		frequency := float64(len(inWindow)) / float64(days)

		divisions = append(divisions, models.CoverageEntry{
			GnDivision:      gn,
			District:        last.District,
			ReportCount:     len(inWindow),
			UniqueReporters: len(reporters),
			DaysSinceLast:   daysSinceLast,
			Frequency:       frequency,
			Status:          coverageStatus(daysSinceLast, frequency, len(reporters)),
		})
	}
	sort.Slice(divisions, func(i, j int) bool {
		return divisions[i].DaysSinceLast > divisions[j].DaysSinceLast
	})

	byDistrict := lo.GroupBy(divisions, func(d models.CoverageEntry) string { return d.District })
	districts := make([]models.DistrictCoverage, 0, len(byDistrict))
	for name, entries := range byDistrict {
		if name == "" {
			continue
		}
		reporting := lo.CountBy(entries, func(d models.CoverageEntry) bool { return d.ReportCount > 0 })
		expected := ExpectedGnDivisions(name)
		percent := float64(reporting) / float64(expected) * 100

		districts = append(districts, models.DistrictCoverage{
			District:        name,
			ReportingGn:     reporting,
			ExpectedGn:      expected,
			CoveragePercent: percent,
			BlindSpotRisk:   blindSpotRisk(percent),
		})
	}
	sort.Slice(districts, func(i, j int) bool {
		return districts[i].CoveragePercent < districts[j].CoveragePercent
	})

	result := &models.CoverageResult{
		WindowDays: days,
		Divisions:  divisions,
		Districts:  districts,
		Alerts:     []models.CoverageAlert{},
	}

	for _, d := range divisions {
		switch d.Status {
		case "stale":
			result.Alerts = append(result.Alerts, models.CoverageAlert{
				Type:     "stale_cluster",
				Location: d.GnDivision,
				Detail:   fmt.Sprintf("no reports for %.0f days", d.DaysSinceLast),
			})
		case "under_reporting":
			result.Alerts = append(result.Alerts, models.CoverageAlert{
				Type:     "low_reporter_diversity",
				Location: d.GnDivision,
				Detail:   fmt.Sprintf("%d reports from %d reporters in %d days", d.ReportCount, d.UniqueReporters, days),
			})
		}
	}
	for _, d := range districts {
		if d.BlindSpotRisk == "high" {
			result.Alerts = append(result.Alerts, models.CoverageAlert{
				Type:     "low_coverage_district",
				Location: d.District,
				Detail:   fmt.Sprintf("%d of %d GN divisions reporting (%.1f%%)", d.ReportingGn, d.ExpectedGn, d.CoveragePercent),
			})
		}
	}

	return result, nil
}

func coverageStatus(daysSinceLast, frequency float64, reporters int) string {
	if daysSinceLast > staleAfterDays {
		return "stale"
	}
	if frequency < underReportingFrequency && reporters < underReportingReporters {
		return "under_reporting"
	}
	return "adequate"
}

func blindSpotRisk(coveragePercent float64) string {
	switch {
	case coveragePercent < 20:
		return "high"
	case coveragePercent < 40:
		return "medium"
	default:
		return "low"
	}
}
