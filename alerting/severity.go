package alerting

import "github.com/cropwatch-lk/cropwatch-api/models"

const (
	// ReportThreshold is the in-window report count that opens an alert
	ReportThreshold = 3
	// TrustThreshold is the minimum trust score for a report to trigger
	// aggregation on ingestion
	TrustThreshold = 30
	// DefaultWindowDays is the rolling aggregation window
	DefaultWindowDays = 7
	// NotificationTTLDays is how long a broadcast stays visible to farmers
	NotificationTTLDays = 14
)

// SeverityForCount derives alert severity from the in-window report count.
// Severity is monotone non-decreasing in the count.
func SeverityForCount(count int) models.Severity {
	switch {
	case count >= 21:
		return models.SeverityCritical
	case count >= 11:
		return models.SeverityHigh
	case count >= 6:
		return models.SeverityMedium
	case count >= ReportThreshold:
		return models.SeverityLow
	}
	return models.SeverityNone
}
