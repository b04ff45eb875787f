package scoring

import (
	"math"
	"strings"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

// Trust scoring weights. The score starts at a neutral base and is nudged
// by AI confidence, reporter history and submission red flags.
const (
	baseScore            = 50.0
	confidenceWeight     = 25.0
	reputationWeight     = 25.0
	reputationScale      = 5.0
	healthyLabelPenalty  = 20.0
	lowConfidencePenalty = 15.0
	lowConfidenceCutoff  = 0.3
)

// FlagConfidenceCutoff is the ingestion threshold below which a new report
// enters review as flagged rather than pending.
const FlagConfidenceCutoff = 0.5

var healthyLabels = map[string]struct{}{
	"healthy":    {},
	"no disease": {},
	"no_disease": {},
	"none":       {},
}

// IsHealthyLabel reports whether the disease label denotes a healthy or
// no-disease observation. Those are usually test submissions.
func IsHealthyLabel(disease string) bool {
	_, ok := healthyLabels[strings.ToLower(strings.TrimSpace(disease))]
	return ok
}

// Score computes the trust score for a report. reputation is the reporter's
// 1-5 history score from the external reputation service, nil when the
// reporter is anonymous or the lookup failed; the term is then omitted.
// The result is always clamped to [0, 100].
func Score(disease string, confidence float64, reputation *float64) int {
	score := baseScore
	score += math.Min(confidence*confidenceWeight, confidenceWeight)
	if reputation != nil {
		score += (*reputation / reputationScale) * reputationWeight
	}
	if IsHealthyLabel(disease) {
		score -= healthyLabelPenalty
	}
	if confidence < lowConfidenceCutoff {
		score -= lowConfidencePenalty
	}
	return clamp(int(math.Round(score)))
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// SeverityForConfidence assigns the initial report severity at ingestion.
// Healthy observations carry no severity.
func SeverityForConfidence(disease string, confidence float64) models.Severity {
	if IsHealthyLabel(disease) {
		return models.SeverityNone
	}
	switch {
	case confidence >= 0.85:
		return models.SeverityHigh
	case confidence >= 0.6:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
