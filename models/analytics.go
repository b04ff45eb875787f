package models

// GrowthIndicator compares report volume for one disease across two
// adjacent windows of equal length.
type GrowthIndicator struct {
	Disease       string  `json:"disease"`
	CurrentCount  int     `json:"currentCount"`
	PreviousCount int     `json:"previousCount"`
	PercentChange float64 `json:"percentChange"`
	Trend         string  `json:"trend"`
	RiskLevel     string  `json:"riskLevel"`
}

// SpreadRiskZone scores one GN division's outbreak intensity
type SpreadRiskZone struct {
	GnDivision    string   `json:"gnDivision"`
	DsDivision    string   `json:"dsDivision,omitempty"`
	District      string   `json:"district,omitempty"`
	ReportCount   int      `json:"reportCount"`
	DiseaseCount  int      `json:"diseaseCount"`
	Diseases      []string `json:"diseases,omitempty"`
	DaysSinceLast float64  `json:"daysSinceLastReport"`
	Intensity     float64  `json:"intensity"`
	RiskLevel     string   `json:"riskLevel"`
}

// NeighborRisk marks a division adjacent to a high-risk zone
type NeighborRisk struct {
	GnDivision string `json:"gnDivision"`
	SourceZone string `json:"sourceZone"`
	Status     string `json:"status"` // elevated | watch
}

// SpreadPrediction predicts propagation to a neighboring district
type SpreadPrediction struct {
	FromDistrict string `json:"fromDistrict"`
	ToDistrict   string `json:"toDistrict"`
	Disease      string `json:"disease,omitempty"`
	Probability  string `json:"probability"` // confirmed_spread | high | medium
}

// SpreadRiskResult is the full spread-risk analysis payload
type SpreadRiskResult struct {
	WindowDays  int                `json:"windowDays"`
	Zones       []SpreadRiskZone   `json:"zones"`
	Neighbors   []NeighborRisk     `json:"neighbors"`
	Predictions []SpreadPrediction `json:"predictions"`
}

// CoverageEntry scores reporting activity for one GN division
type CoverageEntry struct {
	GnDivision      string  `json:"gnDivision"`
	District        string  `json:"district,omitempty"`
	ReportCount     int     `json:"reportCount"`
	UniqueReporters int     `json:"uniqueReporters"`
	DaysSinceLast   float64 `json:"daysSinceLastReport"`
	Frequency       float64 `json:"reportingFrequency"`
	Status          string  `json:"coverageStatus"` // stale | under_reporting | adequate
}

// DistrictCoverage scores district-wide reporting breadth
type DistrictCoverage struct {
	District        string  `json:"district"`
	ReportingGn     int     `json:"reportingGnDivisions"`
	ExpectedGn      int     `json:"expectedGnDivisions"`
	CoveragePercent float64 `json:"coveragePercent"`
	BlindSpotRisk   string  `json:"blindSpotRisk"` // high | medium | low
}

// CoverageAlert flags a structural reporting gap
type CoverageAlert struct {
	Type     string `json:"type"` // stale_cluster | low_reporter_diversity | low_coverage_district
	Location string `json:"location"`
	Detail   string `json:"detail"`
}

// CoverageResult is the full coverage-index payload
type CoverageResult struct {
	WindowDays int                `json:"windowDays"`
	Divisions  []CoverageEntry    `json:"divisions"`
	Districts  []DistrictCoverage `json:"districts"`
	Alerts     []CoverageAlert    `json:"alerts"`
}

// EscalationCandidate is a report overdue against its priority SLA
type EscalationCandidate struct {
	Report       DiseaseReport `json:"report"`
	BudgetHours  float64       `json:"budgetHours"`
	AgeHours     float64       `json:"ageHours"`
	HoursOverdue float64       `json:"hoursOverdue"`
}
