package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CommunityAlert is the aggregated outbreak signal for one
// (crop, disease, GN division) tuple. At most one alert may be
// active or monitoring per (disease, GN division) at any time;
// the alerts collection enforces this with a unique partial index.
type CommunityAlert struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Crop       string             `bson:"crop" json:"crop"`
	Disease    string             `bson:"disease" json:"disease"`
	District   string             `bson:"district" json:"district"`
	DsDivision string             `bson:"dsDivision" json:"dsDivision"`
	GnDivision string             `bson:"gnDivision" json:"gnDivision"`

	ReportCount    int            `bson:"reportCount" json:"reportCount"`
	Severity       Severity       `bson:"severity" json:"severity"`
	Status         AlertStatus    `bson:"status" json:"status"`
	Recommendation Recommendation `bson:"recommendation" json:"recommendation"`

	FirstReportedAt primitive.DateTime  `bson:"firstReportedAt" json:"firstReportedAt"`
	LastUpdatedAt   primitive.DateTime  `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
	ResolvedBy      string              `bson:"resolvedBy,omitempty" json:"resolvedBy,omitempty"`
	ResolvedAt      *primitive.DateTime `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// Recommendation is bilingual advisory text attached to an alert
type Recommendation struct {
	En string `bson:"en" json:"en"`
	Si string `bson:"si" json:"si"`
}

// ResolveAlertRequest is the officer payload for closing an alert
type ResolveAlertRequest struct {
	Reason string `json:"reason,omitempty"`
}
