package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DiseaseReport represents one farmer crop-disease observation
type DiseaseReport struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReporterID   string             `bson:"reporterId,omitempty" json:"reporterId,omitempty"`
	ReporterName string             `bson:"reporterName,omitempty" json:"reporterName,omitempty"`
	Crop         string             `bson:"crop" json:"crop"`
	Disease      string             `bson:"disease" json:"disease"`
	Confidence   float64            `bson:"confidence" json:"confidence"`

	District   string   `bson:"district" json:"district"`
	DsDivision string   `bson:"dsDivision" json:"dsDivision"`
	GnDivision string   `bson:"gnDivision" json:"gnDivision"`
	Latitude   *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude  *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`

	TrustScore         int                `bson:"trustScore" json:"trustScore"`
	Severity           Severity           `bson:"severity" json:"severity"`
	VerificationStatus VerificationStatus `bson:"verificationStatus" json:"verificationStatus"`
	Priority           Priority           `bson:"priority" json:"priority"`

	EscalatedAt *primitive.DateTime `bson:"escalatedAt,omitempty" json:"escalatedAt,omitempty"`
	EscalatedBy string              `bson:"escalatedBy,omitempty" json:"escalatedBy,omitempty"`

	CommunityConfirmations CommunityConfirmations `bson:"communityConfirmations" json:"communityConfirmations"`

	Reviewed    bool                `bson:"reviewed" json:"reviewed"`
	ReviewedBy  string              `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt  *primitive.DateTime `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewNotes string              `bson:"reviewNotes,omitempty" json:"reviewNotes,omitempty"`

	InternalNotes []OfficerNote `bson:"internalNotes,omitempty" json:"internalNotes,omitempty"`

	CreatedAt primitive.DateTime `bson:"createdAt" json:"createdAt"`
	UpdatedAt primitive.DateTime `bson:"updatedAt" json:"updatedAt"`
	Version   int                `bson:"__v" json:"__v"`
}

// CommunityConfirmations tracks corroborating reports from other farmers
type CommunityConfirmations struct {
	Count         int            `bson:"count" json:"count"`
	Confirmations []Confirmation `bson:"confirmations,omitempty" json:"confirmations,omitempty"`
}

// Confirmation is one corroborating report reference
type Confirmation struct {
	ReportID    primitive.ObjectID `bson:"reportId" json:"reportId"`
	ReporterID  string             `bson:"reporterId,omitempty" json:"reporterId,omitempty"`
	ConfirmedAt primitive.DateTime `bson:"confirmedAt" json:"confirmedAt"`
}

// OfficerNote is an internal note attached to a report during review
type OfficerNote struct {
	ID        string             `bson:"id" json:"id"`
	OfficerID string             `bson:"officerId" json:"officerId"`
	Note      string             `bson:"note" json:"note"`
	CreatedAt primitive.DateTime `bson:"createdAt" json:"createdAt"`
}

// CreateReportRequest is the farmer ingestion payload
type CreateReportRequest struct {
	Crop         string   `json:"crop" validate:"required"`
	Disease      string   `json:"disease" validate:"required"`
	Confidence   float64  `json:"confidence" validate:"gte=0,lte=1"`
	District     string   `json:"district" validate:"required"`
	DsDivision   string   `json:"dsDivision" validate:"required"`
	GnDivision   string   `json:"gnDivision" validate:"required"`
	ReporterID   string   `json:"reporterId,omitempty"`
	ReporterName string   `json:"reporterName,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// CreateReportResponse returns the stored report and any alert it triggered
type CreateReportResponse struct {
	Report *DiseaseReport  `json:"report"`
	Alert  *CommunityAlert `json:"alert,omitempty"`
}

// TransitionRequest is the officer payload for a status change
type TransitionRequest struct {
	Status   VerificationStatus `json:"status"`
	Reason   string             `json:"reason,omitempty"`
	Notes    string             `json:"notes,omitempty"`
	Priority *Priority          `json:"priority,omitempty"`
}

// PriorityRequest is the officer payload for a priority change
type PriorityRequest struct {
	Priority Priority `json:"priority"`
	Reason   string   `json:"reason,omitempty"`
}

// FieldVisitRequest carries field-visit findings back into the review workflow.
// Outcome must be "confirmed" or "not_found"; it is interpreted through the
// transition table, never applied directly.
type FieldVisitRequest struct {
	Outcome  string `json:"outcome"`
	Findings string `json:"findings,omitempty"`
}

// NoteRequest appends an internal officer note to a report
type NoteRequest struct {
	Note string `json:"note"`
}

// VerificationStats summarizes the review queue for one district
type VerificationStats struct {
	District       string                     `json:"district,omitempty"`
	Total          int                        `json:"total"`
	ByStatus       map[VerificationStatus]int `json:"byStatus"`
	ByPriority     map[Priority]int           `json:"byPriority"`
	AverageTrust   float64                    `json:"averageTrust"`
	AutoVerified   int                        `json:"autoVerified"`
	PendingOverdue int                        `json:"pendingOverdue"`
	WindowDays     int                        `json:"windowDays"`
}
