package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// OfficerActionLog is one append-only audit entry for an
// officer-driven mutation. Entries are never updated or deleted.
type OfficerActionLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OfficerID   string             `bson:"officerId" json:"officerId"`
	OfficerName string             `bson:"officerName,omitempty" json:"officerName,omitempty"`
	District    string             `bson:"district" json:"district"`
	ActionType  ActionType         `bson:"actionType" json:"actionType"`
	TargetType  string             `bson:"targetType" json:"targetType"`
	TargetID    string             `bson:"targetId" json:"targetId"`
	Previous    string             `bson:"previousValue,omitempty" json:"previousValue,omitempty"`
	New         string             `bson:"newValue,omitempty" json:"newValue,omitempty"`
	Reason      string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   primitive.DateTime `bson:"createdAt" json:"createdAt"`
}

// Audit target types
const (
	TargetReport = "report"
	TargetAlert  = "alert"
)
