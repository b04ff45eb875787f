package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notification is a one-way broadcast to farmers in a location,
// derived from a community alert. The read flag is the only
// farmer-side mutation.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AlertID    primitive.ObjectID `bson:"alertId" json:"alertId"`
	Title      string             `bson:"title" json:"title"`
	Message    Recommendation     `bson:"message" json:"message"`
	Severity   Severity           `bson:"severity" json:"severity"`
	District   string             `bson:"district" json:"district"`
	DsDivision string             `bson:"dsDivision,omitempty" json:"dsDivision,omitempty"`
	GnDivision string             `bson:"gnDivision,omitempty" json:"gnDivision,omitempty"`
	Scope      NotificationScope  `bson:"scope" json:"scope"`
	Read       bool               `bson:"read" json:"read"`
	CreatedAt  primitive.DateTime `bson:"createdAt" json:"createdAt"`
	ExpiresAt  primitive.DateTime `bson:"expiresAt" json:"expiresAt"`
}
