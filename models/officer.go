package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Officer is a government field officer account. Account creation and
// password resets live in the external auth service; this API only reads
// officers for credential checks and district scoping.
type Officer struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	District string             `bson:"district" json:"district"`
	Role     string             `bson:"role" json:"role"`
	Active   bool               `bson:"active" json:"active"`
}

// Actor is the authenticated officer identity attached to a request
type Actor struct {
	OfficerID string
	Name      string
	District  string
}
