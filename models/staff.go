package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Staff represents an internal actor who handles assigned issues. Staff are
// distinct from citizen Users; UserID optionally links back to the account a
// staff member was promoted from.
type Staff struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      string             `bson:"role" json:"role"`
	UserID    string             `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Ref returns the snapshot embedded into an issue on assignment.
func (s *Staff) Ref() StaffRef {
	return StaffRef{
		StaffID: s.ID.Hex(),
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
	}
}
