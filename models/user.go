package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Roles a user account can hold
const (
	RoleJudge  = "judge"
	RoleLawyer = "lawyer"
	RoleStaff  = "staff"
)

// User holds the structure for the users collection in mongo
type User struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Username  string             `json:"username" bson:"username"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// ValidRole reports whether role is one of the three supported roles
func ValidRole(role string) bool {
	return role == RoleJudge || role == RoleLawyer || role == RoleStaff
}

// Lawyer is the projection of a lawyer account returned to judges when
// assigning hearings
type Lawyer struct {
	UserID string `json:"userId" bson:"userId"`
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Phone  string `json:"phone,omitempty" bson:"phone,omitempty"`
}
