package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role gates which endpoints and data a session may access.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCitizen Role = "citizen"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCitizen
}

// User is the domain model for accounts, both citizens and the admin.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Name         string             `bson:"name"`
	Role         Role               `bson:"role"`
	Phone        string             `bson:"phone,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Verified     bool               `bson:"verified"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}
