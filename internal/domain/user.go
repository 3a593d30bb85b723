package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleMentor Role = "mentor"
	RoleClient Role = "client"
)

// User represents a user in the system (either a Mentor or a Client).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Mentor-specific ---
	// ObjectIDs of clients coached by this mentor.
	ClientIDs []primitive.ObjectID `bson:"clientIds,omitempty" json:"clientIds,omitempty"`

	// --- Client-specific ---
	// The mentor currently coaching this client, set once an enrollment is accepted.
	MentorID *primitive.ObjectID `bson:"mentorId,omitempty" json:"mentorId,omitempty"`
}

func (u *User) IsMentor() bool {
	return u.Role == RoleMentor
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
