// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single exercise definition in a mentor's library. Planned
// exercises in a WorkoutPlan reference it by ID; the same ID reused across
// weeks means "same exercise progressed over time".
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MentorID    primitive.ObjectID `bson:"mentorId" json:"mentorId"` // Mentor who owns this exercise
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	MuscleGroup string `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs"
	Difficulty  string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // e.g., "Novice", "Medium", "Advanced"
	VideoURL    string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`       // Optional demo video

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
