// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is a multi-week program a mentor authors for a client.
// Weeks are ordered; the week number is the array index (0-based).
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MentorID    primitive.ObjectID `bson:"mentorId" json:"mentorId"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	Name        string             `bson:"name" json:"name"` // e.g., "8-Week Strength Block"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	DaysPerWeek int                `bson:"daysPerWeek,omitempty" json:"daysPerWeek,omitempty"` // advisory; weeks may be shorter while being edited
	Weeks       []PlanWeek         `bson:"weeks" json:"weeks"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PlanWeek groups the training days of one calendar week.
type PlanWeek struct {
	WeekName string    `bson:"weekName,omitempty" json:"weekName,omitempty"` // display only
	Days     []PlanDay `bson:"days" json:"days"`
}

// PlanDay is one training day. Day is a 1-based ordinal label and is NOT
// necessarily equal to the array index; days keep their label when the
// surrounding week is renumbered.
type PlanDay struct {
	Day       int               `bson:"day" json:"day"`
	DayName   string            `bson:"dayName,omitempty" json:"dayName,omitempty"` // display only
	Exercises []PlannedExercise `bson:"exercises" json:"exercises"`
}

// PlannedExercise references an exercise from the library together with
// its configured target set count for the week.
type PlannedExercise struct {
	ExerciseID      primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Name            string             `bson:"name,omitempty" json:"name,omitempty"` // denormalized for display
	WeeklySetConfig *WeeklySetConfig   `bson:"weeklySetConfig,omitempty" json:"weeklySetConfig,omitempty"`
}

// WeeklySetConfig carries the planned set count. A nil config, or one the
// mentor has not confirmed yet, means zero planned sets.
type WeeklySetConfig struct {
	Sets         int  `bson:"sets" json:"sets"`
	IsConfigured bool `bson:"isConfigured" json:"isConfigured"`
}

// PlannedSets resolves the configured set count, treating a missing config
// or a negative value as zero. Plans are user-authored and often partially
// filled during editing.
func (e *PlannedExercise) PlannedSets() int {
	if e.WeeklySetConfig == nil || e.WeeklySetConfig.Sets < 0 {
		return 0
	}
	return e.WeeklySetConfig.Sets
}
