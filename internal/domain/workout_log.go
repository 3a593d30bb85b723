// internal/domain/workout_log.go
package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// logKeyPrefix is the leading segment of every execution-log key.
const logKeyPrefix = "workout"

// LogKey identifies the execution log of one exercise on one plan day.
// It is a structured tuple internally and only becomes the composite
// string "workout-{weekIndex}-{dayNumber}-{exerciseId}-{planId}" at the
// storage boundary.
type LogKey struct {
	WeekIndex  int
	DayNumber  int
	ExerciseID string
	PlanID     string
}

// String serializes the key into its stored form.
func (k LogKey) String() string {
	return fmt.Sprintf("%s-%d-%d-%s-%s", logKeyPrefix, k.WeekIndex, k.DayNumber, k.ExerciseID, k.PlanID)
}

// ParseLogKey parses a stored composite key back into its parts.
// Exercise and plan IDs are ObjectID hex strings and never contain '-'.
func ParseLogKey(s string) (LogKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 5 || parts[0] != logKeyPrefix {
		return LogKey{}, fmt.Errorf("malformed log key %q", s)
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil {
		return LogKey{}, fmt.Errorf("malformed week index in log key %q", s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return LogKey{}, fmt.Errorf("malformed day number in log key %q", s)
	}
	return LogKey{WeekIndex: week, DayNumber: day, ExerciseID: parts[3], PlanID: parts[4]}, nil
}

// Weight is a lifted load in kilograms. Older clients submit it as a quoted
// string, so JSON decoding accepts both forms; an unparsable value decodes
// to zero rather than failing the whole entry.
type Weight float64

func (w *Weight) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*w = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*w = 0
		return nil
	}
	*w = Weight(f)
	return nil
}

// SetLog is a single attempted set recorded against a plan exercise.
// A set counts as completed iff IsCompleted is true and neither Skipped nor
// IsDeleted is set; it counts as skipped iff Skipped is true and IsDeleted
// is not. Anything else is pending and ignored by reconciliation. Deleted
// entries stay in the array (soft delete) but are excluded from all counts.
type SetLog struct {
	IsCompleted bool   `bson:"isCompleted" json:"isCompleted"`
	Skipped     bool   `bson:"skipped,omitempty" json:"skipped,omitempty"`
	IsDeleted   bool   `bson:"isDeleted,omitempty" json:"isDeleted,omitempty"`
	Weight      Weight `bson:"weight,omitempty" json:"weight,omitempty"`
	Duration    string `bson:"duration,omitempty" json:"duration,omitempty"` // "HH:MM:SS" or "MM:SS"
	Reps        int    `bson:"reps,omitempty" json:"reps,omitempty"`
	Date        string `bson:"date,omitempty" json:"date,omitempty"` // "YYYY-MM-DD", scopes calorie sums
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Completed reports whether this entry counts toward completed sets.
func (s *SetLog) Completed() bool {
	return s.IsCompleted && !s.Skipped && !s.IsDeleted
}

// WasSkipped reports whether this entry counts toward skipped sets.
func (s *SetLog) WasSkipped() bool {
	return s.Skipped && !s.IsDeleted
}

// WorkoutLog is the persisted document holding all set attempts for one
// composite key. Sets keep their insertion order; reconciliation depends on
// natural array order to split planned from extra sets.
type WorkoutLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	PlanID     primitive.ObjectID `bson:"planId" json:"planId"`
	WeekIndex  int                `bson:"weekIndex" json:"weekIndex"`
	DayNumber  int                `bson:"dayNumber" json:"dayNumber"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       []SetLog           `bson:"sets" json:"sets"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Key builds the composite key this document is filed under.
func (l *WorkoutLog) Key() LogKey {
	return LogKey{
		WeekIndex:  l.WeekIndex,
		DayNumber:  l.DayNumber,
		ExerciseID: l.ExerciseID.Hex(),
		PlanID:     l.PlanID.Hex(),
	}
}
