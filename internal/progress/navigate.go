// internal/progress/navigate.go
package progress

import (
	"errors"

	"fitmentor/coaching-app/internal/domain"
)

// Sentinel errors for structural problems in the plan traversal. These are
// deliberately distinct from the (nil, nil) "plan complete" result so
// callers can always tell "done" from "broken".
var (
	ErrPlanEmpty      = errors.New("plan has no weeks")
	ErrWeekOutOfRange = errors.New("week index is out of range")
	ErrWeekHasNoDays  = errors.New("week has no days")
	ErrDayNotFound    = errors.New("day number not found in week")
)

// Position identifies a (week, day) slot in the plan traversal.
type Position struct {
	WeekIndex int    `json:"weekIndex"`
	DayNumber int    `json:"dayNumber"`
	WeekName  string `json:"weekName,omitempty"`
	DayName   string `json:"dayName,omitempty"`
}

// NextPosition computes the next (week, day) position after the given one.
// The current day is located by its 1-based ordinal label, not its array
// index, since the two diverge when days are renumbered; the step itself is
// by array position, so gaps in day numbering do not matter. Returns
// (nil, nil) when the given position is the last day of the last week,
// meaning the plan is complete.
func NextPosition(plan *domain.WorkoutPlan, weekIndex, dayNumber int) (*Position, error) {
	if plan == nil || len(plan.Weeks) == 0 {
		return nil, ErrPlanEmpty
	}
	if weekIndex < 0 || weekIndex >= len(plan.Weeks) {
		return nil, ErrWeekOutOfRange
	}

	week := plan.Weeks[weekIndex]
	if len(week.Days) == 0 {
		return nil, ErrWeekHasNoDays
	}

	dayIdx := -1
	for i, day := range week.Days {
		if day.Day == dayNumber {
			dayIdx = i
			break
		}
	}
	if dayIdx < 0 {
		return nil, ErrDayNotFound
	}

	// Not the last day of the week: step to the next day entry.
	if dayIdx < len(week.Days)-1 {
		next := week.Days[dayIdx+1]
		return &Position{
			WeekIndex: weekIndex,
			DayNumber: next.Day,
			WeekName:  week.WeekName,
			DayName:   next.DayName,
		}, nil
	}

	// Last day of the week: step into the next week, if any.
	if weekIndex < len(plan.Weeks)-1 {
		nextWeek := plan.Weeks[weekIndex+1]
		if len(nextWeek.Days) == 0 {
			return nil, ErrWeekHasNoDays
		}
		first := nextWeek.Days[0]
		return &Position{
			WeekIndex: weekIndex + 1,
			DayNumber: first.Day,
			WeekName:  nextWeek.WeekName,
			DayName:   first.DayName,
		}, nil
	}

	// Last day of the last week: the plan is complete.
	return nil, nil
}
