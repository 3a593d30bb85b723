// Package progress is the plan reconciliation and progress engine: it
// normalizes user-authored workout plans, reconciles them against the
// sparse execution log, navigates the plan traversal, and accounts
// calories. Every function here is pure and safe for concurrent use; the
// clock and all documents come in as arguments.
package progress

import (
	"log"

	"fitmentor/coaching-app/internal/domain"
)

// NormalizedPlan is the traversal structure the reconciler and navigator
// consume: the plan's week/day/exercise tree with every exercise carrying a
// resolved planned set count and days keeping their original ordinal label.
type NormalizedPlan struct {
	PlanID string
	Weeks  []NormalizedWeek
}

// NormalizedWeek is one week of the traversal. Index is the 0-based week
// number used in log keys.
type NormalizedWeek struct {
	Index int
	Name  string
	Days  []NormalizedDay
}

// NormalizedDay keeps the 1-based day ordinal from the raw plan. The
// ordinal, not the array position, goes into log keys.
type NormalizedDay struct {
	Number    int
	Name      string
	Exercises []NormalizedExercise
}

// NormalizedExercise is a planned exercise with its set-count optionality
// collapsed.
type NormalizedExercise struct {
	ID          string
	Name        string
	PlannedSets int
}

// Normalize builds the traversal structure for a raw plan. Plans are
// user-authored and frequently partial during editing, so malformed pieces
// are skipped with a logged warning rather than failing the whole plan: a
// week with no days, a day without a positive ordinal, an exercise without
// an ID. A nil plan normalizes to nil.
func Normalize(plan *domain.WorkoutPlan) *NormalizedPlan {
	if plan == nil {
		return nil
	}
	np := &NormalizedPlan{PlanID: plan.ID.Hex()}
	for wi, week := range plan.Weeks {
		if len(week.Days) == 0 {
			log.Printf("WARN: plan %s week %d has no days, skipping", np.PlanID, wi)
			continue
		}
		nw := NormalizedWeek{Index: wi, Name: week.WeekName}
		for _, day := range week.Days {
			if day.Day <= 0 {
				log.Printf("WARN: plan %s week %d has a day without an ordinal, skipping", np.PlanID, wi)
				continue
			}
			nd := NormalizedDay{Number: day.Day, Name: day.DayName}
			for _, ex := range day.Exercises {
				if ex.ExerciseID.IsZero() {
					log.Printf("WARN: plan %s week %d day %d has an exercise without an ID, skipping", np.PlanID, wi, day.Day)
					continue
				}
				nd.Exercises = append(nd.Exercises, NormalizedExercise{
					ID:          ex.ExerciseID.Hex(),
					Name:        ex.Name,
					PlannedSets: ex.PlannedSets(),
				})
			}
			nw.Days = append(nw.Days, nd)
		}
		if len(nw.Days) == 0 {
			log.Printf("WARN: plan %s week %d has no usable days, skipping", np.PlanID, wi)
			continue
		}
		np.Weeks = append(np.Weeks, nw)
	}
	return np
}
