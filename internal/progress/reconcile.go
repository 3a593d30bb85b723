// internal/progress/reconcile.go
package progress

import (
	"math"

	"fitmentor/coaching-app/internal/domain"
)

// ProgressMetrics is the output of reconciling a plan against its execution
// log: raw set totals plus derived integer percentages.
type ProgressMetrics struct {
	TotalPlannedSets     int `json:"totalPlannedSets"`
	CompletedPlannedSets int `json:"completedPlannedSets"`
	SkippedPlannedSets   int `json:"skippedPlannedSets"`
	UnloggedPlannedSets  int `json:"unloggedPlannedSets"`
	CompletedExtraSets   int `json:"completedExtraSets"`
	SkippedExtraSets     int `json:"skippedExtraSets"`

	// Percentages are round(100*n/d) with a zero denominator yielding 0.
	// All are clamped to [0,100] except ProgressIncludingExtraPercent,
	// which may exceed 100 when a client logs more sets than planned.
	ProgressPlannedOnlyPercent       int `json:"progressPlannedOnlyPercent"`
	CompletionRateOfAttemptedPercent int `json:"completionRateOfAttemptedPercent"`
	OverallAttemptRatePercent        int `json:"overallAttemptRatePercent"`
	ProgressIncludingExtraPercent    int `json:"progressIncludingExtraPercent"`
}

// Reconcile computes completion, skip, and overage metrics for a normalized
// plan against the sparse execution log keyed by composite log keys. It is
// a pure function; calling it twice with the same inputs yields the same
// output. A nil plan or nil log returns nil: the caller shows nothing
// rather than a half-computed figure.
//
// Allocation rule per exercise, by natural array order of the log (never by
// timestamp): the first min(planned, completed) completed entries count as
// planned, the remainder as extra; skipped entries then fill whatever
// planned capacity the completed ones left, and the rest are extra skips.
func Reconcile(np *NormalizedPlan, logs map[string][]domain.SetLog) *ProgressMetrics {
	if np == nil || logs == nil {
		return nil
	}

	m := &ProgressMetrics{}
	for _, week := range np.Weeks {
		for _, day := range week.Days {
			for _, ex := range day.Exercises {
				planned := ex.PlannedSets
				m.TotalPlannedSets += planned

				key := domain.LogKey{
					WeekIndex:  week.Index,
					DayNumber:  day.Number,
					ExerciseID: ex.ID,
					PlanID:     np.PlanID,
				}
				completed, skipped := countSets(logs[key.String()])

				completedPlanned := min(planned, completed)
				completedExtra := completed - completedPlanned

				remaining := planned - completedPlanned
				skippedPlanned := min(remaining, skipped)
				skippedExtra := skipped - skippedPlanned

				m.CompletedPlannedSets += completedPlanned
				m.SkippedPlannedSets += skippedPlanned
				m.CompletedExtraSets += completedExtra
				m.SkippedExtraSets += skippedExtra
			}
		}
	}

	m.UnloggedPlannedSets = m.TotalPlannedSets - m.CompletedPlannedSets - m.SkippedPlannedSets
	if m.UnloggedPlannedSets < 0 {
		m.UnloggedPlannedSets = 0
	}

	attempted := m.CompletedPlannedSets + m.SkippedPlannedSets
	m.ProgressPlannedOnlyPercent = clampPercent(percent(m.CompletedPlannedSets, m.TotalPlannedSets))
	m.CompletionRateOfAttemptedPercent = clampPercent(percent(m.CompletedPlannedSets, attempted))
	m.OverallAttemptRatePercent = clampPercent(percent(attempted, m.TotalPlannedSets))
	m.ProgressIncludingExtraPercent = percent(m.CompletedPlannedSets+m.CompletedExtraSets, m.TotalPlannedSets)
	if m.ProgressIncludingExtraPercent < 0 {
		m.ProgressIncludingExtraPercent = 0
	}

	return m
}

// countSets tallies completed and skipped entries, excluding deleted ones.
func countSets(sets []domain.SetLog) (completed, skipped int) {
	for i := range sets {
		if sets[i].Completed() {
			completed++
		} else if sets[i].WasSkipped() {
			skipped++
		}
	}
	return completed, skipped
}

func percent(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(100 * float64(num) / float64(den)))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
