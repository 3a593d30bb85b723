// internal/progress/calories.go
package progress

import (
	"math"
	"strconv"
	"strings"

	"fitmentor/coaching-app/internal/domain"
)

// Calorie model constants. Strength work burns at a flat per-minute rate
// while a set is running, with a small bonus per kilogram of load moved.
// Sets logged without a duration are assumed to take defaultSetMinutes.
const (
	caloriesPerMinute = 7.0
	caloriesPerKg     = 0.1
	defaultSetMinutes = 0.75
)

// WorkoutCalories estimates calories burned across the given log entries.
// Only completed, non-skipped, non-deleted sets count. A non-empty date
// ("YYYY-MM-DD") scopes the sum to entries logged on that day; entries
// without a date only count when no date filter is given. The result is
// rounded to one decimal place.
func WorkoutCalories(sets []domain.SetLog, date string) float64 {
	var total float64
	for i := range sets {
		s := &sets[i]
		if !s.Completed() {
			continue
		}
		if date != "" && s.Date != date {
			continue
		}
		total += setCalories(s)
	}
	return math.Round(total*10) / 10
}

func setCalories(s *domain.SetLog) float64 {
	minutes := defaultSetMinutes
	if s.Duration != "" {
		minutes = durationMinutes(s.Duration)
	}
	return minutes*caloriesPerMinute + float64(s.Weight)*caloriesPerKg
}

// durationMinutes parses "HH:MM:SS" or "MM:SS" into fractional minutes.
// Anything unparsable counts as zero; durations are user-entered.
func durationMinutes(d string) float64 {
	parts := strings.Split(strings.TrimSpace(d), ":")
	var h, m, s int
	var err error
	switch len(parts) {
	case 2:
		if m, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
		if s, err = strconv.Atoi(parts[1]); err != nil {
			return 0
		}
	case 3:
		if h, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
		if m, err = strconv.Atoi(parts[1]); err != nil {
			return 0
		}
		if s, err = strconv.Atoi(parts[2]); err != nil {
			return 0
		}
	default:
		return 0
	}
	if h < 0 || m < 0 || s < 0 {
		return 0
	}
	return float64(h)*60 + float64(m) + float64(s)/60
}
