package progress

import (
	"errors"
	"testing"

	"fitmentor/coaching-app/internal/domain"
)

func twoByTwoPlan() *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		Weeks: []domain.PlanWeek{
			{WeekName: "Week 1", Days: []domain.PlanDay{{Day: 1, DayName: "Push"}, {Day: 2, DayName: "Pull"}}},
			{WeekName: "Week 2", Days: []domain.PlanDay{{Day: 1, DayName: "Push"}, {Day: 2, DayName: "Pull"}}},
		},
	}
}

func TestNextPosition(t *testing.T) {
	plan := twoByTwoPlan()

	tests := []struct {
		name      string
		weekIndex int
		dayNumber int
		want      *Position
		wantErr   error
	}{
		{
			name: "advance within week", weekIndex: 0, dayNumber: 1,
			want: &Position{WeekIndex: 0, DayNumber: 2, WeekName: "Week 1", DayName: "Pull"},
		},
		{
			name: "roll over to next week", weekIndex: 0, dayNumber: 2,
			want: &Position{WeekIndex: 1, DayNumber: 1, WeekName: "Week 2", DayName: "Push"},
		},
		{
			name: "last day of last week completes the plan", weekIndex: 1, dayNumber: 2,
			want: nil,
		},
		{
			name: "week index out of range", weekIndex: 5, dayNumber: 1,
			wantErr: ErrWeekOutOfRange,
		},
		{
			name: "negative week index", weekIndex: -1, dayNumber: 1,
			wantErr: ErrWeekOutOfRange,
		},
		{
			name: "day number not in week", weekIndex: 0, dayNumber: 7,
			wantErr: ErrDayNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextPosition(plan, tt.weekIndex, tt.dayNumber)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NextPosition() error = %v, want %v", err, tt.wantErr)
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("NextPosition() = %+v, want nil", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("NextPosition() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNextPositionStructuralErrors(t *testing.T) {
	if _, err := NextPosition(nil, 0, 1); !errors.Is(err, ErrPlanEmpty) {
		t.Errorf("nil plan: error = %v, want ErrPlanEmpty", err)
	}
	if _, err := NextPosition(&domain.WorkoutPlan{}, 0, 1); !errors.Is(err, ErrPlanEmpty) {
		t.Errorf("no weeks: error = %v, want ErrPlanEmpty", err)
	}
	empty := &domain.WorkoutPlan{Weeks: []domain.PlanWeek{{}}}
	if _, err := NextPosition(empty, 0, 1); !errors.Is(err, ErrWeekHasNoDays) {
		t.Errorf("empty week: error = %v, want ErrWeekHasNoDays", err)
	}
}

// Days are matched by ordinal label but advanced by array position, so a
// week numbered 1,3,5 still walks every entry.
func TestNextPositionWithDayNumberGaps(t *testing.T) {
	plan := &domain.WorkoutPlan{
		Weeks: []domain.PlanWeek{
			{Days: []domain.PlanDay{{Day: 1}, {Day: 3}, {Day: 5}}},
		},
	}
	pos, err := NextPosition(plan, 0, 1)
	if err != nil || pos == nil || pos.DayNumber != 3 {
		t.Fatalf("from day 1: got %+v, %v; want day 3", pos, err)
	}
	pos, err = NextPosition(plan, 0, 3)
	if err != nil || pos == nil || pos.DayNumber != 5 {
		t.Fatalf("from day 3: got %+v, %v; want day 5", pos, err)
	}
	pos, err = NextPosition(plan, 0, 5)
	if err != nil || pos != nil {
		t.Fatalf("from day 5: got %+v, %v; want completion", pos, err)
	}
}

// Walking from the first day must terminate after exactly the total number
// of days in the plan, never loop.
func TestNextPositionTerminates(t *testing.T) {
	plan := &domain.WorkoutPlan{
		Weeks: []domain.PlanWeek{
			{Days: []domain.PlanDay{{Day: 1}, {Day: 2}, {Day: 3}}},
			{Days: []domain.PlanDay{{Day: 1}, {Day: 2}}},
			{Days: []domain.PlanDay{{Day: 1}, {Day: 2}, {Day: 3}, {Day: 4}}},
		},
	}
	totalDays := 0
	for _, w := range plan.Weeks {
		totalDays += len(w.Days)
	}

	steps := 0
	weekIndex, dayNumber := 0, plan.Weeks[0].Days[0].Day
	for {
		pos, err := NextPosition(plan, weekIndex, dayNumber)
		if err != nil {
			t.Fatalf("step %d: unexpected error %v", steps, err)
		}
		steps++
		if pos == nil {
			break
		}
		if steps > totalDays {
			t.Fatalf("traversal did not terminate after %d steps", steps)
		}
		weekIndex, dayNumber = pos.WeekIndex, pos.DayNumber
	}
	if steps != totalDays {
		t.Errorf("traversal took %d steps, want %d", steps, totalDays)
	}
}
