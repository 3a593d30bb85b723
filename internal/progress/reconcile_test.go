package progress

import (
	"reflect"
	"testing"

	"fitmentor/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildPlan assembles a plan with the given set counts per exercise,
// one exercise per entry, laid out as weeks -> days -> exercises.
func buildPlan(t *testing.T, weeks [][][]int) (*domain.WorkoutPlan, [][][]domain.LogKey) {
	t.Helper()
	plan := &domain.WorkoutPlan{ID: primitive.NewObjectID(), Name: "test plan"}
	keys := make([][][]domain.LogKey, len(weeks))
	for wi, days := range weeks {
		week := domain.PlanWeek{WeekName: "Week"}
		keys[wi] = make([][]domain.LogKey, len(days))
		for di, exercises := range days {
			day := domain.PlanDay{Day: di + 1}
			for _, sets := range exercises {
				exID := primitive.NewObjectID()
				day.Exercises = append(day.Exercises, domain.PlannedExercise{
					ExerciseID:      exID,
					WeeklySetConfig: &domain.WeeklySetConfig{Sets: sets, IsConfigured: true},
				})
				keys[wi][di] = append(keys[wi][di], domain.LogKey{
					WeekIndex:  wi,
					DayNumber:  di + 1,
					ExerciseID: exID.Hex(),
					PlanID:     plan.ID.Hex(),
				})
			}
			week.Days = append(week.Days, day)
		}
		plan.Weeks = append(plan.Weeks, week)
	}
	return plan, keys
}

func completedSet() domain.SetLog { return domain.SetLog{IsCompleted: true} }
func skippedSet() domain.SetLog   { return domain.SetLog{Skipped: true} }

func TestReconcileSingleExercise(t *testing.T) {
	plan, keys := buildPlan(t, [][][]int{{{3}}})
	key := keys[0][0][0].String()

	tests := []struct {
		name string
		sets []domain.SetLog
		want ProgressMetrics
	}{
		{
			name: "two completed one skipped",
			sets: []domain.SetLog{completedSet(), completedSet(), skippedSet()},
			want: ProgressMetrics{
				TotalPlannedSets:                 3,
				CompletedPlannedSets:             2,
				SkippedPlannedSets:               1,
				UnloggedPlannedSets:              0,
				ProgressPlannedOnlyPercent:       67,
				CompletionRateOfAttemptedPercent: 67,
				OverallAttemptRatePercent:        100,
				ProgressIncludingExtraPercent:    67,
			},
		},
		{
			name: "five completed overflows into extra",
			sets: []domain.SetLog{completedSet(), completedSet(), completedSet(), completedSet(), completedSet()},
			want: ProgressMetrics{
				TotalPlannedSets:                 3,
				CompletedPlannedSets:             3,
				CompletedExtraSets:               2,
				ProgressPlannedOnlyPercent:       100,
				CompletionRateOfAttemptedPercent: 100,
				OverallAttemptRatePercent:        100,
				ProgressIncludingExtraPercent:    167,
			},
		},
		{
			name: "no log entries",
			sets: nil,
			want: ProgressMetrics{
				TotalPlannedSets:    3,
				UnloggedPlannedSets: 3,
			},
		},
		{
			name: "skips beyond remaining capacity are extra",
			sets: []domain.SetLog{completedSet(), completedSet(), skippedSet(), skippedSet(), skippedSet()},
			want: ProgressMetrics{
				TotalPlannedSets:                 3,
				CompletedPlannedSets:             2,
				SkippedPlannedSets:               1,
				SkippedExtraSets:                 2,
				ProgressPlannedOnlyPercent:       67,
				CompletionRateOfAttemptedPercent: 67,
				OverallAttemptRatePercent:        100,
				ProgressIncludingExtraPercent:    67,
			},
		},
		{
			name: "deleted entries are excluded from both counts",
			sets: []domain.SetLog{
				{IsCompleted: true, IsDeleted: true},
				completedSet(),
				{Skipped: true, IsDeleted: true},
			},
			want: ProgressMetrics{
				TotalPlannedSets:                 3,
				CompletedPlannedSets:             1,
				UnloggedPlannedSets:              2,
				ProgressPlannedOnlyPercent:       33,
				CompletionRateOfAttemptedPercent: 100,
				OverallAttemptRatePercent:        33,
				ProgressIncludingExtraPercent:    33,
			},
		},
		{
			name: "pending entries are inert",
			sets: []domain.SetLog{{}, {}, completedSet()},
			want: ProgressMetrics{
				TotalPlannedSets:                 3,
				CompletedPlannedSets:             1,
				UnloggedPlannedSets:              2,
				ProgressPlannedOnlyPercent:       33,
				CompletionRateOfAttemptedPercent: 100,
				OverallAttemptRatePercent:        33,
				ProgressIncludingExtraPercent:    33,
			},
		},
		{
			name: "completed-and-skipped on one entry counts as skipped only",
			sets: []domain.SetLog{{IsCompleted: true, Skipped: true}},
			want: ProgressMetrics{
				TotalPlannedSets:          3,
				SkippedPlannedSets:        1,
				UnloggedPlannedSets:       2,
				OverallAttemptRatePercent: 33,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(Normalize(plan), map[string][]domain.SetLog{key: tt.sets})
			if got == nil {
				t.Fatal("Reconcile returned nil for valid inputs")
			}
			if *got != tt.want {
				t.Errorf("Reconcile() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestReconcileNilInputs(t *testing.T) {
	plan, _ := buildPlan(t, [][][]int{{{3}}})
	if got := Reconcile(nil, map[string][]domain.SetLog{}); got != nil {
		t.Errorf("Reconcile(nil plan) = %+v, want nil", got)
	}
	if got := Reconcile(Normalize(plan), nil); got != nil {
		t.Errorf("Reconcile(nil log) = %+v, want nil", got)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	plan, keys := buildPlan(t, [][][]int{{{3, 2}, {4}}, {{3, 2}, {4}}})
	logs := map[string][]domain.SetLog{
		keys[0][0][0].String(): {completedSet(), completedSet(), skippedSet()},
		keys[0][1][0].String(): {completedSet(), completedSet(), completedSet(), completedSet(), completedSet()},
		keys[1][0][1].String(): {skippedSet(), skippedSet(), skippedSet()},
	}
	np := Normalize(plan)
	first := Reconcile(np, logs)
	second := Reconcile(np, logs)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Reconcile is not idempotent: %+v vs %+v", first, second)
	}
}

// Per-exercise conservation: completedPlanned + skippedPlanned +
// unloggedPlanned must equal plannedSets, so the aggregated unlogged total
// is exact whenever no exercise over-attributes.
func TestReconcileConservation(t *testing.T) {
	cases := []struct {
		name      string
		planned   int
		completed int
		skipped   int
	}{
		{"underlogged", 5, 1, 1},
		{"exact", 5, 3, 2},
		{"over completed", 5, 9, 0},
		{"over skipped", 5, 2, 9},
		{"over both", 5, 9, 9},
		{"zero planned", 0, 3, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, keys := buildPlan(t, [][][]int{{{tc.planned}}})
			var sets []domain.SetLog
			for i := 0; i < tc.completed; i++ {
				sets = append(sets, completedSet())
			}
			for i := 0; i < tc.skipped; i++ {
				sets = append(sets, skippedSet())
			}
			m := Reconcile(Normalize(plan), map[string][]domain.SetLog{keys[0][0][0].String(): sets})

			if got := m.CompletedPlannedSets + m.SkippedPlannedSets + m.UnloggedPlannedSets; got != tc.planned {
				t.Errorf("planned allocation sums to %d, want %d (metrics %+v)", got, tc.planned, m)
			}
			if tc.completed > tc.planned {
				if m.CompletedExtraSets != tc.completed-tc.planned {
					t.Errorf("CompletedExtraSets = %d, want %d", m.CompletedExtraSets, tc.completed-tc.planned)
				}
				if m.CompletedPlannedSets != tc.planned {
					t.Errorf("CompletedPlannedSets = %d, want %d", m.CompletedPlannedSets, tc.planned)
				}
			}
			for name, p := range map[string]int{
				"ProgressPlannedOnlyPercent":       m.ProgressPlannedOnlyPercent,
				"CompletionRateOfAttemptedPercent": m.CompletionRateOfAttemptedPercent,
				"OverallAttemptRatePercent":        m.OverallAttemptRatePercent,
			} {
				if p < 0 || p > 100 {
					t.Errorf("%s = %d, want within [0,100]", name, p)
				}
			}
			if m.ProgressIncludingExtraPercent < 0 {
				t.Errorf("ProgressIncludingExtraPercent = %d, want >= 0", m.ProgressIncludingExtraPercent)
			}
		})
	}
}

func TestReconcileUnknownKeysAreIgnored(t *testing.T) {
	plan, keys := buildPlan(t, [][][]int{{{2}}})
	logs := map[string][]domain.SetLog{
		keys[0][0][0].String():          {completedSet()},
		"workout-9-9-deadbeef-cafebabe": {completedSet(), completedSet()},
		"not-even-a-log-key":            {completedSet()},
	}
	m := Reconcile(Normalize(plan), logs)
	if m.CompletedPlannedSets != 1 || m.CompletedExtraSets != 0 {
		t.Errorf("entries under foreign keys leaked into metrics: %+v", m)
	}
}
