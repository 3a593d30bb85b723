package domain

import (
	"encoding/json"
	"testing"
)

func TestLogKeyRoundTrip(t *testing.T) {
	key := LogKey{WeekIndex: 2, DayNumber: 3, ExerciseID: "65f1a2b3c4d5e6f7a8b9c0d1", PlanID: "65f1a2b3c4d5e6f7a8b9c0d2"}
	s := key.String()
	if want := "workout-2-3-65f1a2b3c4d5e6f7a8b9c0d1-65f1a2b3c4d5e6f7a8b9c0d2"; s != want {
		t.Fatalf("String() = %q, want %q", s, want)
	}
	parsed, err := ParseLogKey(s)
	if err != nil {
		t.Fatalf("ParseLogKey() error = %v", err)
	}
	if parsed != key {
		t.Errorf("ParseLogKey() = %+v, want %+v", parsed, key)
	}
}

func TestParseLogKeyRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"workout",
		"workout-1-2-abc",
		"workout-x-2-abc-def",
		"workout-1-y-abc-def",
		"session-1-2-abc-def",
		"workout-1-2-abc-def-extra",
	} {
		if _, err := ParseLogKey(s); err == nil {
			t.Errorf("ParseLogKey(%q) succeeded, want error", s)
		}
	}
}

func TestWeightAcceptsNumberOrString(t *testing.T) {
	tests := []struct {
		in   string
		want Weight
	}{
		{`{"weight": 42.5}`, 42.5},
		{`{"weight": "42.5"}`, 42.5},
		{`{"weight": "60"}`, 60},
		{`{"weight": ""}`, 0},
		{`{"weight": null}`, 0},
		{`{"weight": "heavy"}`, 0},
	}
	for _, tt := range tests {
		var s SetLog
		if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if s.Weight != tt.want {
			t.Errorf("Unmarshal(%s) weight = %v, want %v", tt.in, s.Weight, tt.want)
		}
	}
}

func TestSetLogCounting(t *testing.T) {
	tests := []struct {
		name          string
		set           SetLog
		wantCompleted bool
		wantSkipped   bool
	}{
		{"completed", SetLog{IsCompleted: true}, true, false},
		{"skipped", SetLog{Skipped: true}, false, true},
		{"completed but skipped counts as skipped", SetLog{IsCompleted: true, Skipped: true}, false, true},
		{"deleted completed counts as neither", SetLog{IsCompleted: true, IsDeleted: true}, false, false},
		{"deleted skipped counts as neither", SetLog{Skipped: true, IsDeleted: true}, false, false},
		{"pending", SetLog{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Completed(); got != tt.wantCompleted {
				t.Errorf("Completed() = %v, want %v", got, tt.wantCompleted)
			}
			if got := tt.set.WasSkipped(); got != tt.wantSkipped {
				t.Errorf("WasSkipped() = %v, want %v", got, tt.wantSkipped)
			}
		})
	}
}
