package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]*domain.WorkoutPlan{}}
}

func (r *fakePlanRepo) Create(ctx context.Context, p *domain.WorkoutPlan) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	cp := *p
	r.plans[p.ID] = &cp
	return p.ID, nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlanRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.ClientID == clientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, p *domain.WorkoutPlan) error {
	if _, ok := r.plans[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	r.plans[p.ID] = &cp
	return nil
}

func (r *fakePlanRepo) SetActive(ctx context.Context, planID, clientID primitive.ObjectID) error {
	if _, ok := r.plans[planID]; !ok {
		return repository.ErrNotFound
	}
	for _, p := range r.plans {
		if p.ClientID == clientID {
			p.IsActive = p.ID == planID
		}
	}
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, planID, mentorID primitive.ObjectID) error {
	p, ok := r.plans[planID]
	if !ok || p.MentorID != mentorID {
		return repository.ErrNotFound
	}
	delete(r.plans, planID)
	return nil
}

func TestParseWeeks(t *testing.T) {
	weeksJSON := `[{"weekName":"Week 1","days":[{"day":1,"exercises":[]}]}]`

	tests := []struct {
		name      string
		raw       string
		wantWeeks int
		wantErr   bool
	}{
		{"direct array", weeksJSON, 1, false},
		{"json-encoded string", `"[{\"weekName\":\"Week 1\",\"days\":[{\"day\":1,\"exercises\":[]}]}]"`, 1, false},
		{"empty payload", "", 0, false},
		{"empty string payload", `""`, 0, false},
		{"empty array", `[]`, 0, false},
		{"object not array", `{"weekName":"Week 1"}`, 0, true},
		{"string of garbage", `"not json at all"`, 0, true},
		{"bare number", `42`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weeks, err := ParseWeeks(json.RawMessage(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrWeeksMalformed) {
					t.Fatalf("ParseWeeks(%q) err = %v, want ErrWeeksMalformed", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeeks(%q) err = %v", tt.raw, err)
			}
			if len(weeks) != tt.wantWeeks {
				t.Errorf("ParseWeeks(%q) = %d weeks, want %d", tt.raw, len(weeks), tt.wantWeeks)
			}
		})
	}
}

func TestCreatePlanRequiresManagedClient(t *testing.T) {
	planRepo := newFakePlanRepo()
	userRepo := newFakeUserRepo()
	svc := NewPlanService(planRepo, userRepo)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})

	// Not yet linked: plan creation is refused.
	_, err := svc.CreatePlan(context.Background(), mentorID, clientID, "Block A", "", 3, nil)
	if !errors.Is(err, ErrPlanAccessDenied) {
		t.Fatalf("CreatePlan for unmanaged client = %v, want ErrPlanAccessDenied", err)
	}

	userRepo.users[clientID].MentorID = &mentorID

	weeks := json.RawMessage(`[{"days":[{"day":1,"exercises":[{"exerciseId":"` + primitive.NewObjectID().Hex() + `","weeklySetConfig":{"sets":3,"isConfigured":true}}]}]}]`)
	plan, err := svc.CreatePlan(context.Background(), mentorID, clientID, "Block A", "strength", 3, weeks)
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if len(plan.Weeks) != 1 || len(plan.Weeks[0].Days) != 1 {
		t.Fatalf("plan weeks shape = %+v, want 1 week with 1 day", plan.Weeks)
	}
	if got := plan.Weeks[0].Days[0].Exercises[0].PlannedSets(); got != 3 {
		t.Errorf("planned sets = %d, want 3", got)
	}
}

func TestUpdatePlanOwnership(t *testing.T) {
	planRepo := newFakePlanRepo()
	userRepo := newFakeUserRepo()
	svc := NewPlanService(planRepo, userRepo)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	otherID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "o@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})
	userRepo.users[clientID].MentorID = &mentorID

	plan, err := svc.CreatePlan(context.Background(), mentorID, clientID, "Block A", "", 3, nil)
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	if _, err := svc.UpdatePlan(context.Background(), otherID, plan.ID, "Hijacked", "", 3, nil); !errors.Is(err, ErrPlanAccessDenied) {
		t.Errorf("UpdatePlan by non-owner = %v, want ErrPlanAccessDenied", err)
	}

	updated, err := svc.UpdatePlan(context.Background(), mentorID, plan.ID, "Block B", "hypertrophy", 4, nil)
	if err != nil {
		t.Fatalf("UpdatePlan: %v", err)
	}
	if updated.Name != "Block B" || updated.DaysPerWeek != 4 {
		t.Errorf("updated = (%q, %d), want (Block B, 4)", updated.Name, updated.DaysPerWeek)
	}
}

func TestGetPlansForClientPartyCheck(t *testing.T) {
	planRepo := newFakePlanRepo()
	userRepo := newFakeUserRepo()
	svc := NewPlanService(planRepo, userRepo)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})
	userRepo.users[clientID].MentorID = &mentorID

	if _, err := svc.CreatePlan(context.Background(), mentorID, clientID, "Block A", "", 3, nil); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	tests := []struct {
		name      string
		requester primitive.ObjectID
		wantPlans int
		wantErr   error
	}{
		{"client reads own plans", clientID, 1, nil},
		{"coaching mentor reads them", mentorID, 1, nil},
		{"other client denied", userRepo.add(&domain.User{Role: domain.RoleClient, Email: "b@x.com"}), 0, ErrPlanAccessDenied},
		{"other mentor denied", userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "o@x.com"}), 0, ErrPlanAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans, err := svc.GetPlansForClient(context.Background(), tt.requester, clientID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetPlansForClient = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetPlansForClient: %v", err)
			}
			if len(plans) != tt.wantPlans {
				t.Errorf("got %d plans, want %d", len(plans), tt.wantPlans)
			}
		})
	}

	// An unknown client ID reads as denied, not as an internal error.
	if _, err := svc.GetPlansForClient(context.Background(), mentorID, primitive.NewObjectID()); !errors.Is(err, ErrPlanAccessDenied) {
		t.Errorf("GetPlansForClient for unknown client = %v, want ErrPlanAccessDenied", err)
	}
}

func TestActivatePlanDeactivatesOthers(t *testing.T) {
	planRepo := newFakePlanRepo()
	userRepo := newFakeUserRepo()
	svc := NewPlanService(planRepo, userRepo)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})
	userRepo.users[clientID].MentorID = &mentorID

	first, _ := svc.CreatePlan(context.Background(), mentorID, clientID, "First", "", 3, nil)
	second, _ := svc.CreatePlan(context.Background(), mentorID, clientID, "Second", "", 3, nil)

	if err := svc.ActivatePlan(context.Background(), mentorID, first.ID); err != nil {
		t.Fatalf("ActivatePlan(first): %v", err)
	}
	if err := svc.ActivatePlan(context.Background(), mentorID, second.ID); err != nil {
		t.Fatalf("ActivatePlan(second): %v", err)
	}

	if planRepo.plans[first.ID].IsActive {
		t.Errorf("first plan still active after activating second")
	}
	if !planRepo.plans[second.ID].IsActive {
		t.Errorf("second plan not active")
	}
}
