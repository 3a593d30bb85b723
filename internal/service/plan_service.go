package service

import (
	"context"
	"encoding/json"
	"errors"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrPlanAccessDenied = errors.New("access denied to this workout plan")
	ErrPlanInvalid      = errors.New("workout plan validation failed")
	ErrWeeksMalformed   = errors.New("weeks payload is not a JSON array of weeks")
)

type PlanService interface {
	CreatePlan(ctx context.Context, mentorID, clientID primitive.ObjectID, name, description string, daysPerWeek int, weeks json.RawMessage) (*domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, mentorID, planID primitive.ObjectID, name, description string, daysPerWeek int, weeks json.RawMessage) (*domain.WorkoutPlan, error)
	GetPlanByID(ctx context.Context, requesterID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetPlansForClient(ctx context.Context, requesterID, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	ActivatePlan(ctx context.Context, mentorID, planID primitive.ObjectID) error
	DeletePlan(ctx context.Context, mentorID, planID primitive.ObjectID) error
}

// planService implements the PlanService interface.
type planService struct {
	planRepo repository.PlanRepository
	userRepo repository.UserRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, userRepo repository.UserRepository) PlanService {
	return &planService{
		planRepo: planRepo,
		userRepo: userRepo,
	}
}

// ParseWeeks decodes a weeks payload. Some clients send the weeks array
// directly, others send it as a JSON-encoded string of the array; both
// forms are accepted. An empty payload yields an empty slice.
func ParseWeeks(raw json.RawMessage) ([]domain.PlanWeek, error) {
	if len(raw) == 0 {
		return []domain.PlanWeek{}, nil
	}

	var weeks []domain.PlanWeek
	if err := json.Unmarshal(raw, &weeks); err == nil {
		return weeks, nil
	}

	// Second form: a JSON string whose contents are the array.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, ErrWeeksMalformed
	}
	if encoded == "" {
		return []domain.PlanWeek{}, nil
	}
	if err := json.Unmarshal([]byte(encoded), &weeks); err != nil {
		return nil, ErrWeeksMalformed
	}
	return weeks, nil
}

// CreatePlan authors a new plan for one of the mentor's clients.
func (s *planService) CreatePlan(ctx context.Context, mentorID, clientID primitive.ObjectID, name, description string, daysPerWeek int, weeks json.RawMessage) (*domain.WorkoutPlan, error) {
	if name == "" {
		return nil, ErrPlanInvalid
	}
	if mentorID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, errors.New("mentor ID and client ID are required")
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("client not found")
		}
		return nil, err
	}
	if client.MentorID == nil || *client.MentorID != mentorID {
		return nil, ErrPlanAccessDenied
	}

	parsedWeeks, err := ParseWeeks(weeks)
	if err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		MentorID:    mentorID,
		ClientID:    clientID,
		Name:        name,
		Description: description,
		DaysPerWeek: daysPerWeek,
		Weeks:       parsedWeeks,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, planID)
}

// UpdatePlan replaces the mutable fields of an existing plan, ensuring
// the mentor owns it.
func (s *planService) UpdatePlan(ctx context.Context, mentorID, planID primitive.ObjectID, name, description string, daysPerWeek int, weeks json.RawMessage) (*domain.WorkoutPlan, error) {
	if name == "" {
		return nil, ErrPlanInvalid
	}

	existing, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if existing.MentorID != mentorID {
		return nil, ErrPlanAccessDenied
	}

	parsedWeeks, err := ParseWeeks(weeks)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = description
	existing.DaysPerWeek = daysPerWeek
	existing.Weeks = parsedWeeks

	if err := s.planRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return existing, nil
}

// GetPlanByID retrieves a plan for either party: the owning mentor or the
// client the plan was written for.
func (s *planService) GetPlanByID(ctx context.Context, requesterID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.MentorID != requesterID && plan.ClientID != requesterID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// GetPlansForClient lists a client's plans, newest first. Only the client
// themself or the mentor currently coaching them may read the list.
func (s *planService) GetPlansForClient(ctx context.Context, requesterID, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID cannot be nil")
	}
	if requesterID != clientID {
		client, err := s.userRepo.GetByID(ctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPlanAccessDenied
			}
			return nil, err
		}
		if client.MentorID == nil || *client.MentorID != requesterID {
			return nil, ErrPlanAccessDenied
		}
	}
	return s.planRepo.GetByClientID(ctx, clientID)
}

// ActivatePlan marks one plan active and deactivates the client's others.
func (s *planService) ActivatePlan(ctx context.Context, mentorID, planID primitive.ObjectID) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if plan.MentorID != mentorID {
		return ErrPlanAccessDenied
	}
	return s.planRepo.SetActive(ctx, planID, plan.ClientID)
}

// DeletePlan removes a plan, ensuring ownership.
func (s *planService) DeletePlan(ctx context.Context, mentorID, planID primitive.ObjectID) error {
	if mentorID == primitive.NilObjectID || planID == primitive.NilObjectID {
		return errors.New("mentor ID and plan ID are required")
	}
	err := s.planRepo.Delete(ctx, planID, mentorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}
