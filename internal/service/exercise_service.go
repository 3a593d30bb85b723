package service

import (
	"context"
	"errors"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrValidationFailed     = errors.New("exercise validation failed")
)

type ExerciseService interface {
	CreateExercise(ctx context.Context, mentorID primitive.ObjectID, name, description, muscleGroup, difficulty, videoURL string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercisesByMentor(ctx context.Context, mentorID primitive.ObjectID) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, mentorID, exerciseID primitive.ObjectID, name, description, muscleGroup, difficulty, videoURL string) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, mentorID, exerciseID primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

// CreateExercise handles the creation of a new library exercise by a mentor.
func (s *exerciseService) CreateExercise(ctx context.Context, mentorID primitive.ObjectID, name, description, muscleGroup, difficulty, videoURL string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if mentorID == primitive.NilObjectID {
		return nil, errors.New("mentor ID is required to create an exercise")
	}

	exercise := &domain.Exercise{
		MentorID:    mentorID,
		Name:        name,
		Description: description,
		MuscleGroup: muscleGroup,
		Difficulty:  difficulty,
		VideoURL:    videoURL,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	// Fetch again to return the timestamps set by the repository.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// GetExercisesByMentor retrieves all exercises owned by one mentor.
func (s *exerciseService) GetExercisesByMentor(ctx context.Context, mentorID primitive.ObjectID) ([]domain.Exercise, error) {
	if mentorID == primitive.NilObjectID {
		return nil, errors.New("mentor ID cannot be nil")
	}
	exercises, err := s.exerciseRepo.GetByMentorID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	return exercises, nil
}

// UpdateExercise handles updating an existing exercise, ensuring ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, mentorID, exerciseID primitive.ObjectID, name, description, muscleGroup, difficulty, videoURL string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if mentorID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return nil, errors.New("mentor ID and exercise ID are required")
	}

	existingExercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if existingExercise.MentorID != mentorID {
		return nil, ErrExerciseAccessDenied
	}

	existingExercise.Name = name
	existingExercise.Description = description
	existingExercise.MuscleGroup = muscleGroup
	existingExercise.Difficulty = difficulty
	existingExercise.VideoURL = videoURL

	err = s.exerciseRepo.Update(ctx, existingExercise)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existingExercise, nil
}

// DeleteExercise handles deleting an exercise, ensuring ownership.
func (s *exerciseService) DeleteExercise(ctx context.Context, mentorID, exerciseID primitive.ObjectID) error {
	if mentorID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return errors.New("mentor ID and exercise ID are required")
	}

	// The repository's Delete filter already includes the mentorID, so
	// ownership is enforced at the DB level.
	err := s.exerciseRepo.Delete(ctx, exerciseID, mentorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	return nil
}
