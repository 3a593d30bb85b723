package repository

import (
	"context"

	"fitmentor/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToMentor(ctx context.Context, mentorID, clientID primitive.ObjectID) error
	GetClientsByMentorID(ctx context.Context, mentorID primitive.ObjectID) ([]domain.User, error)
	SetMentorForClient(ctx context.Context, clientID, mentorID primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByMentorID(ctx context.Context, mentorID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID, mentorID primitive.ObjectID) error // Ensure mentor owns the exercise
}

// PlanRepository defines the interface for interacting with workout plan data.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	SetActive(ctx context.Context, planID, clientID primitive.ObjectID) error
	Delete(ctx context.Context, planID, mentorID primitive.ObjectID) error
}

// WorkoutLogRepository defines the interface for interacting with execution
// log documents. Logs for one plan are returned as a map keyed by the
// composite log key; set arrays keep their stored order.
type WorkoutLogRepository interface {
	GetForPlan(ctx context.Context, clientID, planID primitive.ObjectID) (map[string][]domain.SetLog, error)
	GetByKey(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey) (*domain.WorkoutLog, error)
	AppendSet(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey, set domain.SetLog) error
	MarkSetDeleted(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey, setIndex int) error
}

// EnrollmentRepository defines the interface for interacting with enrollment data.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Enrollment, error)
	GetByMentorID(ctx context.Context, mentorID primitive.ObjectID) ([]domain.Enrollment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Enrollment, error)
	Update(ctx context.Context, enrollment *domain.Enrollment) error
	// UpdateStatusIfCurrent persists a derived status only when the stored
	// status still matches the one the derivation was based on, so
	// concurrent derive-and-write readers cannot clobber a newer state.
	UpdateStatusIfCurrent(ctx context.Context, id primitive.ObjectID, from, to domain.EnrollmentStatus) error
}

// PhotoRepository defines the interface for progress photo metadata.
type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error)
	GetByClientAndPlanID(ctx context.Context, clientID, planID primitive.ObjectID) ([]domain.ProgressPhoto, error)
}
