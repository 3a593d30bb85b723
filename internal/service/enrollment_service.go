package service

import (
	"context"
	"errors"
	"log"
	"time"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrEnrollmentNotFound     = errors.New("enrollment not found")
	ErrEnrollmentAccessDenied = errors.New("access denied to this enrollment")
	ErrEnrollmentInvalid      = errors.New("enrollment validation failed")
	ErrEnrollmentNotDecidable = errors.New("enrollment is not awaiting a decision")
)

// EnrollmentService manages the coaching enrollment lifecycle. Status is
// stored but derived on read: list and get operations re-derive it against
// the current clock and persist an active-to-completed rollover.
type EnrollmentService interface {
	RequestEnrollment(ctx context.Context, clientID, mentorID primitive.ObjectID, pkg domain.Package) (*domain.Enrollment, error)
	MarkPaid(ctx context.Context, enrollmentID primitive.ObjectID, paymentID string) error
	AcceptEnrollment(ctx context.Context, mentorID, enrollmentID primitive.ObjectID) (*domain.Enrollment, error)
	RejectEnrollment(ctx context.Context, mentorID, enrollmentID primitive.ObjectID) error
	GetEnrollment(ctx context.Context, requesterID, enrollmentID primitive.ObjectID) (*domain.Enrollment, error)
	GetEnrollmentsForMentor(ctx context.Context, mentorID primitive.ObjectID) ([]domain.Enrollment, error)
	GetEnrollmentsForClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Enrollment, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
	now            func() time.Time
}

// NewEnrollmentService creates a new instance of enrollmentService.
func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository, userRepo repository.UserRepository) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

// RequestEnrollment creates a pending enrollment from a client toward a mentor.
func (s *enrollmentService) RequestEnrollment(ctx context.Context, clientID, mentorID primitive.ObjectID, pkg domain.Package) (*domain.Enrollment, error) {
	if clientID == primitive.NilObjectID || mentorID == primitive.NilObjectID {
		return nil, ErrEnrollmentInvalid
	}
	if pkg.Type == "" {
		return nil, ErrEnrollmentInvalid
	}

	mentor, err := s.userRepo.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("mentor not found")
		}
		return nil, err
	}
	if !mentor.IsMentor() {
		return nil, ErrEnrollmentInvalid
	}

	enrollment := &domain.Enrollment{
		ClientID: clientID,
		MentorID: mentorID,
		Status:   domain.EnrollmentPending,
		Package:  &pkg,
	}
	enrollmentID, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	return s.enrollmentRepo.GetByID(ctx, enrollmentID)
}

// MarkPaid records a confirmed payment against a pending enrollment. Called
// from the payment webhook, so it identifies the enrollment by ID alone.
func (s *enrollmentService) MarkPaid(ctx context.Context, enrollmentID primitive.ObjectID, paymentID string) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}
	if enrollment.Status != domain.EnrollmentPending {
		// A payment that lands after acceptance or rejection changes nothing.
		return ErrEnrollmentNotDecidable
	}

	enrollment.Status = domain.EnrollmentPaidPending
	enrollment.PaymentID = paymentID
	return s.enrollmentRepo.Update(ctx, enrollment)
}

// AcceptEnrollment activates an enrollment: stamps acceptance, persists the
// derived end date, and links the client into the mentor's roster.
func (s *enrollmentService) AcceptEnrollment(ctx context.Context, mentorID, enrollmentID primitive.ObjectID) (*domain.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.MentorID != mentorID {
		return nil, ErrEnrollmentAccessDenied
	}
	if enrollment.Status != domain.EnrollmentPending && enrollment.Status != domain.EnrollmentPaidPending {
		return nil, ErrEnrollmentNotDecidable
	}

	acceptedAt := s.now().UTC()
	enrollment.AcceptedAt = &acceptedAt
	enrollment.Status = domain.EnrollmentActive
	enrollment.EndDate = enrollment.ComputeEndDate()

	if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	if err := s.userRepo.AddClientIDToMentor(ctx, mentorID, enrollment.ClientID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetMentorForClient(ctx, enrollment.ClientID, mentorID); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// RejectEnrollment declines a pending enrollment. Rejection is terminal.
func (s *enrollmentService) RejectEnrollment(ctx context.Context, mentorID, enrollmentID primitive.ObjectID) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}
	if enrollment.MentorID != mentorID {
		return ErrEnrollmentAccessDenied
	}
	if enrollment.Status != domain.EnrollmentPending && enrollment.Status != domain.EnrollmentPaidPending {
		return ErrEnrollmentNotDecidable
	}

	enrollment.Status = domain.EnrollmentRejected
	return s.enrollmentRepo.Update(ctx, enrollment)
}

// GetEnrollment retrieves one enrollment with a freshly derived status.
func (s *enrollmentService) GetEnrollment(ctx context.Context, requesterID, enrollmentID primitive.ObjectID) (*domain.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.MentorID != requesterID && enrollment.ClientID != requesterID {
		return nil, ErrEnrollmentAccessDenied
	}
	s.refreshStatus(ctx, enrollment)
	return enrollment, nil
}

// GetEnrollmentsForMentor lists a mentor's enrollments, statuses refreshed.
func (s *enrollmentService) GetEnrollmentsForMentor(ctx context.Context, mentorID primitive.ObjectID) ([]domain.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.GetByMentorID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	for i := range enrollments {
		s.refreshStatus(ctx, &enrollments[i])
	}
	return enrollments, nil
}

// GetEnrollmentsForClient lists a client's enrollments, statuses refreshed.
func (s *enrollmentService) GetEnrollmentsForClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for i := range enrollments {
		s.refreshStatus(ctx, &enrollments[i])
	}
	return enrollments, nil
}

// refreshStatus derives the current status and persists a rollover. The
// conditional write only succeeds if the stored status still matches the
// one the derivation saw, so a concurrent reader cannot clobber a newer
// state. A lost race or write failure still returns the derived value to
// the caller; the next read will retry the persist.
func (s *enrollmentService) refreshStatus(ctx context.Context, enrollment *domain.Enrollment) {
	derived := enrollment.DeriveStatus(s.now())
	if derived == enrollment.Status {
		return
	}
	if err := s.enrollmentRepo.UpdateStatusIfCurrent(ctx, enrollment.ID, enrollment.Status, derived); err != nil && !errors.Is(err, repository.ErrUpdateFailed) {
		log.Printf("WARN: failed to persist derived status for enrollment %s: %v", enrollment.ID.Hex(), err)
	}
	enrollment.Status = derived
}
