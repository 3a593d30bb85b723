package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/progress"
	"fitmentor/coaching-app/internal/repository"
	"fitmentor/coaching-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgressPlanNotFound = errors.New("workout plan not found for progress computation")
	ErrProgressAccessDenied = errors.New("access denied to this plan's progress")
	ErrLogKeyMismatch       = errors.New("log key does not reference the given plan")
	ErrSetInvalid           = errors.New("set entry validation failed")
	ErrPhotoNotFound        = errors.New("progress photo not found")
)

// ProgressService orchestrates the plan normalizer, reconciler, navigator,
// and calorie accounting against stored plans and execution logs, and
// handles the progress photo upload flow.
type ProgressService interface {
	GetProgress(ctx context.Context, requesterID, planID primitive.ObjectID) (*progress.ProgressMetrics, error)
	LogSet(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey, set domain.SetLog) error
	DeleteSet(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey, setIndex int) error
	NextDay(ctx context.Context, requesterID, planID primitive.ObjectID, weekIndex, dayNumber int) (*progress.Position, error)
	DayCalories(ctx context.Context, requesterID, planID primitive.ObjectID, weekIndex, dayNumber int, date string) (float64, error)

	RequestPhotoUpload(ctx context.Context, clientID, planID primitive.ObjectID, fileName, contentType string) (uploadURL, objectKey string, err error)
	ConfirmPhotoUpload(ctx context.Context, clientID, planID primitive.ObjectID, objectKey, fileName, contentType string, size int64, takenOn string) (*domain.ProgressPhoto, error)
	GetPhotos(ctx context.Context, requesterID, planID primitive.ObjectID) ([]PhotoWithURL, error)
}

// PhotoWithURL pairs photo metadata with a short-lived download URL.
type PhotoWithURL struct {
	domain.ProgressPhoto
	DownloadURL string `json:"downloadUrl"`
}

type progressService struct {
	planRepo  repository.PlanRepository
	logRepo   repository.WorkoutLogRepository
	photoRepo repository.PhotoRepository
	fileStore storage.FileStorage
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(planRepo repository.PlanRepository, logRepo repository.WorkoutLogRepository, photoRepo repository.PhotoRepository, fileStore storage.FileStorage) ProgressService {
	return &progressService{
		planRepo:  planRepo,
		logRepo:   logRepo,
		photoRepo: photoRepo,
		fileStore: fileStore,
	}
}

// loadPlanFor fetches a plan and checks the requester is a party to it.
func (s *progressService) loadPlanFor(ctx context.Context, requesterID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressPlanNotFound
		}
		return nil, err
	}
	if plan.MentorID != requesterID && plan.ClientID != requesterID {
		return nil, ErrProgressAccessDenied
	}
	return plan, nil
}

// GetProgress reconciles the client's execution logs against the plan and
// returns the derived metrics.
func (s *progressService) GetProgress(ctx context.Context, requesterID, planID primitive.ObjectID) (*progress.ProgressMetrics, error) {
	plan, err := s.loadPlanFor(ctx, requesterID, planID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logRepo.GetForPlan(ctx, plan.ClientID, planID)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = map[string][]domain.SetLog{}
	}

	metrics := progress.Reconcile(progress.Normalize(plan), logs)
	if metrics == nil {
		// Normalize returns nil only for a nil plan, which loadPlanFor rules out.
		return nil, ErrProgressPlanNotFound
	}
	return metrics, nil
}

// LogSet appends one set attempt under the composite key, after checking
// the key actually belongs to one of the client's plans.
func (s *progressService) LogSet(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey, set domain.SetLog) error {
	planID, err := primitive.ObjectIDFromHex(key.PlanID)
	if err != nil {
		return fmt.Errorf("%w: bad plan id", ErrLogKeyMismatch)
	}
	if _, err := primitive.ObjectIDFromHex(key.ExerciseID); err != nil {
		return fmt.Errorf("%w: bad exercise id", ErrLogKeyMismatch)
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressPlanNotFound
		}
		return err
	}
	if plan.ClientID != clientID {
		return ErrProgressAccessDenied
	}
	if key.WeekIndex < 0 || key.WeekIndex >= len(plan.Weeks) {
		return fmt.Errorf("%w: week index out of range", ErrLogKeyMismatch)
	}

	if set.IsDeleted {
		return ErrSetInvalid
	}
	if set.Date == "" {
		set.Date = time.Now().UTC().Format("2006-01-02")
	}

	return s.logRepo.AppendSet(ctx, clientID, key, set)
}

// DeleteSet soft-deletes one entry of a log array by index.
func (s *progressService) DeleteSet(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey, setIndex int) error {
	if setIndex < 0 {
		return ErrSetInvalid
	}
	err := s.logRepo.MarkSetDeleted(ctx, clientID, key, setIndex)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSetInvalid
		}
		return err
	}
	return nil
}

// NextDay computes the position following (weekIndex, dayNumber) in the
// plan. A nil position with nil error means the plan is finished.
func (s *progressService) NextDay(ctx context.Context, requesterID, planID primitive.ObjectID, weekIndex, dayNumber int) (*progress.Position, error) {
	plan, err := s.loadPlanFor(ctx, requesterID, planID)
	if err != nil {
		return nil, err
	}
	return progress.NextPosition(plan, weekIndex, dayNumber)
}

// DayCalories sums calories over every exercise logged for one plan day,
// scoped to the given date when non-empty.
func (s *progressService) DayCalories(ctx context.Context, requesterID, planID primitive.ObjectID, weekIndex, dayNumber int, date string) (float64, error) {
	plan, err := s.loadPlanFor(ctx, requesterID, planID)
	if err != nil {
		return 0, err
	}

	logs, err := s.logRepo.GetForPlan(ctx, plan.ClientID, planID)
	if err != nil {
		return 0, err
	}

	var total float64
	for keyStr, sets := range logs {
		key, err := domain.ParseLogKey(keyStr)
		if err != nil {
			continue
		}
		if key.WeekIndex != weekIndex || key.DayNumber != dayNumber {
			continue
		}
		total += progress.WorkoutCalories(sets, date)
	}
	return total, nil
}

// RequestPhotoUpload generates a presigned PUT URL for a progress photo.
// The object key is returned so the client can confirm the upload later.
func (s *progressService) RequestPhotoUpload(ctx context.Context, clientID, planID primitive.ObjectID, fileName, contentType string) (string, string, error) {
	if fileName == "" || contentType == "" {
		return "", "", errors.New("file name and content type are required")
	}
	if _, err := s.loadPlanFor(ctx, clientID, planID); err != nil {
		return "", "", err
	}

	objectKey := fmt.Sprintf("progress-photos/%s/%s/%s-%s", clientID.Hex(), planID.Hex(), uuid.New().String(), fileName)

	uploadURL, err := s.fileStore.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}
	return uploadURL, objectKey, nil
}

// ConfirmPhotoUpload records photo metadata after the client finished the
// presigned upload.
func (s *progressService) ConfirmPhotoUpload(ctx context.Context, clientID, planID primitive.ObjectID, objectKey, fileName, contentType string, size int64, takenOn string) (*domain.ProgressPhoto, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}
	if _, err := s.loadPlanFor(ctx, clientID, planID); err != nil {
		return nil, err
	}

	photo := &domain.ProgressPhoto{
		ClientID:    clientID,
		PlanID:      planID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		TakenOn:     takenOn,
	}
	photoID, err := s.photoRepo.Create(ctx, photo)
	if err != nil {
		return nil, err
	}
	return s.photoRepo.GetByID(ctx, photoID)
}

// GetPhotos lists a plan's progress photos with download URLs, for the
// client or their mentor.
func (s *progressService) GetPhotos(ctx context.Context, requesterID, planID primitive.ObjectID) ([]PhotoWithURL, error) {
	plan, err := s.loadPlanFor(ctx, requesterID, planID)
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.GetByClientAndPlanID(ctx, plan.ClientID, planID)
	if err != nil {
		return nil, err
	}

	result := make([]PhotoWithURL, 0, len(photos))
	for _, photo := range photos {
		url, err := s.fileStore.GeneratePresignedDownloadURL(ctx, photo.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		result = append(result, PhotoWithURL{ProgressPhoto: photo, DownloadURL: url})
	}
	return result, nil
}
