// internal/api/progress_handler.go
package api

import (
	"errors"
	"net/http"
	"strconv"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/progress"
	"fitmentor/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- DTOs ---

type LogSetRequest struct {
	WeekIndex  int           `json:"weekIndex" binding:"min=0"`
	DayNumber  int           `json:"dayNumber" binding:"required,min=1"`
	ExerciseID string        `json:"exerciseId" binding:"required"`
	Set        domain.SetLog `json:"set"`
}

type DeleteSetRequest struct {
	WeekIndex  int    `json:"weekIndex" binding:"min=0"`
	DayNumber  int    `json:"dayNumber" binding:"required,min=1"`
	ExerciseID string `json:"exerciseId" binding:"required"`
	SetIndex   int    `json:"setIndex" binding:"min=0"`
}

type NextDayResponse struct {
	Done     bool               `json:"done"`
	Position *progress.Position `json:"position,omitempty"`
}

type ConfirmPhotoRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"min=0"`
	TakenOn     string `json:"takenOn"`
}

// --- Handler Methods ---

// GetProgress returns reconciled metrics for a plan.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	requesterID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	metrics, err := h.progressService.GetProgress(c.Request.Context(), requesterID, planID)
	if err != nil {
		mapProgressError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// LogSet appends one set attempt to the client's execution log.
func (h *ProgressHandler) LogSet(c *gin.Context) {
	planID := c.Param("planId")
	if _, err := primitive.ObjectIDFromHex(planID); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	var req LogSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	key := domain.LogKey{
		WeekIndex:  req.WeekIndex,
		DayNumber:  req.DayNumber,
		ExerciseID: req.ExerciseID,
		PlanID:     planID,
	}
	if err := h.progressService.LogSet(c.Request.Context(), clientID, key, req.Set); err != nil {
		mapProgressError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// DeleteSet soft-deletes one logged set by index.
func (h *ProgressHandler) DeleteSet(c *gin.Context) {
	planID := c.Param("planId")
	if _, err := primitive.ObjectIDFromHex(planID); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	var req DeleteSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	key := domain.LogKey{
		WeekIndex:  req.WeekIndex,
		DayNumber:  req.DayNumber,
		ExerciseID: req.ExerciseID,
		PlanID:     planID,
	}
	if err := h.progressService.DeleteSet(c.Request.Context(), clientID, key, req.SetIndex); err != nil {
		mapProgressError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// NextDay computes the training position after the given week and day.
func (h *ProgressHandler) NextDay(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	weekIndex, err := strconv.Atoi(c.Query("weekIndex"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "weekIndex query parameter must be an integer.")
		return
	}
	dayNumber, err := strconv.Atoi(c.Query("dayNumber"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "dayNumber query parameter must be an integer.")
		return
	}

	requesterID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	pos, err := h.progressService.NextDay(c.Request.Context(), requesterID, planID, weekIndex, dayNumber)
	if err != nil {
		mapProgressError(c, err)
		return
	}
	if pos == nil {
		c.JSON(http.StatusOK, NextDayResponse{Done: true})
		return
	}
	c.JSON(http.StatusOK, NextDayResponse{Done: false, Position: pos})
}

// DayCalories sums calories for one plan day, optionally scoped to a date.
func (h *ProgressHandler) DayCalories(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	weekIndex, err := strconv.Atoi(c.Query("weekIndex"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "weekIndex query parameter must be an integer.")
		return
	}
	dayNumber, err := strconv.Atoi(c.Query("dayNumber"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "dayNumber query parameter must be an integer.")
		return
	}

	requesterID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	calories, err := h.progressService.DayCalories(c.Request.Context(), requesterID, planID, weekIndex, dayNumber, c.Query("date"))
	if err != nil {
		mapProgressError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calories": calories})
}

// RequestPhotoUpload returns a presigned PUT URL for a progress photo.
func (h *ProgressHandler) RequestPhotoUpload(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	var req struct {
		FileName    string `json:"fileName" binding:"required"`
		ContentType string `json:"contentType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	uploadURL, objectKey, err := h.progressService.RequestPhotoUpload(c.Request.Context(), clientID, planID, req.FileName, req.ContentType)
	if err != nil {
		mapProgressError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "objectKey": objectKey})
}

// ConfirmPhotoUpload records photo metadata after the presigned upload.
func (h *ProgressHandler) ConfirmPhotoUpload(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	photo, err := h.progressService.ConfirmPhotoUpload(c.Request.Context(), clientID, planID, req.ObjectKey, req.FileName, req.ContentType, req.Size, req.TakenOn)
	if err != nil {
		mapProgressError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// GetPhotos lists a plan's progress photos with download URLs.
func (h *ProgressHandler) GetPhotos(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	requesterID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	photos, err := h.progressService.GetPhotos(c.Request.Context(), requesterID, planID)
	if err != nil {
		mapProgressError(c, err)
		return
	}
	if photos == nil {
		photos = []service.PhotoWithURL{}
	}
	c.JSON(http.StatusOK, photos)
}

// mapProgressError maps progress service sentinel errors to status codes.
func mapProgressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgressPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgressAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrLogKeyMismatch), errors.Is(err, service.ErrSetInvalid):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, progress.ErrPlanEmpty),
		errors.Is(err, progress.ErrWeekOutOfRange),
		errors.Is(err, progress.ErrWeekHasNoDays),
		errors.Is(err, progress.ErrDayNotFound):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Progress operation failed.")
	}
}
