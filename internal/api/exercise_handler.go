// internal/api/exercise_handler.go
package api

import (
	"errors"
	"net/http"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

type ExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscleGroup"`
	Difficulty  string `json:"difficulty" binding:"omitempty,oneof=Novice Medium Advanced"`
	VideoURL    string `json:"videoUrl" binding:"omitempty,url"`
}

// --- Handler Methods ---

// CreateExercise adds a new exercise to the mentor's library.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), mentorID, req.Name, req.Description, req.MuscleGroup, req.Difficulty, req.VideoURL)
	if err != nil {
		mapExerciseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetMentorExercises lists the mentor's exercise library.
func (h *ExerciseHandler) GetMentorExercises(c *gin.Context) {
	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	exercises, err := h.exerciseService.GetExercisesByMentor(c.Request.Context(), mentorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExercise retrieves one exercise by ID.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		mapExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise edits an exercise the mentor owns.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), mentorID, exerciseID, req.Name, req.Description, req.MuscleGroup, req.Difficulty, req.VideoURL)
	if err != nil {
		mapExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise removes an exercise the mentor owns.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), mentorID, exerciseID); err != nil {
		mapExerciseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// mapExerciseError maps exercise service sentinel errors to status codes.
func mapExerciseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Exercise operation failed.")
	}
}
