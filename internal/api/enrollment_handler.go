// internal/api/enrollment_handler.go
package api

import (
	"errors"
	"net/http"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// --- DTOs ---

type RequestEnrollmentRequest struct {
	MentorID string  `json:"mentorId" binding:"required"`
	Type     string  `json:"packageType" binding:"required"`
	Rate     int     `json:"rate" binding:"omitempty,min=0"`
	Price    float64 `json:"price" binding:"omitempty,min=0"`
}

// --- Handler Methods ---

// RequestEnrollment lets a client ask a mentor for coaching with a package.
func (h *EnrollmentHandler) RequestEnrollment(c *gin.Context) {
	var req RequestEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := requesterObjectID(c)
	if !ok {
		return
	}
	mentorID, err := primitive.ObjectIDFromHex(req.MentorID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid mentor ID format.")
		return
	}

	pkg := domain.Package{Type: domain.PackageType(req.Type), Rate: req.Rate, Price: req.Price}
	enrollment, err := h.enrollmentService.RequestEnrollment(c.Request.Context(), clientID, mentorID, pkg)
	if err != nil {
		mapEnrollmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// AcceptEnrollment activates an enrollment the mentor received.
func (h *EnrollmentHandler) AcceptEnrollment(c *gin.Context) {
	enrollmentID, err := primitive.ObjectIDFromHex(c.Param("enrollmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid enrollment ID format.")
		return
	}
	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.AcceptEnrollment(c.Request.Context(), mentorID, enrollmentID)
	if err != nil {
		mapEnrollmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// RejectEnrollment declines a pending enrollment.
func (h *EnrollmentHandler) RejectEnrollment(c *gin.Context) {
	enrollmentID, err := primitive.ObjectIDFromHex(c.Param("enrollmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid enrollment ID format.")
		return
	}
	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	if err := h.enrollmentService.RejectEnrollment(c.Request.Context(), mentorID, enrollmentID); err != nil {
		mapEnrollmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrollment rejected"})
}

// GetEnrollment retrieves one enrollment for either party.
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	enrollmentID, err := primitive.ObjectIDFromHex(c.Param("enrollmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid enrollment ID format.")
		return
	}
	requesterID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.GetEnrollment(c.Request.Context(), requesterID, enrollmentID)
	if err != nil {
		mapEnrollmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// GetMentorEnrollments lists the authenticated mentor's enrollments.
func (h *EnrollmentHandler) GetMentorEnrollments(c *gin.Context) {
	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.GetEnrollmentsForMentor(c.Request.Context(), mentorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve enrollments.")
		return
	}
	if enrollments == nil {
		enrollments = []domain.Enrollment{}
	}
	c.JSON(http.StatusOK, enrollments)
}

// GetClientEnrollments lists the authenticated client's enrollments.
func (h *EnrollmentHandler) GetClientEnrollments(c *gin.Context) {
	clientID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.GetEnrollmentsForClient(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve enrollments.")
		return
	}
	if enrollments == nil {
		enrollments = []domain.Enrollment{}
	}
	c.JSON(http.StatusOK, enrollments)
}

// mapEnrollmentError maps enrollment service sentinel errors to status codes.
func mapEnrollmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEnrollmentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEnrollmentAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEnrollmentInvalid):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEnrollmentNotDecidable):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Enrollment operation failed.")
	}
}
