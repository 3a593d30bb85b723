// internal/api/plan_handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fitmentor/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

// PlanRequest carries plan fields for create and update. Weeks is raw JSON
// because some clients send the weeks array directly and others send it as
// a JSON-encoded string; the service accepts both.
type PlanRequest struct {
	ClientID    string          `json:"clientId"` // required on create, ignored on update
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	DaysPerWeek int             `json:"daysPerWeek" binding:"omitempty,min=1,max=7"`
	Weeks       json.RawMessage `json:"weeks"`
}

// --- Handler Methods ---

// CreatePlan authors a new plan for one of the mentor's clients.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), mentorID, clientID, req.Name, req.Description, req.DaysPerWeek, req.Weeks)
	if err != nil {
		mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan replaces the mutable fields of an existing plan.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), mentorID, planID, req.Name, req.Description, req.DaysPerWeek, req.Weeks)
	if err != nil {
		mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetPlan retrieves one plan for the owning mentor or its client.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	requesterID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetPlanByID(c.Request.Context(), requesterID, planID)
	if err != nil {
		mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetClientPlans lists a client's plans. A client sees their own; a mentor
// passes the client ID as a query parameter.
func (h *PlanHandler) GetClientPlans(c *gin.Context) {
	requesterID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	clientID := requesterID
	if clientIDStr := c.Query("clientId"); clientIDStr != "" {
		var err error
		clientID, err = primitive.ObjectIDFromHex(clientIDStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
			return
		}
	}

	plans, err := h.planService.GetPlansForClient(c.Request.Context(), requesterID, clientID)
	if err != nil {
		mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// ActivatePlan marks one plan active, deactivating the client's others.
func (h *PlanHandler) ActivatePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	if err := h.planService.ActivatePlan(c.Request.Context(), mentorID, planID); err != nil {
		mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan activated"})
}

// DeletePlan removes a plan the mentor owns.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), mentorID, planID); err != nil {
		mapPlanError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// mapPlanError maps plan service sentinel errors to HTTP status codes.
func mapPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanInvalid), errors.Is(err, service.ErrWeeksMalformed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Plan operation failed.")
	}
}
