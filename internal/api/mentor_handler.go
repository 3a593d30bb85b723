// internal/api/mentor_handler.go
package api

import (
	"errors"
	"net/http"

	"fitmentor/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MentorHandler struct {
	mentorService service.MentorService
}

func NewMentorHandler(mentorService service.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

// GetManagedClients lists the clients linked to the authenticated mentor.
func (h *MentorHandler) GetManagedClients(c *gin.Context) {
	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	clients, err := h.mentorService.GetManagedClients(c.Request.Context(), mentorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve managed clients.")
		return
	}

	responses := make([]UserResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, MapUserToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetClient retrieves one of the mentor's clients by ID.
func (h *MentorHandler) GetClient(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}
	mentorID, ok := requesterObjectID(c)
	if !ok {
		return
	}

	client, err := h.mentorService.GetClientByID(c.Request.Context(), mentorID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve client.")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}
