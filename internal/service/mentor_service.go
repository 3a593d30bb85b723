package service

import (
	"context"
	"errors"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrClientNotFound = errors.New("client not found")

// MentorService exposes the mentor's view of their roster. Clients join the
// roster through enrollment acceptance, not directly here.
type MentorService interface {
	GetManagedClients(ctx context.Context, mentorID primitive.ObjectID) ([]domain.User, error)
	GetClientByID(ctx context.Context, mentorID, clientID primitive.ObjectID) (*domain.User, error)
}

type mentorService struct {
	userRepo repository.UserRepository
}

// NewMentorService creates a new instance of mentorService.
func NewMentorService(userRepo repository.UserRepository) MentorService {
	return &mentorService{userRepo: userRepo}
}

// GetManagedClients lists the clients currently linked to the mentor.
func (s *mentorService) GetManagedClients(ctx context.Context, mentorID primitive.ObjectID) ([]domain.User, error) {
	if mentorID == primitive.NilObjectID {
		return nil, errors.New("mentor ID cannot be nil")
	}
	clients, err := s.userRepo.GetClientsByMentorID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// GetClientByID fetches one client, verifying they belong to the mentor.
func (s *mentorService) GetClientByID(ctx context.Context, mentorID, clientID primitive.ObjectID) (*domain.User, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.MentorID == nil || *client.MentorID != mentorID {
		return nil, ErrClientNotFound
	}
	client.PasswordHash = ""
	return client, nil
}
