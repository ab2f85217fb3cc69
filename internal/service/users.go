package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/youome/internal/models"
)

// CreateUser creates a user.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:          req.Name,
		Email:         req.Email,
		IsCurrentUser: req.IsCurrentUser,
		CreatedAt:     s.now().UnixMilli(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("CreateUser failed", "error", err)
		return nil, err
	}

	slog.Info("User created", "user_id", user.ID, "current", user.IsCurrentUser)
	return user, nil
}

// SetCurrentUser makes userID the current user.
func (s *Service) SetCurrentUser(ctx context.Context, userID string) error {
	if err := s.store.SetCurrentUser(ctx, userID); err != nil {
		slog.Error("SetCurrentUser failed", "user_id", userID, "error", err)
		return err
	}
	slog.Info("Current user changed", "user_id", userID)
	return nil
}

// CurrentUser returns the current user.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.store.GetCurrentUser(ctx)
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// ListUsers returns every user ordered by name.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}
