package services

import (
	"context"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/edmart-systems/procurement_backend/internal/dto"
)

// UserSvcFacade exposes user lookups and registration.
type UserSvcFacade interface {
	// GetUserByID retrieves a user by their unique identifier.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
}

// AuthSvcFacade authenticates users and issues tokens.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed JWT plus the user.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

// NotificationSvcFacade exposes the persisted in-app notifications to their recipients.
type NotificationSvcFacade interface {
	// ListNotifications retrieves the caller's notifications, newest first.
	ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error)

	// MarkRead stamps a notification of the caller as read.
	MarkRead(ctx context.Context, userID, notificationID string) error
}
