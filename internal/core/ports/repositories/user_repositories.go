package repositories

import (
	"context"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/edmart-systems/procurement_backend/internal/models"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a user by their unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user with credentials for authentication.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// FindFirstActiveUserByRole retrieves the first active holder of the given role,
	// or ErrNotFound if the role is unstaffed.
	FindFirstActiveUserByRole(ctx context.Context, roleID int) (*domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user including the password hash.
	SaveUser(ctx context.Context, user models.User) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
