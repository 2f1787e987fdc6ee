package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	"github.com/edmart-systems/procurement_backend/internal/models"
	"github.com/edmart-systems/procurement_backend/internal/utils/mapping"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, first_name, last_name, email, password_hash, role_id, is_active, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.FirstName,
		&m.LastName,
		&m.Email,
		&m.PasswordHash,
		&m.RoleID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		user.UserID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.RoleID,
		user.IsActive,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
		user.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	modelUser, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	user := mapping.ToDomainUser(modelUser)
	return &user, nil
}

// FindUserByEmail returns the model row including the password hash; it exists for
// the authentication path only.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL;
	`
	modelUser, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &modelUser, nil
}

// FindFirstActiveUserByRole picks a deterministic holder of the role: the active user
// with that role who was created first.
func (r *PgxUserRepository) FindFirstActiveUserByRole(ctx context.Context, roleID int) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role_id = $1 AND is_active = TRUE AND deleted_at IS NULL
		ORDER BY created_at
		LIMIT 1;
	`
	modelUser, err := scanUser(r.db.QueryRow(ctx, query, roleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active user for role %d: %w", roleID, err)
	}
	user := mapping.ToDomainUser(modelUser)
	return &user, nil
}
