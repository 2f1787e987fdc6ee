package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/dto"
	"github.com/edmart-systems/procurement_backend/internal/middleware"
	"github.com/edmart-systems/procurement_backend/internal/platform/config"
	"github.com/edmart-systems/procurement_backend/internal/utils"
	"github.com/edmart-systems/procurement_backend/internal/utils/mapping"
)

// ErrInvalidCredentials masks both unknown-email and wrong-password failures.
var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo portsrepo.UserReader
	cfg      *config.Config
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo portsrepo.UserReader, cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{userRepo: userRepo, cfg: cfg}
}

// Ensure authService implements the facade interface
var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies credentials and returns a signed JWT plus the user profile.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive || user.DeletedAt != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, apperrors.ErrForbidden)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Failed login attempt", slog.String("email", req.Email))
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, apperrors.ErrForbidden)
	}

	now := time.Now().UTC()
	claims := middleware.AuthClaims{
		RoleID:  user.RoleID,
		IsAdmin: user.RoleID == s.cfg.AdminRoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiryDuration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	domainUser := mapping.ToDomainUser(*user)
	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(&domainUser),
	}, nil
}
