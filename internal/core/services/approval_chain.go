package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	"github.com/edmart-systems/procurement_backend/internal/middleware"
	"github.com/edmart-systems/procurement_backend/internal/platform/config"
)

// ApprovalChainResolver turns the configured, ordered list of approver roles into
// concrete approvers at purchase order creation time. A role without an active holder
// is skipped silently, so the resolved chain may be shorter than the configured one;
// levels stay dense starting at 1.
type ApprovalChainResolver struct {
	chain    []config.ApprovalRole
	userRepo portsrepo.UserReader
}

// NewApprovalChainResolver creates a resolver for the given chain configuration.
func NewApprovalChainResolver(chain []config.ApprovalRole, userRepo portsrepo.UserReader) *ApprovalChainResolver {
	return &ApprovalChainResolver{
		chain:    chain,
		userRepo: userRepo,
	}
}

// Chain returns the configured approval chain in approval order.
func (r *ApprovalChainResolver) Chain() []config.ApprovalRole {
	return r.chain
}

// LastRole returns the final role of the chain (the procurement role under the
// default configuration) and whether the chain is non-empty.
func (r *ApprovalChainResolver) LastRole() (config.ApprovalRole, bool) {
	if len(r.chain) == 0 {
		return config.ApprovalRole{}, false
	}
	return r.chain[len(r.chain)-1], true
}

// ResolveRoleHolder retrieves the first active holder of the given role.
func (r *ApprovalChainResolver) ResolveRoleHolder(ctx context.Context, role config.ApprovalRole) (*domain.User, error) {
	user, err := r.userRepo.FindFirstActiveUserByRole(ctx, role.RoleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve holder of role %s (%d): %w", role.Label, role.RoleID, err)
	}
	return user, nil
}

// ResolveApprovers resolves the chain to concrete approvers with dense levels from 1.
// An unstaffed role is skipped, which can yield an empty result: the purchase order
// is then created with no approval steps at all and stays Pending indefinitely.
func (r *ApprovalChainResolver) ResolveApprovers(ctx context.Context) ([]domain.ResolvedApprover, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	approvers := make([]domain.ResolvedApprover, 0, len(r.chain))
	level := 1
	for _, role := range r.chain {
		holder, err := r.ResolveRoleHolder(ctx, role)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Approval role has no active holder, skipping",
					slog.String("role", role.Label), slog.Int("role_id", role.RoleID))
				continue
			}
			return nil, err
		}
		approvers = append(approvers, domain.ResolvedApprover{UserID: holder.UserID, Level: level})
		level++
	}

	return approvers, nil
}
