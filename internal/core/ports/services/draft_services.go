package services

import (
	"context"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/edmart-systems/procurement_backend/internal/dto"
)

// DraftSvcFacade manages work-in-progress purchase orders: capped manual drafts plus
// a single auto-save snapshot per user.
type DraftSvcFacade interface {
	// SaveDraft persists a draft. Manual drafts are capped per user; saving an auto
	// draft replaces the previous snapshot.
	SaveDraft(ctx context.Context, userID string, req dto.SaveDraftRequest) (*domain.PurchaseOrderDraft, error)

	// ListDrafts retrieves the user's manual drafts with payloads reconstructed.
	ListDrafts(ctx context.Context, userID string) ([]domain.PurchaseOrderDraft, error)

	// GetDraft retrieves a single draft owned by the user.
	GetDraft(ctx context.Context, userID, draftID string) (*domain.PurchaseOrderDraft, error)

	// DeleteDraft removes a draft owned by the user. Idempotent; the flag reports
	// whether a row was removed.
	DeleteDraft(ctx context.Context, userID, draftID string) (bool, error)

	// GetLatestAutoDraft retrieves the user's auto-save snapshot.
	GetLatestAutoDraft(ctx context.Context, userID string) (*domain.PurchaseOrderDraft, error)

	// DeleteAutoDraft discards the user's auto-save snapshot.
	DeleteAutoDraft(ctx context.Context, userID string) error
}
