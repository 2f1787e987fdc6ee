package repositories

import (
	"context"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
)

// DraftReader defines read operations for purchase order drafts. Ownership is part of
// every lookup: a draft is only visible to its creator.
type DraftReader interface {
	// ListManualDrafts retrieves the user's manual drafts, most recently updated first.
	ListManualDrafts(ctx context.Context, creatorID string) ([]domain.PurchaseOrderDraft, error)

	// FindDraftByID retrieves a single draft owned by the user, or ErrNotFound.
	FindDraftByID(ctx context.Context, creatorID, draftID string) (*domain.PurchaseOrderDraft, error)

	// FindLatestAutoDraft retrieves the user's auto-save snapshot, or ErrNotFound.
	FindLatestAutoDraft(ctx context.Context, creatorID string) (*domain.PurchaseOrderDraft, error)

	// CountManualDrafts counts the user's manual drafts for cap enforcement.
	CountManualDrafts(ctx context.Context, creatorID string) (int64, error)
}

// DraftWriter defines write operations for purchase order drafts.
type DraftWriter interface {
	// SaveDraft inserts a new draft row.
	SaveDraft(ctx context.Context, draft domain.PurchaseOrderDraft) error

	// DeleteDraft deletes the draft if owned by the user. Deleting zero rows is not an
	// error; the returned flag reports whether a row was removed.
	DeleteDraft(ctx context.Context, creatorID, draftID string) (bool, error)

	// DeleteAllManualDrafts removes every manual draft of the user.
	DeleteAllManualDrafts(ctx context.Context, creatorID string) error

	// DeleteAutoDraft removes the user's auto-save snapshot if present.
	DeleteAutoDraft(ctx context.Context, creatorID string) error
}

// DraftRepositoryFacade combines all draft repository interfaces.
type DraftRepositoryFacade interface {
	DraftReader
	DraftWriter
}
