package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/dto"
	"github.com/edmart-systems/procurement_backend/internal/middleware"
)

// ErrDraftLimitReached is returned when a user already holds the maximum number of
// manual drafts.
var ErrDraftLimitReached = errors.New("maximum drafts limit reached")

// draftService manages work-in-progress purchase orders. Manual drafts are capped
// per user; the auto kind is a single replace-on-write snapshot.
type draftService struct {
	draftRepo       portsrepo.DraftRepositoryFacade
	maxManualDrafts int
}

// NewDraftService creates a new draft service.
func NewDraftService(draftRepo portsrepo.DraftRepositoryFacade, maxManualDrafts int) portssvc.DraftSvcFacade {
	return &draftService{
		draftRepo:       draftRepo,
		maxManualDrafts: maxManualDrafts,
	}
}

// Ensure draftService implements the facade interface
var _ portssvc.DraftSvcFacade = (*draftService)(nil)

// buildPayload assembles the versioned payload from the request. Drafts are
// work-in-progress, so lines are stored as given without validation; totals are
// still recomputed so the listing scalar is consistent.
func buildPayload(req dto.SaveDraftRequest) domain.DraftPayload {
	items := make([]domain.PurchaseOrderItem, len(req.Items))
	total := decimal.Zero
	for i, reqItem := range req.Items {
		linePrice := reqItem.QuantityOrdered.Mul(reqItem.UnitPrice)
		items[i] = domain.PurchaseOrderItem{
			ProductID:       reqItem.ProductID,
			Description:     reqItem.Description,
			QuantityOrdered: reqItem.QuantityOrdered,
			UnitPrice:       reqItem.UnitPrice,
			TotalPrice:      linePrice,
		}
		total = total.Add(linePrice)
	}

	return domain.DraftPayload{
		Version:          domain.DraftPayloadVersion,
		SupplierID:       req.SupplierID,
		CurrencyID:       req.CurrencyID,
		ExpectedDelivery: req.ExpectedDelivery,
		Remarks:          req.Remarks,
		Items:            items,
		TotalAmount:      total,
	}
}

// SaveDraft persists a draft. Manual drafts are capped; saving an auto draft first
// discards the previous snapshot so at most one exists per user.
func (s *draftService) SaveDraft(ctx context.Context, userID string, req dto.SaveDraftRequest) (*domain.PurchaseOrderDraft, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	kind := domain.DraftKind(req.Kind)
	if kind == "" {
		kind = domain.DraftKindManual
	}

	if kind == domain.DraftKindManual {
		count, err := s.draftRepo.CountManualDrafts(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count drafts: %w", err)
		}
		if count >= int64(s.maxManualDrafts) {
			return nil, fmt.Errorf("%w (%d): %w", ErrDraftLimitReached, s.maxManualDrafts, apperrors.ErrConflict)
		}
	} else {
		// Replace-on-write keeps the auto snapshot a singleton even if an earlier
		// write was orphaned.
		if err := s.draftRepo.DeleteAutoDraft(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to discard previous auto draft: %w", err)
		}
	}

	payload := buildPayload(req)
	now := time.Now().UTC()
	draft := domain.PurchaseOrderDraft{
		DraftID:     uuid.NewString(),
		CreatorID:   userID,
		Kind:        kind,
		Payload:     payload,
		SupplierID:  payload.SupplierID,
		TotalAmount: payload.TotalAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.draftRepo.SaveDraft(ctx, draft); err != nil {
		logger.Error("Failed to save draft", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	logger.Info("Draft saved", slog.String("draft_id", draft.DraftID), slog.String("kind", string(kind)))
	return &draft, nil
}

// ListDrafts retrieves the user's manual drafts, most recently updated first.
func (s *draftService) ListDrafts(ctx context.Context, userID string) ([]domain.PurchaseOrderDraft, error) {
	drafts, err := s.draftRepo.ListManualDrafts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// GetDraft retrieves a single draft owned by the user.
func (s *draftService) GetDraft(ctx context.Context, userID, draftID string) (*domain.PurchaseOrderDraft, error) {
	draft, err := s.draftRepo.FindDraftByID(ctx, userID, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to find draft %s: %w", draftID, err)
	}
	return draft, nil
}

// DeleteDraft removes a draft owned by the user. Deleting an already-deleted draft
// is not an error.
func (s *draftService) DeleteDraft(ctx context.Context, userID, draftID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	deleted, err := s.draftRepo.DeleteDraft(ctx, userID, draftID)
	if err != nil {
		return false, fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	if deleted {
		logger.Info("Draft deleted", slog.String("draft_id", draftID))
	}
	return deleted, nil
}

// GetLatestAutoDraft retrieves the user's auto-save snapshot.
func (s *draftService) GetLatestAutoDraft(ctx context.Context, userID string) (*domain.PurchaseOrderDraft, error) {
	draft, err := s.draftRepo.FindLatestAutoDraft(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find auto draft: %w", err)
	}
	return draft, nil
}

// DeleteAutoDraft discards the user's auto-save snapshot, typically after the order
// it backed has been submitted.
func (s *draftService) DeleteAutoDraft(ctx context.Context, userID string) error {
	if err := s.draftRepo.DeleteAutoDraft(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete auto draft: %w", err)
	}
	return nil
}
