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

type PgxDraftRepository struct {
	db *pgxpool.Pool
}

// newPgxDraftRepository creates a new repository for purchase order drafts.
func newPgxDraftRepository(db *pgxpool.Pool) portsrepo.DraftRepositoryFacade {
	return &PgxDraftRepository{db: db}
}

// Ensure PgxDraftRepository implements portsrepo.DraftRepositoryFacade
var _ portsrepo.DraftRepositoryFacade = (*PgxDraftRepository)(nil)

const draftColumns = `draft_id, creator_id, draft_kind, draft_data, supplier_id, total_amount, created_at, updated_at`

func scanDraft(row pgx.Row) (domain.PurchaseOrderDraft, error) {
	var m models.PurchaseOrderDraft
	err := row.Scan(
		&m.DraftID,
		&m.CreatorID,
		&m.Kind,
		&m.PayloadJSON,
		&m.SupplierID,
		&m.TotalAmount,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return domain.PurchaseOrderDraft{}, err
	}
	return mapping.ToDomainDraft(m)
}

func (r *PgxDraftRepository) SaveDraft(ctx context.Context, draft domain.PurchaseOrderDraft) error {
	modelDraft, err := mapping.ToModelDraft(draft)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO purchase_order_drafts (` + draftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = r.db.Exec(ctx, query,
		modelDraft.DraftID,
		modelDraft.CreatorID,
		modelDraft.Kind,
		modelDraft.PayloadJSON,
		modelDraft.SupplierID,
		modelDraft.TotalAmount,
		modelDraft.CreatedAt,
		modelDraft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", draft.DraftID, err)
	}
	return nil
}

func (r *PgxDraftRepository) ListManualDrafts(ctx context.Context, creatorID string) ([]domain.PurchaseOrderDraft, error) {
	query := `
		SELECT ` + draftColumns + `
		FROM purchase_order_drafts
		WHERE creator_id = $1 AND draft_kind = 'manual'
		ORDER BY updated_at DESC;
	`
	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts for user %s: %w", creatorID, err)
	}
	defer rows.Close()

	var drafts []domain.PurchaseOrderDraft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

func (r *PgxDraftRepository) FindDraftByID(ctx context.Context, creatorID, draftID string) (*domain.PurchaseOrderDraft, error) {
	query := `
		SELECT ` + draftColumns + `
		FROM purchase_order_drafts
		WHERE creator_id = $1 AND draft_id = $2;
	`
	draft, err := scanDraft(r.db.QueryRow(ctx, query, creatorID, draftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find draft %s: %w", draftID, err)
	}
	return &draft, nil
}

func (r *PgxDraftRepository) FindLatestAutoDraft(ctx context.Context, creatorID string) (*domain.PurchaseOrderDraft, error) {
	query := `
		SELECT ` + draftColumns + `
		FROM purchase_order_drafts
		WHERE creator_id = $1 AND draft_kind = 'auto'
		ORDER BY updated_at DESC
		LIMIT 1;
	`
	draft, err := scanDraft(r.db.QueryRow(ctx, query, creatorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find auto draft for user %s: %w", creatorID, err)
	}
	return &draft, nil
}

func (r *PgxDraftRepository) CountManualDrafts(ctx context.Context, creatorID string) (int64, error) {
	query := `SELECT COUNT(*) FROM purchase_order_drafts WHERE creator_id = $1 AND draft_kind = 'manual';`
	var count int64
	if err := r.db.QueryRow(ctx, query, creatorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count drafts for user %s: %w", creatorID, err)
	}
	return count, nil
}

func (r *PgxDraftRepository) DeleteDraft(ctx context.Context, creatorID, draftID string) (bool, error) {
	query := `DELETE FROM purchase_order_drafts WHERE creator_id = $1 AND draft_id = $2;`
	tag, err := r.db.Exec(ctx, query, creatorID, draftID)
	if err != nil {
		return false, fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgxDraftRepository) DeleteAllManualDrafts(ctx context.Context, creatorID string) error {
	query := `DELETE FROM purchase_order_drafts WHERE creator_id = $1 AND draft_kind = 'manual';`
	if _, err := r.db.Exec(ctx, query, creatorID); err != nil {
		return fmt.Errorf("failed to delete drafts for user %s: %w", creatorID, err)
	}
	return nil
}

func (r *PgxDraftRepository) DeleteAutoDraft(ctx context.Context, creatorID string) error {
	query := `DELETE FROM purchase_order_drafts WHERE creator_id = $1 AND draft_kind = 'auto';`
	if _, err := r.db.Exec(ctx, query, creatorID); err != nil {
		return fmt.Errorf("failed to delete auto draft for user %s: %w", creatorID, err)
	}
	return nil
}
