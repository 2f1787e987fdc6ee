package repositories

import (
	"context"
	"time"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/edmart-systems/procurement_backend/internal/dto"
)

// PurchaseOrderReader defines read operations for purchase order data.
type PurchaseOrderReader interface {
	// FindPurchaseOrderByID retrieves a purchase order with its items, terms, approval
	// steps (ordered by level) and display references loaded.
	FindPurchaseOrderByID(ctx context.Context, poID string) (*domain.PurchaseOrder, error)

	// ListPurchaseOrders retrieves a page of purchase orders matching the filter, plus
	// the total match count. Non-admin callers only see orders they requested or approve.
	ListPurchaseOrders(ctx context.Context, params dto.ListPurchaseOrdersParams) ([]domain.PurchaseOrder, int64, error)

	// CountCreatedBetween counts purchase orders created in [from, to). Used by the
	// numbering authority to compute the next in-month sequence.
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// PurchaseOrderWriter defines write operations for purchase order data.
type PurchaseOrderWriter interface {
	// SavePurchaseOrder persists a purchase order with its line items and optional
	// terms block atomically.
	SavePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error

	// ReplacePurchaseOrderDetails replaces head fields, all line items and the terms
	// block of an existing order atomically. Approval steps are not touched.
	ReplacePurchaseOrderDetails(ctx context.Context, po domain.PurchaseOrder) error

	// UpdatePurchaseOrderStatus transitions the order status, optionally stamping the
	// approval or issuance timestamp.
	UpdatePurchaseOrderStatus(ctx context.Context, poID string, status domain.POStatus, approvalDate, issuedDate *time.Time, updatedBy string, updatedAt time.Time) error
}

// ApprovalReader defines read operations for approval step data.
type ApprovalReader interface {
	// FindPendingApprovalForUser retrieves the Pending step of the given order assigned
	// to the given user, or ErrNotFound. This is the sole guard against double submission.
	FindPendingApprovalForUser(ctx context.Context, poID, approverID string) (*domain.POApproval, error)

	// FindApprovalsByPOID retrieves every approval step of the order, ordered by level.
	FindApprovalsByPOID(ctx context.Context, poID string) ([]domain.POApproval, error)
}

// ApprovalWriter defines write operations for approval step data.
type ApprovalWriter interface {
	// CreateApprovalSteps batch-inserts the approval chain. Called once per order.
	CreateApprovalSteps(ctx context.Context, poID string, approvers []domain.ResolvedApprover) error

	// UpdateApprovalStatus drives a single step out of Pending, stamping approved_at
	// when the new status is Approved.
	UpdateApprovalStatus(ctx context.Context, approvalID string, status domain.ApprovalStatus, remarks string) error

	// CancelPendingApprovals sets every step of the order still Pending to Cancelled.
	CancelPendingApprovals(ctx context.Context, poID string) error
}

// PurchaseOrderRepositoryFacade combines all purchase-order repository interfaces.
type PurchaseOrderRepositoryFacade interface {
	PurchaseOrderReader
	PurchaseOrderWriter
	ApprovalReader
	ApprovalWriter
}

// PurchaseOrderRepositoryWithTx extends the facade with transaction capabilities.
type PurchaseOrderRepositoryWithTx interface {
	PurchaseOrderRepositoryFacade
	TransactionManager
}
