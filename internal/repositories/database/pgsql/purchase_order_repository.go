package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	"github.com/edmart-systems/procurement_backend/internal/dto"
	"github.com/edmart-systems/procurement_backend/internal/models"
	"github.com/edmart-systems/procurement_backend/internal/utils/mapping"
)

type PgxPurchaseOrderRepository struct {
	BaseRepository
}

// newPgxPurchaseOrderRepository creates a new repository for purchase order data.
func newPgxPurchaseOrderRepository(pool *pgxpool.Pool) portsrepo.PurchaseOrderRepositoryWithTx {
	return &PgxPurchaseOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPurchaseOrderRepository implements portsrepo.PurchaseOrderRepositoryWithTx
var _ portsrepo.PurchaseOrderRepositoryWithTx = (*PgxPurchaseOrderRepository)(nil)

const poItemInsertQuery = `
	INSERT INTO purchase_order_items (po_item_id, po_id, product_id, description, quantity_ordered, unit_price, total_price, received_qty, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

const poTermsInsertQuery = `
	INSERT INTO po_terms_conditions (terms_id, po_id, validity_days, validity_words, payment_grace_days, payment_words, vat_percentage)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

// SavePurchaseOrder persists the order head, its line items and the optional terms
// block within one DB transaction. A po_number collision surfaces as ErrDuplicate so
// the service layer can recompute the number and retry.
func (r *PgxPurchaseOrderRepository) SavePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelPO := mapping.ToModelPurchaseOrder(po)
	headQuery := `
		INSERT INTO purchase_orders (
			po_id, po_number, supplier_id, requester_id, currency_id, status,
			total_amount, expected_delivery, remarks, approval_date, issued_date,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, headQuery,
		modelPO.POID,
		modelPO.PONumber,
		modelPO.SupplierID,
		modelPO.RequesterID,
		modelPO.CurrencyID,
		modelPO.Status,
		modelPO.TotalAmount,
		modelPO.ExpectedDelivery,
		modelPO.Remarks,
		modelPO.ApprovalDate,
		modelPO.IssuedDate,
		modelPO.CreatedAt,
		modelPO.CreatedBy,
		modelPO.LastUpdatedAt,
		modelPO.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("purchase order number %s already exists: %w", po.PONumber, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert purchase order "+modelPO.POID, err)
	}

	if err := insertItems(ctx, tx, po.POID, po.Items); err != nil {
		return err
	}

	if po.TermsConditions != nil {
		modelTerms := mapping.ToModelTermsConditions(*po.TermsConditions)
		_, err = tx.Exec(ctx, poTermsInsertQuery,
			modelTerms.TermsID,
			modelTerms.POID,
			modelTerms.ValidityDays,
			modelTerms.ValidityWords,
			modelTerms.PaymentGraceDays,
			modelTerms.PaymentWords,
			modelTerms.VatPercentage,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert terms for purchase order "+po.POID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// insertItems batch-inserts the line items of an order within the given transaction.
func insertItems(ctx context.Context, tx pgx.Tx, poID string, items []domain.PurchaseOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		modelItem := mapping.ToModelPurchaseOrderItem(item)
		batch.Queue(poItemInsertQuery,
			modelItem.POItemID,
			modelItem.POID,
			modelItem.ProductID,
			modelItem.Description,
			modelItem.QuantityOrdered,
			modelItem.UnitPrice,
			modelItem.TotalPrice,
			modelItem.ReceivedQty,
			modelItem.Status,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert line items for purchase order "+poID, err)
	}
	return nil
}

// ReplacePurchaseOrderDetails updates the order head and replaces all line items and
// the terms block within one DB transaction. Approval steps are not touched.
func (r *PgxPurchaseOrderRepository) ReplacePurchaseOrderDetails(ctx context.Context, po domain.PurchaseOrder) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelPO := mapping.ToModelPurchaseOrder(po)
	headQuery := `
		UPDATE purchase_orders
		SET supplier_id = $2, currency_id = $3, total_amount = $4, expected_delivery = $5,
		    remarks = $6, last_updated_at = $7, last_updated_by = $8
		WHERE po_id = $1;
	`
	tag, err := tx.Exec(ctx, headQuery,
		modelPO.POID,
		modelPO.SupplierID,
		modelPO.CurrencyID,
		modelPO.TotalAmount,
		modelPO.ExpectedDelivery,
		modelPO.Remarks,
		modelPO.LastUpdatedAt,
		modelPO.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update purchase order "+po.POID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_items WHERE po_id = $1;`, po.POID); err != nil {
		return apperrors.NewAppError(500, "failed to clear line items for purchase order "+po.POID, err)
	}
	if err := insertItems(ctx, tx, po.POID, po.Items); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM po_terms_conditions WHERE po_id = $1;`, po.POID); err != nil {
		return apperrors.NewAppError(500, "failed to clear terms for purchase order "+po.POID, err)
	}
	if po.TermsConditions != nil {
		modelTerms := mapping.ToModelTermsConditions(*po.TermsConditions)
		_, err = tx.Exec(ctx, poTermsInsertQuery,
			modelTerms.TermsID,
			modelTerms.POID,
			modelTerms.ValidityDays,
			modelTerms.ValidityWords,
			modelTerms.PaymentGraceDays,
			modelTerms.PaymentWords,
			modelTerms.VatPercentage,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert terms for purchase order "+po.POID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// UpdatePurchaseOrderStatus transitions the order status. A nil timestamp leaves the
// corresponding column unchanged.
func (r *PgxPurchaseOrderRepository) UpdatePurchaseOrderStatus(ctx context.Context, poID string, status domain.POStatus, approvalDate, issuedDate *time.Time, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE purchase_orders
		SET status = $2,
		    approval_date = COALESCE($3, approval_date),
		    issued_date = COALESCE($4, issued_date),
		    last_updated_by = $5,
		    last_updated_at = $6
		WHERE po_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, poID, string(status), approvalDate, issuedDate, updatedBy, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of purchase order "+poID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPurchaseOrderByID retrieves the order head with display references, then its
// line items, approval steps and terms block.
func (r *PgxPurchaseOrderRepository) FindPurchaseOrderByID(ctx context.Context, poID string) (*domain.PurchaseOrder, error) {
	headQuery := `
		SELECT po.po_id, po.po_number, po.supplier_id, po.requester_id, po.currency_id, po.status,
		       po.total_amount, po.expected_delivery, po.remarks, po.approval_date, po.issued_date,
		       po.created_at, po.created_by, po.last_updated_at, po.last_updated_by,
		       s.name, s.email, s.phone,
		       u.first_name, u.last_name, u.email,
		       c.code, c.name
		FROM purchase_orders po
		JOIN suppliers s ON s.supplier_id = po.supplier_id
		JOIN users u ON u.user_id = po.requester_id
		JOIN currencies c ON c.currency_id = po.currency_id
		WHERE po.po_id = $1;
	`
	var modelPO models.PurchaseOrder
	var supplier domain.Supplier
	var requester domain.User
	var currency domain.Currency

	err := r.Pool.QueryRow(ctx, headQuery, poID).Scan(
		&modelPO.POID,
		&modelPO.PONumber,
		&modelPO.SupplierID,
		&modelPO.RequesterID,
		&modelPO.CurrencyID,
		&modelPO.Status,
		&modelPO.TotalAmount,
		&modelPO.ExpectedDelivery,
		&modelPO.Remarks,
		&modelPO.ApprovalDate,
		&modelPO.IssuedDate,
		&modelPO.CreatedAt,
		&modelPO.CreatedBy,
		&modelPO.LastUpdatedAt,
		&modelPO.LastUpdatedBy,
		&supplier.Name,
		&supplier.Email,
		&supplier.Phone,
		&requester.FirstName,
		&requester.LastName,
		&requester.Email,
		&currency.Code,
		&currency.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase order by ID %s: %w", poID, err)
	}

	po := mapping.ToDomainPurchaseOrder(modelPO)
	supplier.SupplierID = po.SupplierID
	requester.UserID = po.RequesterID
	currency.CurrencyID = po.CurrencyID
	po.Supplier = &supplier
	po.Requester = &requester
	po.Currency = &currency

	items, err := r.findItemsByPOID(ctx, poID)
	if err != nil {
		return nil, err
	}
	po.Items = items

	approvals, err := r.FindApprovalsByPOID(ctx, poID)
	if err != nil {
		return nil, err
	}
	po.Approvals = approvals

	terms, err := r.findTermsByPOID(ctx, poID)
	if err != nil {
		return nil, err
	}
	po.TermsConditions = terms

	return &po, nil
}

func (r *PgxPurchaseOrderRepository) findItemsByPOID(ctx context.Context, poID string) ([]domain.PurchaseOrderItem, error) {
	query := `
		SELECT i.po_item_id, i.po_id, i.product_id, i.description, i.quantity_ordered,
		       i.unit_price, i.total_price, i.received_qty, i.status, p.name
		FROM purchase_order_items i
		LEFT JOIN products p ON p.product_id = i.product_id
		WHERE i.po_id = $1
		ORDER BY i.po_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for purchase order %s: %w", poID, err)
	}
	defer rows.Close()

	var items []domain.PurchaseOrderItem
	for rows.Next() {
		var modelItem models.PurchaseOrderItem
		var productName *string
		if err := rows.Scan(
			&modelItem.POItemID,
			&modelItem.POID,
			&modelItem.ProductID,
			&modelItem.Description,
			&modelItem.QuantityOrdered,
			&modelItem.UnitPrice,
			&modelItem.TotalPrice,
			&modelItem.ReceivedQty,
			&modelItem.Status,
			&productName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		item := mapping.ToDomainPurchaseOrderItem(modelItem)
		if productName != nil {
			item.Product = &domain.Product{ProductID: item.ProductID, Name: *productName}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PgxPurchaseOrderRepository) findTermsByPOID(ctx context.Context, poID string) (*domain.TermsConditions, error) {
	query := `
		SELECT terms_id, po_id, validity_days, validity_words, payment_grace_days, payment_words, vat_percentage
		FROM po_terms_conditions
		WHERE po_id = $1;
	`
	var modelTerms models.TermsConditions
	err := r.Pool.QueryRow(ctx, query, poID).Scan(
		&modelTerms.TermsID,
		&modelTerms.POID,
		&modelTerms.ValidityDays,
		&modelTerms.ValidityWords,
		&modelTerms.PaymentGraceDays,
		&modelTerms.PaymentWords,
		&modelTerms.VatPercentage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query terms for purchase order %s: %w", poID, err)
	}
	terms := mapping.ToDomainTermsConditions(modelTerms)
	return &terms, nil
}

// ListPurchaseOrders retrieves a filtered page plus the total match count. Non-admin
// callers only see orders they requested or appear on as an approver.
func (r *PgxPurchaseOrderRepository) ListPurchaseOrders(ctx context.Context, params dto.ListPurchaseOrdersParams) ([]domain.PurchaseOrder, int64, error) {
	var conditions []string
	var args []interface{}

	addArg := func(value interface{}) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if !params.IsAdmin {
		userPh := addArg(params.UserID)
		conditions = append(conditions, fmt.Sprintf(
			"(po.requester_id = %s OR EXISTS (SELECT 1 FROM po_approvals pa WHERE pa.po_id = po.po_id AND pa.approver_id = %s))",
			userPh, userPh))
	}
	if params.Filter.Status != "" {
		conditions = append(conditions, "po.status = "+addArg(params.Filter.Status))
	}
	if params.Filter.SupplierID != "" {
		conditions = append(conditions, "po.supplier_id = "+addArg(params.Filter.SupplierID))
	}
	if params.Filter.RequesterID != "" {
		conditions = append(conditions, "po.requester_id = "+addArg(params.Filter.RequesterID))
	}
	if params.Filter.DateFrom != nil {
		conditions = append(conditions, "po.created_at >= "+addArg(*params.Filter.DateFrom))
	}
	if params.Filter.DateTo != nil {
		conditions = append(conditions, "po.created_at < "+addArg(params.Filter.DateTo.AddDate(0, 0, 1)))
	}
	if params.Filter.Search != "" {
		searchPh := addArg("%" + params.Filter.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(po.po_number ILIKE %s OR po.remarks ILIKE %s)", searchPh, searchPh))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM purchase_orders po " + whereClause + ";"
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	limitPh := addArg(params.Limit)
	offsetPh := addArg((params.Page - 1) * params.Limit)
	listQuery := `
		SELECT po.po_id, po.po_number, po.supplier_id, po.requester_id, po.currency_id, po.status,
		       po.total_amount, po.expected_delivery, po.remarks, po.approval_date, po.issued_date,
		       po.created_at, po.created_by, po.last_updated_at, po.last_updated_by,
		       s.name, u.first_name, u.last_name, c.code
		FROM purchase_orders po
		JOIN suppliers s ON s.supplier_id = po.supplier_id
		JOIN users u ON u.user_id = po.requester_id
		JOIN currencies c ON c.currency_id = po.currency_id
		` + whereClause + `
		ORDER BY po.created_at DESC, po.po_id DESC
		LIMIT ` + limitPh + ` OFFSET ` + offsetPh + `;`

	rows, err := r.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	var pos []domain.PurchaseOrder
	for rows.Next() {
		var modelPO models.PurchaseOrder
		var supplierName, firstName, lastName, currencyCode string
		if err := rows.Scan(
			&modelPO.POID,
			&modelPO.PONumber,
			&modelPO.SupplierID,
			&modelPO.RequesterID,
			&modelPO.CurrencyID,
			&modelPO.Status,
			&modelPO.TotalAmount,
			&modelPO.ExpectedDelivery,
			&modelPO.Remarks,
			&modelPO.ApprovalDate,
			&modelPO.IssuedDate,
			&modelPO.CreatedAt,
			&modelPO.CreatedBy,
			&modelPO.LastUpdatedAt,
			&modelPO.LastUpdatedBy,
			&supplierName,
			&firstName,
			&lastName,
			&currencyCode,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase order row: %w", err)
		}
		po := mapping.ToDomainPurchaseOrder(modelPO)
		po.Supplier = &domain.Supplier{SupplierID: po.SupplierID, Name: supplierName}
		po.Requester = &domain.User{UserID: po.RequesterID, FirstName: firstName, LastName: lastName}
		po.Currency = &domain.Currency{CurrencyID: po.CurrencyID, Code: currencyCode}
		pos = append(pos, po)
	}
	return pos, total, rows.Err()
}

// CountCreatedBetween counts purchase orders created in [from, to).
func (r *PgxPurchaseOrderRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM purchase_orders WHERE created_at >= $1 AND created_at < $2;`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count purchase orders between %s and %s: %w", from, to, err)
	}
	return count, nil
}

// FindPendingApprovalForUser retrieves the Pending step of the order assigned to the
// user, or ErrNotFound.
func (r *PgxPurchaseOrderRepository) FindPendingApprovalForUser(ctx context.Context, poID, approverID string) (*domain.POApproval, error) {
	query := `
		SELECT approval_id, po_id, approver_id, level, status, remarks, approved_at
		FROM po_approvals
		WHERE po_id = $1 AND approver_id = $2 AND status = 'Pending';
	`
	var modelApproval models.POApproval
	err := r.Pool.QueryRow(ctx, query, poID, approverID).Scan(
		&modelApproval.ApprovalID,
		&modelApproval.POID,
		&modelApproval.ApproverID,
		&modelApproval.Level,
		&modelApproval.Status,
		&modelApproval.Remarks,
		&modelApproval.ApprovedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending approval for user %s on purchase order %s: %w", approverID, poID, err)
	}
	approval := mapping.ToDomainPOApproval(modelApproval)
	return &approval, nil
}

// FindApprovalsByPOID retrieves every approval step of the order, ordered by level,
// with approver display data loaded.
func (r *PgxPurchaseOrderRepository) FindApprovalsByPOID(ctx context.Context, poID string) ([]domain.POApproval, error) {
	query := `
		SELECT a.approval_id, a.po_id, a.approver_id, a.level, a.status, a.remarks, a.approved_at,
		       u.first_name, u.last_name, u.email
		FROM po_approvals a
		JOIN users u ON u.user_id = a.approver_id
		WHERE a.po_id = $1
		ORDER BY a.level;
	`
	rows, err := r.Pool.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval steps for purchase order %s: %w", poID, err)
	}
	defer rows.Close()

	var approvals []domain.POApproval
	for rows.Next() {
		var modelApproval models.POApproval
		var approver domain.User
		if err := rows.Scan(
			&modelApproval.ApprovalID,
			&modelApproval.POID,
			&modelApproval.ApproverID,
			&modelApproval.Level,
			&modelApproval.Status,
			&modelApproval.Remarks,
			&modelApproval.ApprovedAt,
			&approver.FirstName,
			&approver.LastName,
			&approver.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval step: %w", err)
		}
		approval := mapping.ToDomainPOApproval(modelApproval)
		approver.UserID = approval.ApproverID
		approval.Approver = &approver
		approvals = append(approvals, approval)
	}
	return approvals, rows.Err()
}

// CreateApprovalSteps batch-inserts the resolved chain as Pending steps.
func (r *PgxPurchaseOrderRepository) CreateApprovalSteps(ctx context.Context, poID string, approvers []domain.ResolvedApprover) error {
	if len(approvers) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO po_approvals (approval_id, po_id, approver_id, level, status)
		VALUES ($1, $2, $3, $4, 'Pending');
	`
	for _, approver := range approvers {
		batch.Queue(query, uuid.NewString(), poID, approver.UserID, approver.Level)
	}
	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert approval steps for purchase order "+poID, err)
	}
	return nil
}

// UpdateApprovalStatus drives a single step out of Pending, stamping approved_at when
// the new status is Approved.
func (r *PgxPurchaseOrderRepository) UpdateApprovalStatus(ctx context.Context, approvalID string, status domain.ApprovalStatus, remarks string) error {
	query := `
		UPDATE po_approvals
		SET status = $2,
		    remarks = $3,
		    approved_at = CASE WHEN $2 = 'Approved' THEN NOW() ELSE approved_at END
		WHERE approval_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, approvalID, string(status), remarks)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update approval step "+approvalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CancelPendingApprovals sets every step of the order still Pending to Cancelled.
// Affecting zero rows is fine: the rejecting step may have been the only Pending one.
func (r *PgxPurchaseOrderRepository) CancelPendingApprovals(ctx context.Context, poID string) error {
	query := `UPDATE po_approvals SET status = 'Cancelled' WHERE po_id = $1 AND status = 'Pending';`
	if _, err := r.Pool.Exec(ctx, query, poID); err != nil {
		return apperrors.NewAppError(500, "failed to cancel pending approval steps for purchase order "+poID, err)
	}
	return nil
}
