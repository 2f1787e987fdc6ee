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

var (
	ErrNoPendingApproval = errors.New("no pending approval found for user")
	ErrNotApproved       = errors.New("PO must be approved before issuing")
	ErrNotPendingEdit    = errors.New("only pending POs can be edited")
	ErrNotRequesterEdit  = errors.New("only the requester can edit the PO")
	ErrPONumberExhausted = errors.New("could not allocate a unique PO number")
)

// purchaseOrderService owns the purchase order approval state machine: creation,
// per-step approve/reject, full-approval detection and issuance. Side effects
// (notifications, emails, the issuance PDF) are best-effort; their failures are
// logged and collected as warnings, never surfaced as operation errors.
type purchaseOrderService struct {
	poRepo    portsrepo.PurchaseOrderRepositoryWithTx
	userRepo  portsrepo.UserReader
	notifRepo portsrepo.NotificationRepository
	email     portssvc.POEmailSender
	pdf       portssvc.POPDFGenerator
	resolver  *ApprovalChainResolver
}

// NewPurchaseOrderService creates a new purchase order service.
func NewPurchaseOrderService(
	poRepo portsrepo.PurchaseOrderRepositoryWithTx,
	userRepo portsrepo.UserReader,
	notifRepo portsrepo.NotificationRepository,
	email portssvc.POEmailSender,
	pdf portssvc.POPDFGenerator,
	resolver *ApprovalChainResolver,
) portssvc.PurchaseOrderSvcFacade {
	return &purchaseOrderService{
		poRepo:    poRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		email:     email,
		pdf:       pdf,
		resolver:  resolver,
	}
}

// Ensure purchaseOrderService implements the facade interface
var _ portssvc.PurchaseOrderSvcFacade = (*purchaseOrderService)(nil)

// buildItems converts request lines into domain line items, recomputing every line
// total as quantity * unit price. The caller-supplied totals are never trusted.
func (s *purchaseOrderService) buildItems(poID string, reqItems []dto.PurchaseOrderItemRequest) ([]domain.PurchaseOrderItem, decimal.Decimal, error) {
	items := make([]domain.PurchaseOrderItem, len(reqItems))
	total := decimal.Zero

	for i, reqItem := range reqItems {
		if reqItem.QuantityOrdered.LessThanOrEqual(decimal.Zero) {
			return nil, decimal.Zero, fmt.Errorf("%w: quantity must be positive for product %s", apperrors.ErrValidation, reqItem.ProductID)
		}
		if reqItem.UnitPrice.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("%w: unit price must not be negative for product %s", apperrors.ErrValidation, reqItem.ProductID)
		}

		linePrice := reqItem.QuantityOrdered.Mul(reqItem.UnitPrice)
		items[i] = domain.PurchaseOrderItem{
			POItemID:        uuid.NewString(),
			POID:            poID,
			ProductID:       reqItem.ProductID,
			Description:     reqItem.Description,
			QuantityOrdered: reqItem.QuantityOrdered,
			UnitPrice:       reqItem.UnitPrice,
			TotalPrice:      linePrice,
			ReceivedQty:     decimal.Zero,
			Status:          domain.POItemStatusPending,
		}
		total = total.Add(linePrice)
	}

	return items, total, nil
}

// buildTerms converts an optional terms request into the owned terms block.
func buildTerms(poID string, req *dto.TermsConditionsRequest) *domain.TermsConditions {
	if req == nil {
		return nil
	}
	vat := decimal.NewFromInt(18) // default VAT percentage
	if req.VatPercentage != nil {
		vat = *req.VatPercentage
	}
	return &domain.TermsConditions{
		TermsID:          uuid.NewString(),
		POID:             poID,
		ValidityDays:     req.ValidityDays,
		ValidityWords:    req.ValidityWords,
		PaymentGraceDays: req.PaymentGraceDays,
		PaymentWords:     req.PaymentWords,
		VatPercentage:    vat,
	}
}

// nextPONumber formats the next human-readable number for the given instant:
// PO-YYMM-NNN, where NNN is the count of orders already created this calendar month
// plus one. The count-based policy is kept from the original system; the po_number
// unique constraint plus the retry in CreatePurchaseOrder covers the creation race.
func (s *purchaseOrderService) nextPONumber(ctx context.Context, now time.Time) (string, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	count, err := s.poRepo.CountCreatedBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return "", fmt.Errorf("failed to count purchase orders for numbering: %w", err)
	}

	return fmt.Sprintf("PO-%02d%02d-%03d", now.Year()%100, int(now.Month()), count+1), nil
}

// CreatePurchaseOrder persists a new order with its recomputed total, builds the
// approval chain and notifies the first approver.
func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest, requesterID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: a purchase order needs at least one line item", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	poID := uuid.NewString()

	items, total, err := s.buildItems(poID, req.Items)
	if err != nil {
		return nil, err
	}

	po := domain.PurchaseOrder{
		POID:             poID,
		SupplierID:       req.SupplierID,
		RequesterID:      requesterID,
		CurrencyID:       req.CurrencyID,
		Status:           domain.POStatusPending,
		TotalAmount:      total,
		ExpectedDelivery: req.ExpectedDelivery,
		Remarks:          req.Remarks,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterID,
		},
		Items:           items,
		TermsConditions: buildTerms(poID, req.TermsConditions),
	}

	// The month count can race with a concurrent creation; the unique constraint on
	// po_number surfaces that as ErrDuplicate and we recompute.
	saved := false
	for attempt := 0; attempt < 3; attempt++ {
		number, err := s.nextPONumber(ctx, now)
		if err != nil {
			return nil, err
		}
		po.PONumber = number

		if err := s.poRepo.SavePurchaseOrder(ctx, po); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				logger.Warn("PO number collision, retrying", slog.String("po_number", number))
				continue
			}
			logger.Error("Failed to save purchase order", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to save purchase order: %w", err)
		}
		saved = true
		break
	}
	if !saved {
		return nil, ErrPONumberExhausted
	}

	approvers, err := s.resolver.ResolveApprovers(ctx)
	if err != nil {
		logger.Error("Failed to resolve approval chain", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, fmt.Errorf("failed to resolve approval chain: %w", err)
	}

	if len(approvers) > 0 {
		if err := s.poRepo.CreateApprovalSteps(ctx, poID, approvers); err != nil {
			logger.Error("Failed to create approval steps", slog.String("error", err.Error()), slog.String("po_id", poID))
			return nil, fmt.Errorf("failed to create approval steps: %w", err)
		}

		s.recordNotification(ctx, domain.Notification{
			Title:       "New Purchase Order for Approval",
			Message:     fmt.Sprintf("A new purchase order (%s) requires your approval.", po.PONumber),
			RecipientID: approvers[0].UserID,
			ActionData:  poID,
		}, nil)
	} else {
		// All chain roles are unstaffed: the order is created with zero approval
		// steps and nothing will ever move it past Pending. Kept from the original
		// system; flagged for product clarification.
		logger.Warn("Purchase order created with no approval steps", slog.String("po_id", poID), slog.String("po_number", po.PONumber))
	}

	created, err := s.poRepo.FindPurchaseOrderByID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created purchase order: %w", err)
	}

	logger.Info("Purchase order created", slog.String("po_id", poID), slog.String("po_number", po.PONumber), slog.Int("approval_steps", len(approvers)))
	return created, nil
}

// GetPurchaseOrderByID retrieves a purchase order with its relations loaded.
func (s *purchaseOrderService) GetPurchaseOrderByID(ctx context.Context, poID string) (*domain.PurchaseOrder, error) {
	po, err := s.poRepo.FindPurchaseOrderByID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase order %s: %w", poID, err)
	}
	return po, nil
}

// GetPaginatedPurchaseOrders retrieves a filtered page of purchase orders.
func (s *purchaseOrderService) GetPaginatedPurchaseOrders(ctx context.Context, params dto.ListPurchaseOrdersParams) (*dto.PaginatedPurchaseOrdersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	pos, total, err := s.poRepo.ListPurchaseOrders(ctx, params)
	if err != nil {
		logger.Error("Failed to list purchase orders", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	resp := &dto.PaginatedPurchaseOrdersResponse{
		Data:       dto.ToPurchaseOrderResponses(pos),
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}

	logger.Debug("Purchase orders listed", slog.Int("count", len(pos)), slog.Int64("total", total))
	return resp, nil
}

// ApprovePurchaseOrder records the caller's approval of their pending step. When the
// last step approves, the order itself becomes Approved; otherwise the next pending
// approver is notified in-app and by email.
func (s *purchaseOrderService) ApprovePurchaseOrder(ctx context.Context, poID, approverID, remarks string) (*dto.WorkflowActionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The pending-step lookup is the sole safeguard against double submission: a
	// step already driven out of Pending is simply not found again.
	step, err := s.poRepo.FindPendingApprovalForUser(ctx, poID, approverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoPendingApproval, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find pending approval: %w", err)
	}

	po, err := s.poRepo.FindPurchaseOrderByID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase order %s: %w", poID, err)
	}

	if err := s.poRepo.UpdateApprovalStatus(ctx, step.ApprovalID, domain.ApprovalStatusApproved, remarks); err != nil {
		logger.Error("Failed to update approval status", slog.String("error", err.Error()), slog.String("approval_id", step.ApprovalID))
		return nil, fmt.Errorf("failed to update approval status: %w", err)
	}

	allApprovals, err := s.poRepo.FindApprovalsByPOID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval steps: %w", err)
	}

	allApproved := true
	for _, a := range allApprovals {
		if a.Status != domain.ApprovalStatusApproved {
			allApproved = false
			break
		}
	}

	var warnings []string
	now := time.Now().UTC()

	if allApproved {
		if err := s.poRepo.UpdatePurchaseOrderStatus(ctx, poID, domain.POStatusApproved, &now, nil, approverID, now); err != nil {
			logger.Error("Failed to mark purchase order approved", slog.String("error", err.Error()), slog.String("po_id", poID))
			return nil, fmt.Errorf("failed to mark purchase order approved: %w", err)
		}
		s.notifyProcurementTeam(ctx, po, &warnings)
		s.sendStatusUpdateToRequester(ctx, po, domain.POStatusApproved, &warnings)
		logger.Info("Purchase order fully approved", slog.String("po_id", poID), slog.String("po_number", po.PONumber))
	} else {
		s.notifyNextApprover(ctx, po, allApprovals, &warnings)
	}

	return &dto.WorkflowActionResponse{
		Success:  true,
		Message:  "Purchase Order approved successfully",
		Warnings: warnings,
	}, nil
}

// notifyProcurementTeam tells the procurement role holder the order is ready to issue.
func (s *purchaseOrderService) notifyProcurementTeam(ctx context.Context, po *domain.PurchaseOrder, warnings *[]string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lastRole, ok := s.resolver.LastRole()
	if !ok {
		s.warn(ctx, warnings, "no procurement role configured; full-approval notification skipped")
		return
	}

	recipient, err := s.resolver.ResolveRoleHolder(ctx, lastRole)
	if err != nil {
		logger.Warn("Could not resolve procurement recipient", slog.String("error", err.Error()))
		s.warn(ctx, warnings, "procurement role has no active holder; full-approval notification skipped")
		return
	}

	s.recordNotification(ctx, domain.Notification{
		Title:       "Purchase Order Fully Approved",
		Message:     fmt.Sprintf("Purchase order (%s) has been fully approved and is ready for issuance.", po.PONumber),
		RecipientID: recipient.UserID,
		ActionData:  po.POID,
	}, warnings)
}

// notifyNextApprover notifies the lowest-level step still pending, in-app and by email.
func (s *purchaseOrderService) notifyNextApprover(ctx context.Context, po *domain.PurchaseOrder, approvals []domain.POApproval, warnings *[]string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var next *domain.POApproval
	for i := range approvals {
		if approvals[i].Status == domain.ApprovalStatusPending {
			next = &approvals[i]
			break
		}
	}
	if next == nil {
		return
	}

	s.recordNotification(ctx, domain.Notification{
		Title:       "Purchase Order Approval Required",
		Message:     fmt.Sprintf("Purchase order (%s) has been approved by the previous approver and now requires your approval.", po.PONumber),
		RecipientID: next.ApproverID,
		ActionData:  po.POID,
	}, warnings)

	approver, err := s.userRepo.FindUserByID(ctx, next.ApproverID)
	if err != nil {
		logger.Warn("Could not load next approver for email", slog.String("error", err.Error()), slog.String("approver_id", next.ApproverID))
		s.warn(ctx, warnings, "approval request email skipped: next approver could not be loaded")
		return
	}
	if approver.Email == "" {
		s.warn(ctx, warnings, "approval request email skipped: next approver has no email address")
		return
	}

	data := portssvc.ApprovalRequestEmail{
		PONumber:      po.PONumber,
		TotalAmount:   po.TotalAmount.StringFixed(2),
		ApproverName:  approver.FullName(),
		ApproverEmail: approver.Email,
	}
	if po.Requester != nil {
		data.RequesterName = po.Requester.FullName()
	}
	if po.Supplier != nil {
		data.SupplierName = po.Supplier.Name
	}
	if po.Currency != nil {
		data.Currency = po.Currency.Code
	}

	if err := s.email.SendApprovalRequestEmail(ctx, data); err != nil {
		logger.Error("Failed to send approval request email", slog.String("error", err.Error()), slog.String("po_id", po.POID))
		s.warn(ctx, warnings, "approval request email delivery failed")
	}
}

// sendStatusUpdateToRequester emails the requester that their order changed status.
func (s *purchaseOrderService) sendStatusUpdateToRequester(ctx context.Context, po *domain.PurchaseOrder, status domain.POStatus, warnings *[]string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if po.Requester == nil || po.Requester.Email == "" {
		s.warn(ctx, warnings, "status update email skipped: requester has no email address")
		return
	}

	data := portssvc.StatusUpdateEmail{
		PONumber:       po.PONumber,
		RecipientName:  po.Requester.FullName(),
		RecipientEmail: po.Requester.Email,
		Status:         string(status),
		Message:        fmt.Sprintf("Your purchase order (%s) is now %s.", po.PONumber, status),
	}
	if err := s.email.SendStatusUpdateEmail(ctx, data); err != nil {
		logger.Error("Failed to send status update email", slog.String("error", err.Error()), slog.String("po_id", po.POID))
		s.warn(ctx, warnings, "status update email delivery failed")
	}
}

// RejectPurchaseOrder records a rejection: the step becomes Rejected, the order moves
// to Rejected and every other step still Pending is cancelled. Steps already Approved
// keep their history.
func (s *purchaseOrderService) RejectPurchaseOrder(ctx context.Context, poID, approverID, remarks string) (*dto.WorkflowActionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	step, err := s.poRepo.FindPendingApprovalForUser(ctx, poID, approverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoPendingApproval, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find pending approval: %w", err)
	}

	rejectorName := "Approver"
	if rejector, err := s.userRepo.FindUserByID(ctx, approverID); err == nil {
		rejectorName = rejector.FullName()
	}

	if err := s.poRepo.UpdateApprovalStatus(ctx, step.ApprovalID, domain.ApprovalStatusRejected, remarks); err != nil {
		logger.Error("Failed to update approval status", slog.String("error", err.Error()), slog.String("approval_id", step.ApprovalID))
		return nil, fmt.Errorf("failed to update approval status: %w", err)
	}

	now := time.Now().UTC()
	if err := s.poRepo.UpdatePurchaseOrderStatus(ctx, poID, domain.POStatusRejected, nil, nil, approverID, now); err != nil {
		logger.Error("Failed to mark purchase order rejected", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, fmt.Errorf("failed to mark purchase order rejected: %w", err)
	}

	if err := s.poRepo.CancelPendingApprovals(ctx, poID); err != nil {
		logger.Error("Failed to cancel remaining approval steps", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, fmt.Errorf("failed to cancel remaining approval steps: %w", err)
	}

	var warnings []string
	po, err := s.poRepo.FindPurchaseOrderByID(ctx, poID)
	if err != nil {
		logger.Warn("Could not reload purchase order for rejection notices", slog.String("error", err.Error()), slog.String("po_id", poID))
		s.warn(ctx, &warnings, "rejection notifications skipped: purchase order could not be reloaded")
	} else {
		s.recordNotification(ctx, domain.Notification{
			Title:       "Purchase Order Rejected",
			Message:     fmt.Sprintf("Your purchase order (%s) has been rejected.", po.PONumber),
			RecipientID: po.RequesterID,
			ActionData:  po.POID,
		}, &warnings)

		if po.Requester != nil && po.Requester.Email != "" {
			emailData := portssvc.RejectionEmail{
				PONumber:       po.PONumber,
				RequesterName:  po.Requester.FullName(),
				RequesterEmail: po.Requester.Email,
				RejectedBy:     rejectorName,
				Remarks:        remarks,
			}
			if err := s.email.SendRejectionEmail(ctx, emailData); err != nil {
				logger.Error("Failed to send rejection email", slog.String("error", err.Error()), slog.String("po_id", poID))
				s.warn(ctx, &warnings, "rejection email delivery failed")
			}
		}
	}

	logger.Info("Purchase order rejected", slog.String("po_id", poID), slog.String("rejected_by", approverID))
	return &dto.WorkflowActionResponse{
		Success:  true,
		Message:  "Purchase Order rejected successfully",
		Warnings: warnings,
	}, nil
}

// IssuePurchaseOrder transitions an Approved order to Issued. The status write is the
// unit of success; the PDF and the supplier email run after it and can only produce
// warnings.
func (s *purchaseOrderService) IssuePurchaseOrder(ctx context.Context, poID, userID string) (*dto.WorkflowActionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	po, err := s.poRepo.FindPurchaseOrderByID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase order %s: %w", poID, err)
	}

	if po.Status != domain.POStatusApproved {
		return nil, fmt.Errorf("%w: status is %s: %w", ErrNotApproved, po.Status, apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	if err := s.poRepo.UpdatePurchaseOrderStatus(ctx, poID, domain.POStatusIssued, nil, &now, userID, now); err != nil {
		logger.Error("Failed to mark purchase order issued", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, fmt.Errorf("failed to mark purchase order issued: %w", err)
	}

	var warnings []string

	notifications := []domain.Notification{{
		NotificationID: uuid.NewString(),
		Title:          "Purchase Order Issued",
		Message:        fmt.Sprintf("Your purchase order (%s) has been issued to the supplier.", po.PONumber),
		RecipientID:    po.RequesterID,
		ActionData:     po.POID,
		CreatedAt:      now,
	}}
	for _, approval := range po.Approvals {
		notifications = append(notifications, domain.Notification{
			NotificationID: uuid.NewString(),
			Title:          "Purchase Order Issued",
			Message:        fmt.Sprintf("Purchase order (%s) that you approved has been issued.", po.PONumber),
			RecipientID:    approval.ApproverID,
			ActionData:     po.POID,
			CreatedAt:      now,
		})
	}
	if err := s.notifRepo.SaveNotificationsBatch(ctx, notifications); err != nil {
		logger.Error("Failed to record issuance notifications", slog.String("error", err.Error()), slog.String("po_id", poID))
		s.warn(ctx, &warnings, "issuance notifications could not be recorded")
	}

	s.sendIssuedEmail(ctx, po, &warnings)

	logger.Info("Purchase order issued", slog.String("po_id", poID), slog.String("po_number", po.PONumber))
	return &dto.WorkflowActionResponse{
		Success:  true,
		Message:  "Purchase Order issued successfully",
		Warnings: warnings,
	}, nil
}

// sendIssuedEmail renders the PDF and emails it to the supplier. Runs strictly after
// the issuance status write; failures never roll it back.
func (s *purchaseOrderService) sendIssuedEmail(ctx context.Context, po *domain.PurchaseOrder, warnings *[]string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if po.Supplier == nil || po.Supplier.Email == "" {
		s.warn(ctx, warnings, "supplier email skipped: supplier has no email address")
		return
	}

	pdfBytes, err := s.pdf.GeneratePOPDF(po)
	if err != nil {
		logger.Error("Failed to generate purchase order PDF", slog.String("error", err.Error()), slog.String("po_id", po.POID))
		s.warn(ctx, warnings, "supplier email skipped: PDF generation failed")
		return
	}

	data := portssvc.IssuedEmail{
		PONumber:      po.PONumber,
		SupplierName:  po.Supplier.Name,
		SupplierEmail: po.Supplier.Email,
		TotalAmount:   po.TotalAmount.StringFixed(2),
		PDFAttachment: pdfBytes,
	}
	if po.Currency != nil {
		data.Currency = po.Currency.Code
	}
	if po.ExpectedDelivery != nil {
		data.ExpectedDelivery = po.ExpectedDelivery.Format("02 Jan 2006")
	}
	for _, item := range po.Items {
		line := portssvc.IssuedEmailItem{
			Quantity:   item.QuantityOrdered.String(),
			UnitPrice:  item.UnitPrice.StringFixed(2),
			TotalPrice: item.TotalPrice.StringFixed(2),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		data.Items = append(data.Items, line)
	}

	if err := s.email.SendIssuedEmail(ctx, data); err != nil {
		logger.Error("Failed to send issued email to supplier", slog.String("error", err.Error()), slog.String("po_id", po.POID))
		s.warn(ctx, warnings, "supplier email delivery failed")
	}
}

// UpdatePurchaseOrder replaces the details of a pending order: all line items and the
// terms block are replaced and the total recomputed. Approval steps already created
// are deliberately left untouched, so earlier approvals may have been given against
// different totals.
func (s *purchaseOrderService) UpdatePurchaseOrder(ctx context.Context, poID string, req dto.UpdatePurchaseOrderRequest, userID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	po, err := s.poRepo.FindPurchaseOrderByID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase order %s: %w", poID, err)
	}

	if po.Status != domain.POStatusPending {
		return nil, fmt.Errorf("%w: status is %s: %w", ErrNotPendingEdit, po.Status, apperrors.ErrConflict)
	}
	if po.RequesterID != userID {
		return nil, fmt.Errorf("%w: %w", ErrNotRequesterEdit, apperrors.ErrForbidden)
	}

	items, total, err := s.buildItems(poID, req.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := domain.PurchaseOrder{
		POID:             poID,
		PONumber:         po.PONumber,
		SupplierID:       req.SupplierID,
		RequesterID:      po.RequesterID,
		CurrencyID:       req.CurrencyID,
		Status:           po.Status,
		TotalAmount:      total,
		ExpectedDelivery: req.ExpectedDelivery,
		Remarks:          req.Remarks,
		AuditFields: domain.AuditFields{
			CreatedAt:     po.CreatedAt,
			CreatedBy:     po.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Items:           items,
		TermsConditions: buildTerms(poID, req.TermsConditions),
	}

	if err := s.poRepo.ReplacePurchaseOrderDetails(ctx, updated); err != nil {
		logger.Error("Failed to update purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, fmt.Errorf("failed to update purchase order: %w", err)
	}

	reloaded, err := s.poRepo.FindPurchaseOrderByID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated purchase order: %w", err)
	}

	logger.Info("Purchase order updated", slog.String("po_id", poID))
	return reloaded, nil
}

// recordNotification persists an in-app notification, logging and collecting a
// warning on failure instead of surfacing an error.
func (s *purchaseOrderService) recordNotification(ctx context.Context, n domain.Notification, warnings *[]string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := s.notifRepo.SaveNotification(ctx, n); err != nil {
		logger.Error("Failed to record notification", slog.String("error", err.Error()), slog.String("title", n.Title), slog.String("recipient_id", n.RecipientID))
		if warnings != nil {
			*warnings = append(*warnings, "in-app notification could not be recorded")
		}
	}
}

// warn appends a soft-failure message and logs it.
func (s *purchaseOrderService) warn(ctx context.Context, warnings *[]string, message string) {
	middleware.GetLoggerFromCtx(ctx).Warn(message)
	if warnings != nil {
		*warnings = append(*warnings, message)
	}
}
