package services

import (
	"context"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/edmart-systems/procurement_backend/internal/dto"
)

// PurchaseOrderReaderSvc defines read operations for purchase orders.
type PurchaseOrderReaderSvc interface {
	// GetPurchaseOrderByID retrieves a purchase order with its relations loaded.
	GetPurchaseOrderByID(ctx context.Context, poID string) (*domain.PurchaseOrder, error)

	// GetPaginatedPurchaseOrders retrieves a filtered page of purchase orders.
	GetPaginatedPurchaseOrders(ctx context.Context, params dto.ListPurchaseOrdersParams) (*dto.PaginatedPurchaseOrdersResponse, error)
}

// PurchaseOrderWriterSvc defines creation and editing of purchase orders.
type PurchaseOrderWriterSvc interface {
	// CreatePurchaseOrder persists a new order, builds its approval chain and notifies
	// the first approver.
	CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest, requesterID string) (*domain.PurchaseOrder, error)

	// UpdatePurchaseOrder replaces the details of a pending order. Only the requester
	// may edit, and only while the order is Pending. In-flight approvals are kept.
	UpdatePurchaseOrder(ctx context.Context, poID string, req dto.UpdatePurchaseOrderRequest, userID string) (*domain.PurchaseOrder, error)
}

// PurchaseOrderWorkflowSvc drives the approval state machine.
type PurchaseOrderWorkflowSvc interface {
	// ApprovePurchaseOrder records the caller's approval of their pending step.
	ApprovePurchaseOrder(ctx context.Context, poID, approverID, remarks string) (*dto.WorkflowActionResponse, error)

	// RejectPurchaseOrder records a rejection, moves the order to Rejected and cancels
	// all remaining pending steps.
	RejectPurchaseOrder(ctx context.Context, poID, approverID, remarks string) (*dto.WorkflowActionResponse, error)

	// IssuePurchaseOrder transitions an Approved order to Issued and dispatches the
	// supplier email with the generated PDF.
	IssuePurchaseOrder(ctx context.Context, poID, userID string) (*dto.WorkflowActionResponse, error)
}

// PurchaseOrderSvcFacade combines all purchase-order service interfaces.
type PurchaseOrderSvcFacade interface {
	PurchaseOrderReaderSvc
	PurchaseOrderWriterSvc
	PurchaseOrderWorkflowSvc
}

// ApprovalRequestEmail carries the data rendered into the approval-request email.
type ApprovalRequestEmail struct {
	PONumber      string
	RequesterName string
	SupplierName  string
	TotalAmount   string
	Currency      string
	ApproverName  string
	ApproverEmail string
}

// RejectionEmail carries the data rendered into the rejection email.
type RejectionEmail struct {
	PONumber       string
	RequesterName  string
	RequesterEmail string
	RejectedBy     string
	Remarks        string
}

// IssuedEmailItem is a single line rendered into the issued-to-supplier email.
type IssuedEmailItem struct {
	ProductName string
	Quantity    string
	UnitPrice   string
	TotalPrice  string
}

// IssuedEmail carries the data rendered into the issued-to-supplier email.
type IssuedEmail struct {
	PONumber         string
	SupplierName     string
	SupplierEmail    string
	TotalAmount      string
	Currency         string
	ExpectedDelivery string
	Items            []IssuedEmailItem
	PDFAttachment    []byte
}

// StatusUpdateEmail carries the data rendered into the generic status-update email.
type StatusUpdateEmail struct {
	PONumber       string
	RecipientName  string
	RecipientEmail string
	Status         string
	Message        string
}

// POEmailSender is the transactional email sink consumed by the workflow engine.
// Every method may fail; the engine logs and collects the failure as a warning,
// never an error.
type POEmailSender interface {
	SendApprovalRequestEmail(ctx context.Context, data ApprovalRequestEmail) error
	SendRejectionEmail(ctx context.Context, data RejectionEmail) error
	SendIssuedEmail(ctx context.Context, data IssuedEmail) error
	SendStatusUpdateEmail(ctx context.Context, data StatusUpdateEmail) error
}

// POPDFGenerator renders a purchase order into a PDF document. Used only at issuance.
type POPDFGenerator interface {
	GeneratePOPDF(po *domain.PurchaseOrder) ([]byte, error)
}
