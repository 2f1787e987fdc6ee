package dto

import (
	"time"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest is a single line of a create or update request. The line
// total is recomputed server-side; a caller-supplied value is ignored.
type PurchaseOrderItemRequest struct {
	ProductID       string          `json:"productID" binding:"required"`
	Description     string          `json:"description"`
	QuantityOrdered decimal.Decimal `json:"quantityOrdered" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unitPrice" binding:"required"`
}

// TermsConditionsRequest is the optional terms block of a create or update request.
type TermsConditionsRequest struct {
	ValidityDays     int              `json:"validityDays" binding:"required"`
	ValidityWords    string           `json:"validityWords"`
	PaymentGraceDays int              `json:"paymentGraceDays"`
	PaymentWords     string           `json:"paymentWords"`
	VatPercentage    *decimal.Decimal `json:"vatPercentage"`
}

// CreatePurchaseOrderRequest is the payload for creating a purchase order.
type CreatePurchaseOrderRequest struct {
	SupplierID       string                     `json:"supplierID" binding:"required"`
	CurrencyID       string                     `json:"currencyID" binding:"required"`
	ExpectedDelivery *time.Time                 `json:"expectedDelivery"`
	Remarks          string                     `json:"remarks"`
	Items            []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TermsConditions  *TermsConditionsRequest    `json:"termsConditions"`
}

// UpdatePurchaseOrderRequest replaces the details of a pending order. Line items and
// the terms block follow replace-on-update semantics.
type UpdatePurchaseOrderRequest struct {
	SupplierID       string                     `json:"supplierID" binding:"required"`
	CurrencyID       string                     `json:"currencyID" binding:"required"`
	ExpectedDelivery *time.Time                 `json:"expectedDelivery"`
	Remarks          string                     `json:"remarks"`
	Items            []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TermsConditions  *TermsConditionsRequest    `json:"termsConditions"`
}

// ApprovalActionRequest carries the optional remarks of an approve or reject
// decision. The purchase order is identified by the route.
type ApprovalActionRequest struct {
	Remarks string `json:"remarks"`
}

// WorkflowActionResponse is the result of an approve, reject or issue operation.
// Warnings list side effects (notifications, emails, PDF) that failed; they never
// fail the operation itself.
type WorkflowActionResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

// PurchaseOrderFilter narrows a purchase order listing.
type PurchaseOrderFilter struct {
	Status      string     `form:"status"`
	SupplierID  string     `form:"supplierID"`
	RequesterID string     `form:"requesterID"`
	DateFrom    *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo      *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Search      string     `form:"search"`
}

// ListPurchaseOrdersParams holds parameters for listing purchase orders.
type ListPurchaseOrdersParams struct {
	Page    int
	Limit   int
	Filter  PurchaseOrderFilter
	UserID  string
	IsAdmin bool
}

// PurchaseOrderResponse is the listing/detail projection of a purchase order.
type PurchaseOrderResponse struct {
	POID             string                     `json:"poID"`
	PONumber         string                     `json:"poNumber"`
	Status           string                     `json:"status"`
	TotalAmount      decimal.Decimal            `json:"totalAmount"`
	ExpectedDelivery *time.Time                 `json:"expectedDelivery,omitempty"`
	Remarks          string                     `json:"remarks,omitempty"`
	ApprovalDate     *time.Time                 `json:"approvalDate,omitempty"`
	IssuedDate       *time.Time                 `json:"issuedDate,omitempty"`
	CreatedAt        time.Time                  `json:"createdAt"`
	SupplierID       string                     `json:"supplierID"`
	SupplierName     string                     `json:"supplierName,omitempty"`
	RequesterID      string                     `json:"requesterID"`
	RequesterName    string                     `json:"requesterName,omitempty"`
	CurrencyCode     string                     `json:"currencyCode,omitempty"`
	Items            []domain.PurchaseOrderItem `json:"items,omitempty"`
	Approvals        []domain.POApproval        `json:"approvals,omitempty"`
	TermsConditions  *domain.TermsConditions    `json:"termsConditions,omitempty"`
}

// PaginatedPurchaseOrdersResponse is a page of purchase orders plus paging metadata.
type PaginatedPurchaseOrdersResponse struct {
	Data       []PurchaseOrderResponse `json:"data"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"totalPages"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to its response DTO.
func ToPurchaseOrderResponse(po *domain.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		POID:             po.POID,
		PONumber:         po.PONumber,
		Status:           string(po.Status),
		TotalAmount:      po.TotalAmount,
		ExpectedDelivery: po.ExpectedDelivery,
		Remarks:          po.Remarks,
		ApprovalDate:     po.ApprovalDate,
		IssuedDate:       po.IssuedDate,
		CreatedAt:        po.CreatedAt,
		SupplierID:       po.SupplierID,
		RequesterID:      po.RequesterID,
		Items:            po.Items,
		Approvals:        po.Approvals,
		TermsConditions:  po.TermsConditions,
	}
	if po.Supplier != nil {
		resp.SupplierName = po.Supplier.Name
	}
	if po.Requester != nil {
		resp.RequesterName = po.Requester.FullName()
	}
	if po.Currency != nil {
		resp.CurrencyCode = po.Currency.Code
	}
	return resp
}

// ToPurchaseOrderResponses converts a slice of domain purchase orders.
func ToPurchaseOrderResponses(pos []domain.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(pos))
	for i := range pos {
		responses[i] = ToPurchaseOrderResponse(&pos[i])
	}
	return responses
}
