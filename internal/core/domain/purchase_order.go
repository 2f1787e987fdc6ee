package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus indicates the lifecycle state of a purchase order.
// Pending -> Approved -> Issued, or Pending -> Rejected (terminal).
// Cancelled is reserved for an explicit cancellation path.
type POStatus string

const (
	POStatusPending   POStatus = "Pending"
	POStatusApproved  POStatus = "Approved"
	POStatusRejected  POStatus = "Rejected"
	POStatusIssued    POStatus = "Issued"
	POStatusCancelled POStatus = "Cancelled"
)

// POItemStatus indicates the receiving state of a single line item.
type POItemStatus string

const (
	POItemStatusPending  POItemStatus = "Pending"
	POItemStatusReceived POItemStatus = "Received"
)

// PurchaseOrder is the aggregate root of the approval workflow. Line items, the
// optional terms block and the approval steps have no lifecycle of their own:
// they are created and replaced together with the order.
type PurchaseOrder struct {
	POID             string          `json:"poID"` // Primary key (UUID)
	PONumber         string          `json:"poNumber"`
	SupplierID       string          `json:"supplierID"`
	RequesterID      string          `json:"requesterID"`
	CurrencyID       string          `json:"currencyID"`
	Status           POStatus        `json:"status"`
	TotalAmount      decimal.Decimal `json:"totalAmount"` // Always recomputed from items
	ExpectedDelivery *time.Time      `json:"expectedDelivery,omitempty"`
	Remarks          string          `json:"remarks,omitempty"`
	ApprovalDate     *time.Time      `json:"approvalDate,omitempty"`
	IssuedDate       *time.Time      `json:"issuedDate,omitempty"`
	AuditFields

	Items           []PurchaseOrderItem `json:"items,omitempty"`
	TermsConditions *TermsConditions    `json:"termsConditions,omitempty"`
	Approvals       []POApproval        `json:"approvals,omitempty"`

	// Loaded references for display, emails and the generated PDF.
	Supplier  *Supplier `json:"supplier,omitempty"`
	Requester *User     `json:"requester,omitempty"`
	Currency  *Currency `json:"currency,omitempty"`
}

// PurchaseOrderItem is a single ordered line on a purchase order.
type PurchaseOrderItem struct {
	POItemID        string          `json:"poItemID"` // Primary key (UUID)
	POID            string          `json:"poID"`
	ProductID       string          `json:"productID"`
	Description     string          `json:"description,omitempty"`
	QuantityOrdered decimal.Decimal `json:"quantityOrdered"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"` // quantityOrdered * unitPrice
	ReceivedQty     decimal.Decimal `json:"receivedQty"`
	Status          POItemStatus    `json:"status"`

	Product *Product `json:"product,omitempty"`
}

// TermsConditions is the optional one-to-one terms block of a purchase order.
// Updates replace the whole record rather than patching fields.
type TermsConditions struct {
	TermsID          string          `json:"termsID"` // Primary key (UUID)
	POID             string          `json:"poID"`
	ValidityDays     int             `json:"validityDays"`
	ValidityWords    string          `json:"validityWords,omitempty"`
	PaymentGraceDays int             `json:"paymentGraceDays"`
	PaymentWords     string          `json:"paymentWords,omitempty"`
	VatPercentage    decimal.Decimal `json:"vatPercentage"`
}
