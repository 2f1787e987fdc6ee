package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus mirrors domain.POStatus at the persistence layer.
type POStatus string

// ApprovalStatus mirrors domain.ApprovalStatus at the persistence layer.
type ApprovalStatus string

// PurchaseOrder represents a row of the purchase_orders table.
type PurchaseOrder struct {
	POID             string          `db:"po_id"`
	PONumber         string          `db:"po_number"`
	SupplierID       string          `db:"supplier_id"`
	RequesterID      string          `db:"requester_id"`
	CurrencyID       string          `db:"currency_id"`
	Status           POStatus        `db:"status"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	ExpectedDelivery *time.Time      `db:"expected_delivery"`
	Remarks          string          `db:"remarks"`
	ApprovalDate     *time.Time      `db:"approval_date"`
	IssuedDate       *time.Time      `db:"issued_date"`
	AuditFields
}

// PurchaseOrderItem represents a row of the purchase_order_items table.
type PurchaseOrderItem struct {
	POItemID        string          `db:"po_item_id"`
	POID            string          `db:"po_id"`
	ProductID       string          `db:"product_id"`
	Description     string          `db:"description"`
	QuantityOrdered decimal.Decimal `db:"quantity_ordered"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	TotalPrice      decimal.Decimal `db:"total_price"`
	ReceivedQty     decimal.Decimal `db:"received_qty"`
	Status          string          `db:"status"`
}

// TermsConditions represents a row of the po_terms_conditions table.
type TermsConditions struct {
	TermsID          string          `db:"terms_id"`
	POID             string          `db:"po_id"`
	ValidityDays     int             `db:"validity_days"`
	ValidityWords    string          `db:"validity_words"`
	PaymentGraceDays int             `db:"payment_grace_days"`
	PaymentWords     string          `db:"payment_words"`
	VatPercentage    decimal.Decimal `db:"vat_percentage"`
}

// POApproval represents a row of the po_approvals table.
type POApproval struct {
	ApprovalID string         `db:"approval_id"`
	POID       string         `db:"po_id"`
	ApproverID string         `db:"approver_id"`
	Level      int            `db:"level"`
	Status     ApprovalStatus `db:"status"`
	Remarks    string         `db:"remarks"`
	ApprovedAt *time.Time     `db:"approved_at"`
}
