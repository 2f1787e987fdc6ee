package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftKind distinguishes drafts the user manages explicitly from the single
// disposable snapshot written by the periodic auto-save.
type DraftKind string

const (
	DraftKindManual DraftKind = "manual"
	DraftKindAuto   DraftKind = "auto"
)

// DraftPayloadVersion is the current schema version of the serialized draft payload.
// Bump it when the payload shape changes so old drafts remain reconstructable.
const DraftPayloadVersion = 1

// DraftPayload is the work-in-progress purchase order as the user left it. It has the
// same shape as a not-yet-submitted order and is stored as a versioned document.
type DraftPayload struct {
	Version          int                 `json:"version"`
	SupplierID       string              `json:"supplierID,omitempty"`
	CurrencyID       string              `json:"currencyID,omitempty"`
	ExpectedDelivery *time.Time          `json:"expectedDelivery,omitempty"`
	Remarks          string              `json:"remarks,omitempty"`
	Items            []PurchaseOrderItem `json:"items"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
}

// PurchaseOrderDraft carries the full payload plus a few denormalized scalars so
// drafts can be listed without deserializing every payload.
type PurchaseOrderDraft struct {
	DraftID     string          `json:"draftID"` // Primary key (UUID)
	CreatorID   string          `json:"creatorID"`
	Kind        DraftKind       `json:"kind"`
	Payload     DraftPayload    `json:"payload"`
	SupplierID  string          `json:"supplierID,omitempty"` // Denormalized from payload
	TotalAmount decimal.Decimal `json:"totalAmount"`          // Denormalized from payload
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Supplier *Supplier `json:"supplier,omitempty"`
}
