package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderDraft represents a row of the purchase_order_drafts table. The payload
// is stored serialized (jsonb); supplier_id and total_amount are denormalized copies
// so listing does not need to deserialize every draft.
type PurchaseOrderDraft struct {
	DraftID     string          `db:"draft_id"`
	CreatorID   string          `db:"creator_id"`
	Kind        string          `db:"draft_kind"`
	PayloadJSON []byte          `db:"draft_data"`
	SupplierID  *string         `db:"supplier_id"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
