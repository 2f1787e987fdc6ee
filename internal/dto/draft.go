package dto

import (
	"time"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaveDraftRequest persists a work-in-progress purchase order. Kind defaults to
// manual; the auto kind is used by the periodic save.
type SaveDraftRequest struct {
	Kind             string                     `json:"kind" binding:"omitempty,oneof=manual auto"`
	SupplierID       string                     `json:"supplierID"`
	CurrencyID       string                     `json:"currencyID"`
	ExpectedDelivery *time.Time                 `json:"expectedDelivery"`
	Remarks          string                     `json:"remarks"`
	Items            []PurchaseOrderItemRequest `json:"items"`
}

// DraftResponse is a draft with its payload reconstructed.
type DraftResponse struct {
	DraftID      string              `json:"draftID"`
	Kind         string              `json:"kind"`
	SupplierID   string              `json:"supplierID,omitempty"`
	SupplierName string              `json:"supplierName,omitempty"`
	TotalAmount  decimal.Decimal     `json:"totalAmount"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Payload      domain.DraftPayload `json:"payload"`
}

// ToDraftResponse converts a domain draft to its response DTO.
func ToDraftResponse(d *domain.PurchaseOrderDraft) DraftResponse {
	resp := DraftResponse{
		DraftID:     d.DraftID,
		Kind:        string(d.Kind),
		SupplierID:  d.SupplierID,
		TotalAmount: d.TotalAmount,
		UpdatedAt:   d.UpdatedAt,
		Payload:     d.Payload,
	}
	if d.Supplier != nil {
		resp.SupplierName = d.Supplier.Name
	}
	return resp
}

// ToDraftResponses converts a slice of domain drafts.
func ToDraftResponses(ds []domain.PurchaseOrderDraft) []DraftResponse {
	responses := make([]DraftResponse, len(ds))
	for i := range ds {
		responses[i] = ToDraftResponse(&ds[i])
	}
	return responses
}
