package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/edmart-systems/procurement_backend/internal/models"
)

// ToModelDraft converts a domain draft to its model representation, serializing the
// payload and denormalizing the listing scalars.
func ToModelDraft(d domain.PurchaseOrderDraft) (models.PurchaseOrderDraft, error) {
	payload, err := json.Marshal(d.Payload)
	if err != nil {
		return models.PurchaseOrderDraft{}, fmt.Errorf("failed to serialize draft payload: %w", err)
	}

	m := models.PurchaseOrderDraft{
		DraftID:     d.DraftID,
		CreatorID:   d.CreatorID,
		Kind:        string(d.Kind),
		PayloadJSON: payload,
		TotalAmount: d.Payload.TotalAmount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Payload.SupplierID != "" {
		supplierID := d.Payload.SupplierID
		m.SupplierID = &supplierID
	}
	return m, nil
}

// ToDomainDraft converts a model draft back to the domain, deserializing the payload.
func ToDomainDraft(m models.PurchaseOrderDraft) (domain.PurchaseOrderDraft, error) {
	var payload domain.DraftPayload
	if err := json.Unmarshal(m.PayloadJSON, &payload); err != nil {
		return domain.PurchaseOrderDraft{}, fmt.Errorf("failed to deserialize draft payload for draft %s: %w", m.DraftID, err)
	}

	d := domain.PurchaseOrderDraft{
		DraftID:     m.DraftID,
		CreatorID:   m.CreatorID,
		Kind:        domain.DraftKind(m.Kind),
		Payload:     payload,
		TotalAmount: m.TotalAmount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.SupplierID != nil {
		d.SupplierID = *m.SupplierID
	}
	return d, nil
}
