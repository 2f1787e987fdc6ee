package mapping

import (
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/edmart-systems/procurement_backend/internal/models"
)

// ToModelPurchaseOrder converts a domain PurchaseOrder to its model representation.
// Owned relations (items, terms, approvals) are mapped separately.
func ToModelPurchaseOrder(d domain.PurchaseOrder) models.PurchaseOrder {
	return models.PurchaseOrder{
		POID:             d.POID,
		PONumber:         d.PONumber,
		SupplierID:       d.SupplierID,
		RequesterID:      d.RequesterID,
		CurrencyID:       d.CurrencyID,
		Status:           models.POStatus(d.Status),
		TotalAmount:      d.TotalAmount,
		ExpectedDelivery: d.ExpectedDelivery,
		Remarks:          d.Remarks,
		ApprovalDate:     d.ApprovalDate,
		IssuedDate:       d.IssuedDate,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPurchaseOrder converts a model PurchaseOrder to its domain representation.
func ToDomainPurchaseOrder(m models.PurchaseOrder) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		POID:             m.POID,
		PONumber:         m.PONumber,
		SupplierID:       m.SupplierID,
		RequesterID:      m.RequesterID,
		CurrencyID:       m.CurrencyID,
		Status:           domain.POStatus(m.Status),
		TotalAmount:      m.TotalAmount,
		ExpectedDelivery: m.ExpectedDelivery,
		Remarks:          m.Remarks,
		ApprovalDate:     m.ApprovalDate,
		IssuedDate:       m.IssuedDate,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPurchaseOrderItem converts a domain line item to its model representation.
func ToModelPurchaseOrderItem(d domain.PurchaseOrderItem) models.PurchaseOrderItem {
	return models.PurchaseOrderItem{
		POItemID:        d.POItemID,
		POID:            d.POID,
		ProductID:       d.ProductID,
		Description:     d.Description,
		QuantityOrdered: d.QuantityOrdered,
		UnitPrice:       d.UnitPrice,
		TotalPrice:      d.TotalPrice,
		ReceivedQty:     d.ReceivedQty,
		Status:          string(d.Status),
	}
}

// ToDomainPurchaseOrderItem converts a model line item to its domain representation.
func ToDomainPurchaseOrderItem(m models.PurchaseOrderItem) domain.PurchaseOrderItem {
	return domain.PurchaseOrderItem{
		POItemID:        m.POItemID,
		POID:            m.POID,
		ProductID:       m.ProductID,
		Description:     m.Description,
		QuantityOrdered: m.QuantityOrdered,
		UnitPrice:       m.UnitPrice,
		TotalPrice:      m.TotalPrice,
		ReceivedQty:     m.ReceivedQty,
		Status:          domain.POItemStatus(m.Status),
	}
}

// ToDomainPurchaseOrderItemSlice converts a slice of model line items.
func ToDomainPurchaseOrderItemSlice(ms []models.PurchaseOrderItem) []domain.PurchaseOrderItem {
	items := make([]domain.PurchaseOrderItem, len(ms))
	for i, m := range ms {
		items[i] = ToDomainPurchaseOrderItem(m)
	}
	return items
}

// ToModelTermsConditions converts a domain terms block to its model representation.
func ToModelTermsConditions(d domain.TermsConditions) models.TermsConditions {
	return models.TermsConditions{
		TermsID:          d.TermsID,
		POID:             d.POID,
		ValidityDays:     d.ValidityDays,
		ValidityWords:    d.ValidityWords,
		PaymentGraceDays: d.PaymentGraceDays,
		PaymentWords:     d.PaymentWords,
		VatPercentage:    d.VatPercentage,
	}
}

// ToDomainTermsConditions converts a model terms block to its domain representation.
func ToDomainTermsConditions(m models.TermsConditions) domain.TermsConditions {
	return domain.TermsConditions{
		TermsID:          m.TermsID,
		POID:             m.POID,
		ValidityDays:     m.ValidityDays,
		ValidityWords:    m.ValidityWords,
		PaymentGraceDays: m.PaymentGraceDays,
		PaymentWords:     m.PaymentWords,
		VatPercentage:    m.VatPercentage,
	}
}

// ToModelPOApproval converts a domain approval step to its model representation.
func ToModelPOApproval(d domain.POApproval) models.POApproval {
	return models.POApproval{
		ApprovalID: d.ApprovalID,
		POID:       d.POID,
		ApproverID: d.ApproverID,
		Level:      d.Level,
		Status:     models.ApprovalStatus(d.Status),
		Remarks:    d.Remarks,
		ApprovedAt: d.ApprovedAt,
	}
}

// ToDomainPOApproval converts a model approval step to its domain representation.
func ToDomainPOApproval(m models.POApproval) domain.POApproval {
	return domain.POApproval{
		ApprovalID: m.ApprovalID,
		POID:       m.POID,
		ApproverID: m.ApproverID,
		Level:      m.Level,
		Status:     domain.ApprovalStatus(m.Status),
		Remarks:    m.Remarks,
		ApprovedAt: m.ApprovedAt,
	}
}

// ToDomainPOApprovalSlice converts a slice of model approval steps.
func ToDomainPOApprovalSlice(ms []models.POApproval) []domain.POApproval {
	approvals := make([]domain.POApproval, len(ms))
	for i, m := range ms {
		approvals[i] = ToDomainPOApproval(m)
	}
	return approvals
}
