package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
)

// Generator renders purchase orders into the PDF document attached to the supplier
// email at issuance.
type Generator struct {
	companyName string
}

// NewGenerator creates a PDF generator stamping the given company name.
func NewGenerator(companyName string) *Generator {
	return &Generator{companyName: companyName}
}

// Ensure Generator implements the PDF port
var _ portssvc.POPDFGenerator = (*Generator)(nil)

// GeneratePOPDF renders the purchase order as a single-page A4 document.
func (g *Generator) GeneratePOPDF(po *domain.PurchaseOrder) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, g.companyName)
	doc.Ln(12)

	doc.SetFont("Helvetica", "B", 14)
	doc.Cell(0, 8, "Purchase Order "+po.PONumber)
	doc.Ln(10)

	doc.SetFont("Helvetica", "", 10)
	if po.Supplier != nil {
		doc.Cell(0, 6, "Supplier: "+po.Supplier.Name)
		doc.Ln(6)
	}
	currencyCode := ""
	if po.Currency != nil {
		currencyCode = po.Currency.Code
		doc.Cell(0, 6, "Currency: "+currencyCode)
		doc.Ln(6)
	}
	if po.ExpectedDelivery != nil {
		doc.Cell(0, 6, "Expected delivery: "+po.ExpectedDelivery.Format("02 Jan 2006"))
		doc.Ln(6)
	}
	doc.Cell(0, 6, "Date: "+po.CreatedAt.Format("02 Jan 2006"))
	doc.Ln(10)

	// Line item table
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(70, 8, "Product", "1", 0, "L", true, 0, "")
	doc.CellFormat(30, 8, "Quantity", "1", 0, "R", true, 0, "")
	doc.CellFormat(40, 8, "Unit Price", "1", 0, "R", true, 0, "")
	doc.CellFormat(40, 8, "Total", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, item := range po.Items {
		name := item.Description
		if item.Product != nil && item.Product.Name != "" {
			name = item.Product.Name
		}
		doc.CellFormat(70, 8, name, "1", 0, "L", false, 0, "")
		doc.CellFormat(30, 8, item.QuantityOrdered.String(), "1", 0, "R", false, 0, "")
		doc.CellFormat(40, 8, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(40, 8, item.TotalPrice.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(140, 8, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(40, 8, fmt.Sprintf("%s %s", currencyCode, po.TotalAmount.StringFixed(2)), "1", 1, "R", false, 0, "")
	doc.Ln(6)

	if po.TermsConditions != nil {
		tc := po.TermsConditions
		doc.SetFont("Helvetica", "B", 11)
		doc.Cell(0, 7, "Terms and Conditions")
		doc.Ln(7)
		doc.SetFont("Helvetica", "", 9)
		doc.Cell(0, 5, fmt.Sprintf("Validity: %d days (%s)", tc.ValidityDays, tc.ValidityWords))
		doc.Ln(5)
		doc.Cell(0, 5, fmt.Sprintf("Payment: %d days grace (%s)", tc.PaymentGraceDays, tc.PaymentWords))
		doc.Ln(5)
		doc.Cell(0, 5, fmt.Sprintf("VAT: %s%%", tc.VatPercentage.StringFixed(0)))
		doc.Ln(5)
	}

	if po.Remarks != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "I", 9)
		doc.MultiCell(0, 5, "Remarks: "+po.Remarks, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render purchase order PDF: %w", err)
	}
	return buf.Bytes(), nil
}
