package domain

// Supplier is the external party a purchase order is issued to. Managed elsewhere;
// the workflow only reads it for display, emails and the generated PDF.
type Supplier struct {
	SupplierID string `json:"supplierID"` // Primary key (UUID)
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Currency identifies the currency a purchase order is denominated in.
type Currency struct {
	CurrencyID string `json:"currencyID"` // Primary key (UUID)
	Code       string `json:"code"`       // ISO 4217, e.g. "UGX"
	Name       string `json:"name"`
}

// Product is the catalog item a line refers to.
type Product struct {
	ProductID string `json:"productID"` // Primary key (UUID)
	Name      string `json:"name"`
}
