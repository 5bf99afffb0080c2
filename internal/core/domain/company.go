package domain

// CompanySettings holds the per-user business identity printed on documents
// and the counters used to number invoices and proformas.
type CompanySettings struct {
	UserID             string
	CompanyName        string
	Email              string
	Phone              string
	Address            string
	TaxID              string
	DefaultCurrency    string
	InvoicePrefix      string
	ProformaPrefix     string
	PaymentTermsDays   int
	InvoiceFooter      string
	NextInvoiceNumber  int
	NextProformaNumber int
	AuditFields
}

// DefaultCompanySettings returns the settings a user starts with.
func DefaultCompanySettings(userID string) CompanySettings {
	return CompanySettings{
		UserID:             userID,
		DefaultCurrency:    DefaultCurrency,
		InvoicePrefix:      "INV",
		ProformaPrefix:     "PRO",
		PaymentTermsDays:   30,
		NextInvoiceNumber:  1,
		NextProformaNumber: 1,
	}
}
