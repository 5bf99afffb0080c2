package dto

import "github.com/kevkotuto/freelance_backend/internal/core/domain"

// UpdateCompanySettingsRequest defines the editable company settings.
// Nil fields keep their current value.
type UpdateCompanySettingsRequest struct {
	CompanyName      *string `json:"companyName" binding:"omitempty,max=200"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Phone            *string `json:"phone" binding:"omitempty,max=40"`
	Address          *string `json:"address"`
	TaxID            *string `json:"taxId" binding:"omitempty,max=60"`
	DefaultCurrency  *string `json:"defaultCurrency" binding:"omitempty,len=3,uppercase"`
	InvoicePrefix    *string `json:"invoicePrefix" binding:"omitempty,min=1,max=10,alphanum"`
	ProformaPrefix   *string `json:"proformaPrefix" binding:"omitempty,min=1,max=10,alphanum"`
	PaymentTermsDays *int    `json:"paymentTermsDays" binding:"omitempty,min=0,max=365"`
	InvoiceFooter    *string `json:"invoiceFooter"`
}

// CompanySettingsResponse defines the data returned for company settings.
type CompanySettingsResponse struct {
	CompanyName        string `json:"companyName"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	TaxID              string `json:"taxId"`
	DefaultCurrency    string `json:"defaultCurrency"`
	InvoicePrefix      string `json:"invoicePrefix"`
	ProformaPrefix     string `json:"proformaPrefix"`
	PaymentTermsDays   int    `json:"paymentTermsDays"`
	InvoiceFooter      string `json:"invoiceFooter"`
	NextInvoiceNumber  int    `json:"nextInvoiceNumber"`
	NextProformaNumber int    `json:"nextProformaNumber"`
}

func ToCompanySettingsResponse(s *domain.CompanySettings) CompanySettingsResponse {
	return CompanySettingsResponse{
		CompanyName:        s.CompanyName,
		Email:              s.Email,
		Phone:              s.Phone,
		Address:            s.Address,
		TaxID:              s.TaxID,
		DefaultCurrency:    s.DefaultCurrency,
		InvoicePrefix:      s.InvoicePrefix,
		ProformaPrefix:     s.ProformaPrefix,
		PaymentTermsDays:   s.PaymentTermsDays,
		InvoiceFooter:      s.InvoiceFooter,
		NextInvoiceNumber:  s.NextInvoiceNumber,
		NextProformaNumber: s.NextProformaNumber,
	}
}
