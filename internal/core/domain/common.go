package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// DefaultCurrency is used when neither the request nor the company settings name one.
const DefaultCurrency = "XOF"

// ListParams carries pagination shared by every list query.
type ListParams struct {
	Limit  int
	Offset int
}

// Normalize clamps pagination to sane bounds.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// DateRange is an optional inclusive date filter.
type DateRange struct {
	From *time.Time
	To   *time.Time
}
