package domain

import "github.com/shopspring/decimal"

// Client is a customer of the freelancer.
type Client struct {
	ClientID string
	UserID   string
	Name     string
	Email    string
	Phone    string
	Company  string
	Address  string
	Notes    string
	AuditFields
}

// ClientTotals aggregates the invoices issued to a client (proformas excluded).
type ClientTotals struct {
	Invoiced    decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
}
