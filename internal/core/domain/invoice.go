package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceType string

const (
	InvoiceTypeInvoice  InvoiceType = "INVOICE"
	InvoiceTypeProforma InvoiceType = "PROFORMA"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
	InvoiceConverted InvoiceStatus = "CONVERTED"
)

// invoiceTransitions lists the statuses reachable from each status.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:   {InvoicePending, InvoiceCancelled},
	InvoicePending: {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue: {InvoicePaid, InvoiceCancelled},
}

// InvoiceItem is a line of an invoice. Amount = Quantity × UnitPrice.
type InvoiceItem struct {
	ItemID      string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	Position    int
}

// Invoice covers both invoices and proformas.
type Invoice struct {
	InvoiceID       string
	UserID          string
	ClientID        *string
	ProjectID       *string
	Type            InvoiceType
	Number          string
	Status          InvoiceStatus
	IssueDate       time.Time
	DueDate         time.Time
	Currency        string
	Subtotal        decimal.Decimal
	TaxRate         decimal.Decimal
	TaxAmount       decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	Notes           string
	PaidAt          *time.Time
	ConvertedFromID *string
	WaveCheckoutID  *string
	WaveLaunchURL   *string
	Items           []InvoiceItem
	AuditFields
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status   *InvoiceStatus
	Type     *InvoiceType
	ClientID *string
	ListParams
}

// InvoiceAmounts is the computed money breakdown of an invoice.
type InvoiceAmounts struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// CalculateInvoiceAmounts fills each item's Amount and returns the totals.
// tax = subtotal × rate / 100, total = subtotal + tax − discount, rounded to 2 places.
func CalculateInvoiceAmounts(items []InvoiceItem, taxRate, discount decimal.Decimal) (InvoiceAmounts, error) {
	if len(items) == 0 {
		return InvoiceAmounts{}, fmt.Errorf("invoice needs at least one item")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return InvoiceAmounts{}, fmt.Errorf("tax rate must be between 0 and 100")
	}
	if discount.IsNegative() {
		return InvoiceAmounts{}, fmt.Errorf("discount must not be negative")
	}
	subtotal := decimal.Zero
	for i := range items {
		if !items[i].Quantity.IsPositive() {
			return InvoiceAmounts{}, fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		if items[i].UnitPrice.IsNegative() {
			return InvoiceAmounts{}, fmt.Errorf("item %d: unit price must not be negative", i+1)
		}
		items[i].Amount = items[i].Quantity.Mul(items[i].UnitPrice).Round(2)
		items[i].Position = i
		subtotal = subtotal.Add(items[i].Amount)
	}
	tax := subtotal.Mul(taxRate).Div(hundred).Round(2)
	total := subtotal.Add(tax).Sub(discount).Round(2)
	if total.IsNegative() {
		return InvoiceAmounts{}, fmt.Errorf("discount exceeds invoice total")
	}
	return InvoiceAmounts{Subtotal: subtotal.Round(2), TaxAmount: tax, Total: total}, nil
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsEditable reports whether content (items, dates, amounts) may still change.
func (s InvoiceStatus) IsEditable() bool {
	return s == InvoiceDraft || s == InvoicePending
}

// IsPayable reports whether the invoice is awaiting payment.
func (s InvoiceStatus) IsPayable() bool {
	return s == InvoicePending || s == InvoiceOverdue
}

// FormatInvoiceNumber renders <prefix>-<YYYY>-<seq:04d>.
func FormatInvoiceNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// IsOverdue reports whether a pending invoice is past its due date at now.
func (inv Invoice) IsOverdue(now time.Time) bool {
	return inv.Status == InvoicePending && now.After(endOfDay(inv.DueDate))
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
