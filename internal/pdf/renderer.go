// Package pdf renders invoices and dashboard reports with fpdf.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	"github.com/kevkotuto/freelance_backend/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	pageWidth  = 210.0
	margin     = 15.0
	contentW   = pageWidth - 2*margin
	lineHeight = 6.0
	fontFamily = "Helvetica"
	dateLayout = "02/01/2006"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Renderer implements gateways.DocumentRenderer.
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

var _ gateways.DocumentRenderer = (*Renderer)(nil)

type document struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newDocument(title string) *document {
	f := fpdf.New("P", "mm", "A4", "")
	f.SetMargins(margin, margin, margin)
	f.SetAutoPageBreak(true, margin)
	f.SetTitle(title, true)
	f.AddPage()
	return &document{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) text(w float64, s, align, border string) {
	d.CellFormat(w, lineHeight, d.tr(s), border, 0, align, false, 0, "")
}

func (d *document) line(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	d.CellFormat(contentW, lineHeight, d.tr(s), "", 1, "L", false, 0, "")
}

func (d *document) heading(s string, size float64) {
	d.SetFont(fontFamily, "B", size)
	d.CellFormat(contentW, lineHeight+2, d.tr(s), "", 1, "L", false, 0, "")
	d.SetFont(fontFamily, "", 10)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *document) companyBlock(c domain.CompanySettings) {
	name := c.CompanyName
	if name == "" {
		name = "Freelance"
	}
	d.heading(name, 14)
	d.line(c.Address)
	d.line(c.Email)
	d.line(c.Phone)
	if c.TaxID != "" {
		d.line("Tax ID: " + c.TaxID)
	}
}

func documentTitle(t domain.InvoiceType) string {
	if t == domain.InvoiceTypeProforma {
		return "PROFORMA"
	}
	return "INVOICE"
}

// RenderInvoice lays out header, client, items table, totals and footer.
func (r *Renderer) RenderInvoice(inv domain.Invoice, company domain.CompanySettings, client *domain.Client) ([]byte, error) {
	d := newDocument(documentTitle(inv.Type) + " " + inv.Number)
	d.SetFont(fontFamily, "", 10)

	d.companyBlock(company)
	d.Ln(4)

	d.heading(documentTitle(inv.Type)+" "+inv.Number, 18)
	d.line("Status: " + string(inv.Status))
	d.line("Issue date: " + inv.IssueDate.Format(dateLayout))
	d.line("Due date: " + inv.DueDate.Format(dateLayout))
	if inv.PaidAt != nil {
		d.line("Paid on: " + inv.PaidAt.Format(dateLayout))
	}
	d.Ln(4)

	if client != nil {
		d.SetFont(fontFamily, "B", 11)
		d.line("Bill to")
		d.SetFont(fontFamily, "", 10)
		d.line(client.Name)
		d.line(client.Company)
		d.line(client.Address)
		d.line(client.Email)
		d.line(client.Phone)
		d.Ln(4)
	}

	cols := []float64{contentW * 0.46, contentW * 0.14, contentW * 0.2, contentW * 0.2}
	d.SetFillColor(235, 235, 235)
	d.SetFont(fontFamily, "B", 10)
	for i, h := range []string{"Description", "Qty", "Unit price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		d.CellFormat(cols[i], lineHeight+1, h, "1", 0, align, true, 0, "")
	}
	d.Ln(-1)
	d.SetFont(fontFamily, "", 10)
	for _, it := range inv.Items {
		d.text(cols[0], it.Description, "L", "1")
		d.text(cols[1], it.Quantity.String(), "R", "1")
		d.text(cols[2], utils.FormatMoney(it.UnitPrice, inv.Currency), "R", "1")
		d.text(cols[3], utils.FormatMoney(it.Amount, inv.Currency), "R", "1")
		d.Ln(-1)
	}
	d.Ln(2)

	labelW := cols[0] + cols[1] + cols[2]
	total := func(label, amount string, bold bool) {
		if bold {
			d.SetFont(fontFamily, "B", 11)
		}
		d.text(labelW, label, "R", "")
		d.text(cols[3], amount, "R", "")
		d.Ln(-1)
		d.SetFont(fontFamily, "", 10)
	}
	total("Subtotal", utils.FormatMoney(inv.Subtotal, inv.Currency), false)
	if !inv.TaxRate.IsZero() {
		total("Tax ("+inv.TaxRate.String()+"%)", utils.FormatMoney(inv.TaxAmount, inv.Currency), false)
	}
	if !inv.Discount.IsZero() {
		total("Discount", "-"+utils.FormatMoney(inv.Discount, inv.Currency), false)
	}
	total("Total", utils.FormatMoney(inv.Total, inv.Currency), true)

	if inv.Notes != "" {
		d.Ln(6)
		d.MultiCell(contentW, lineHeight, d.tr(inv.Notes), "", "L", false)
	}
	if inv.WaveLaunchURL != nil && inv.Status.IsPayable() {
		d.Ln(4)
		d.SetTextColor(20, 80, 200)
		d.CellFormat(contentW, lineHeight, "Pay with Wave", "", 1, "L", false, 0, *inv.WaveLaunchURL)
		d.SetTextColor(0, 0, 0)
	}
	if company.InvoiceFooter != "" {
		d.Ln(8)
		d.SetFont(fontFamily, "I", 9)
		d.MultiCell(contentW, lineHeight-1, d.tr(company.InvoiceFooter), "", "C", false)
	}
	return d.bytes()
}

// RenderDashboardReport prints the yearly KPIs, the monthly table and the rankings.
func (r *Renderer) RenderDashboardReport(stats domain.DashboardStats, company domain.CompanySettings) ([]byte, error) {
	currency := company.DefaultCurrency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	money := func(v decimal.Decimal) string { return utils.FormatMoney(v, currency) }

	d := newDocument(fmt.Sprintf("Activity report %d", stats.Year))
	d.SetFont(fontFamily, "", 10)
	d.companyBlock(company)
	d.Ln(4)
	d.heading(fmt.Sprintf("Activity report %d", stats.Year), 18)
	d.line("Generated on " + r.now().UTC().Format(dateLayout))
	d.Ln(4)

	half := contentW / 2
	kpi := func(label, value string) {
		d.text(half, label, "L", "")
		d.text(half, value, "R", "")
		d.Ln(-1)
	}
	kpi("Revenue", money(stats.Revenue))
	kpi("Expenses", money(stats.Expenses))
	kpi("Profit", money(stats.Profit))
	kpi("Outstanding", money(stats.Outstanding))
	kpi("Overdue invoices", fmt.Sprint(stats.OverdueCount))
	kpi("Active projects", fmt.Sprint(stats.ActiveProjects))
	kpi("Tracked hours", stats.TrackedHours.StringFixed(1))
	d.Ln(4)

	d.heading("Monthly breakdown", 12)
	quarter := contentW / 4
	d.SetFont(fontFamily, "B", 10)
	d.SetFillColor(235, 235, 235)
	for i, h := range []string{"Month", "Revenue", "Expenses", "Profit"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		d.CellFormat(quarter, lineHeight+1, h, "1", 0, align, true, 0, "")
	}
	d.Ln(-1)
	d.SetFont(fontFamily, "", 10)
	for _, m := range stats.Monthly {
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		d.text(quarter, monthNames[m.Month-1], "L", "1")
		d.text(quarter, money(m.Revenue), "R", "1")
		d.text(quarter, money(m.Expenses), "R", "1")
		d.text(quarter, money(m.Profit), "R", "1")
		d.Ln(-1)
	}

	if len(stats.TopClients) > 0 {
		d.Ln(4)
		d.heading("Top clients", 12)
		for _, c := range stats.TopClients {
			kpi(c.Name, money(c.Revenue))
		}
	}
	if len(stats.ExpensesByCategory) > 0 {
		d.Ln(4)
		d.heading("Expenses by category", 12)
		for _, c := range stats.ExpensesByCategory {
			kpi(string(c.Category), money(c.Total))
		}
	}
	return d.bytes()
}
