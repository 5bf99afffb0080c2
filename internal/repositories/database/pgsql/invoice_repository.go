package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceSelect = `
SELECT i.invoice_id, i.user_id, i.client_id, i.project_id, i.type, i.number, i.status,
	i.issue_date, i.due_date, i.currency, i.subtotal, i.tax_rate, i.tax_amount, i.discount, i.total,
	i.notes, i.paid_at, i.converted_from_id, i.wave_checkout_id, i.wave_launch_url,
	i.created_at, i.last_updated_at
FROM invoices i
`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var i domain.Invoice
	err := row.Scan(&i.InvoiceID, &i.UserID, &i.ClientID, &i.ProjectID, &i.Type, &i.Number, &i.Status,
		&i.IssueDate, &i.DueDate, &i.Currency, &i.Subtotal, &i.TaxRate, &i.TaxAmount, &i.Discount, &i.Total,
		&i.Notes, &i.PaidAt, &i.ConvertedFromID, &i.WaveCheckoutID, &i.WaveLaunchURL,
		&i.CreatedAt, &i.LastUpdatedAt)
	return i, err
}

func (r *PgxInvoiceRepository) getInvoices(ctx context.Context, filterQuery string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, invoiceSelect+filterQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) loadItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT item_id, invoice_id, description, quantity, unit_price, amount, position
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	items := []domain.InvoiceItem{}
	for rows.Next() {
		var it domain.InvoiceItem
		if err := rows.Scan(&it.ItemID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount, &it.Position); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PgxInvoiceRepository) findOne(ctx context.Context, where string, args ...any) (*domain.Invoice, error) {
	inv, err := scanInvoice(r.Pool.QueryRow(ctx, invoiceSelect+where, args...))
	if err != nil {
		return nil, mapError(err, "find invoice")
	}
	if inv.Items, err = r.loadItems(ctx, inv.InvoiceID); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	return r.findOne(ctx, `WHERE i.user_id = $1 AND i.invoice_id = $2`, userID, invoiceID)
}

func (r *PgxInvoiceRepository) FindInvoiceByCheckoutID(ctx context.Context, userID, checkoutID string) (*domain.Invoice, error) {
	return r.findOne(ctx, `WHERE i.user_id = $1 AND i.wave_checkout_id = $2`, userID, checkoutID)
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, userID string, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	return r.getInvoices(ctx, `
		WHERE i.user_id = $1
			AND ($2::text IS NULL OR i.status = $2)
			AND ($3::text IS NULL OR i.type = $3)
			AND ($4::text IS NULL OR i.client_id = $4)
		ORDER BY i.issue_date DESC, i.number DESC
		LIMIT $5 OFFSET $6`,
		userID, filter.Status, filter.Type, filter.ClientID, filter.Limit, filter.Offset)
}

func (r *PgxInvoiceRepository) ListPendingDueBefore(ctx context.Context, day time.Time) ([]domain.Invoice, error) {
	return r.getInvoices(ctx, `
		WHERE i.status = 'PENDING' AND i.type = 'INVOICE' AND i.due_date < $1::date
		ORDER BY i.due_date`, day)
}

func insertInvoice(ctx context.Context, tx pgx.Tx, inv *domain.Invoice) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO invoices (invoice_id, user_id, client_id, project_id, type, number, status,
			issue_date, due_date, currency, subtotal, tax_rate, tax_amount, discount, total,
			notes, paid_at, converted_from_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);`,
		inv.InvoiceID, inv.UserID, inv.ClientID, inv.ProjectID, inv.Type, inv.Number, inv.Status,
		inv.IssueDate, inv.DueDate, inv.Currency, inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Discount, inv.Total,
		inv.Notes, inv.PaidAt, inv.ConvertedFromID, inv.CreatedAt, inv.LastUpdatedAt)
	if err != nil {
		return mapError(err, "insert invoice")
	}
	return insertItems(ctx, tx, inv.InvoiceID, inv.Items)
}

func insertItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []domain.InvoiceItem) error {
	for _, it := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (item_id, invoice_id, description, quantity, unit_price, amount, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			it.ItemID, invoiceID, it.Description, it.Quantity, it.UnitPrice, it.Amount, it.Position)
		if err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}
	return nil
}

// numberInvoice allocates the next number for the invoice's type and year.
func numberInvoice(ctx context.Context, tx pgx.Tx, inv *domain.Invoice) error {
	prefix, seq, err := allocateNumber(ctx, tx, inv.UserID, inv.Type)
	if err != nil {
		return err
	}
	inv.Number = domain.FormatInvoiceNumber(prefix, inv.IssueDate.Year(), seq)
	return nil
}

func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := numberInvoice(ctx, tx, inv); err != nil {
			return err
		}
		return insertInvoice(ctx, tx, inv)
	})
}

func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, inv domain.Invoice, replaceItems bool) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE invoices
			SET client_id = $1, project_id = $2, issue_date = $3, due_date = $4, currency = $5,
				subtotal = $6, tax_rate = $7, tax_amount = $8, discount = $9, total = $10, notes = $11,
				last_updated_at = $12
			WHERE user_id = $13 AND invoice_id = $14;`,
			inv.ClientID, inv.ProjectID, inv.IssueDate, inv.DueDate, inv.Currency,
			inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Discount, inv.Total, inv.Notes,
			inv.LastUpdatedAt, inv.UserID, inv.InvoiceID)
		if err := expectOne(tag, err, "update invoice"); err != nil {
			return err
		}
		if !replaceItems {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.InvoiceID); err != nil {
			return fmt.Errorf("failed to clear invoice items: %w", err)
		}
		return insertItems(ctx, tx, inv.InvoiceID, inv.Items)
	})
}

func statusStrings(statuses []domain.InvoiceStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func updateStatus(ctx context.Context, q querier, userID, invoiceID string, expected []domain.InvoiceStatus, status domain.InvoiceStatus, paidAt *time.Time) error {
	tag, err := q.Exec(ctx, `
		UPDATE invoices
		SET status = $1, paid_at = COALESCE($2, paid_at), last_updated_at = NOW()
		WHERE user_id = $3 AND invoice_id = $4 AND status = ANY($5);`,
		status, paidAt, userID, invoiceID, statusStrings(expected))
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE user_id = $1 AND invoice_id = $2)`, userID, invoiceID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check invoice: %w", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConflict
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID string, expected []domain.InvoiceStatus, status domain.InvoiceStatus, paidAt *time.Time) error {
	return updateStatus(ctx, r.Pool, userID, invoiceID, expected, status, paidAt)
}

func (r *PgxInvoiceRepository) ConvertProforma(ctx context.Context, proformaID string, inv *domain.Invoice) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE invoices SET status = 'CONVERTED', last_updated_at = NOW()
			WHERE user_id = $1 AND invoice_id = $2 AND type = 'PROFORMA'
				AND status NOT IN ('CONVERTED', 'CANCELLED');`,
			inv.UserID, proformaID)
		if err != nil {
			return fmt.Errorf("failed to mark proforma converted: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}
		if err := numberInvoice(ctx, tx, inv); err != nil {
			return err
		}
		return insertInvoice(ctx, tx, inv)
	})
}

func (r *PgxInvoiceRepository) SetWaveCheckout(ctx context.Context, userID, invoiceID, checkoutID, launchURL string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE invoices SET wave_checkout_id = $1, wave_launch_url = $2, last_updated_at = NOW()
		WHERE user_id = $3 AND invoice_id = $4;`,
		checkoutID, launchURL, userID, invoiceID)
	return expectOne(tag, err, "store wave checkout")
}

func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE user_id = $1 AND invoice_id = $2 AND status <> 'PAID'`, userID, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
