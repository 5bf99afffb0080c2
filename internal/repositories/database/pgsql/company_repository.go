package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanySettingsRepository {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanySettingsRepository = (*PgxCompanyRepository)(nil)

func (r *PgxCompanyRepository) FindCompanySettings(ctx context.Context, userID string) (*domain.CompanySettings, error) {
	query := `
		SELECT user_id, company_name, email, phone, address, tax_id, default_currency,
			invoice_prefix, proforma_prefix, payment_terms_days, invoice_footer,
			next_invoice_number, next_proforma_number, created_at, last_updated_at
		FROM company_settings
		WHERE user_id = $1;
	`
	var s domain.CompanySettings
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.CompanyName, &s.Email, &s.Phone, &s.Address, &s.TaxID, &s.DefaultCurrency,
		&s.InvoicePrefix, &s.ProformaPrefix, &s.PaymentTermsDays, &s.InvoiceFooter,
		&s.NextInvoiceNumber, &s.NextProformaNumber, &s.CreatedAt, &s.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company settings: %w", err)
	}
	return &s, nil
}

func (r *PgxCompanyRepository) UpsertCompanySettings(ctx context.Context, s domain.CompanySettings) error {
	query := `
		INSERT INTO company_settings (
			user_id, company_name, email, phone, address, tax_id, default_currency,
			invoice_prefix, proforma_prefix, payment_terms_days, invoice_footer,
			created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			tax_id = EXCLUDED.tax_id,
			default_currency = EXCLUDED.default_currency,
			invoice_prefix = EXCLUDED.invoice_prefix,
			proforma_prefix = EXCLUDED.proforma_prefix,
			payment_terms_days = EXCLUDED.payment_terms_days,
			invoice_footer = EXCLUDED.invoice_footer,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		s.UserID, s.CompanyName, s.Email, s.Phone, s.Address, s.TaxID, s.DefaultCurrency,
		s.InvoicePrefix, s.ProformaPrefix, s.PaymentTermsDays, s.InvoiceFooter,
		s.CreatedAt, s.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert company settings: %w", err)
	}
	return nil
}

// allocateNumber reserves the next sequence for invType inside tx, creating the
// settings row with defaults when the user never saved any.
func allocateNumber(ctx context.Context, tx pgx.Tx, userID string, invType domain.InvoiceType) (prefix string, seq int, err error) {
	defaults := domain.DefaultCompanySettings(userID)
	_, err = tx.Exec(ctx, `
		INSERT INTO company_settings (user_id, default_currency, invoice_prefix, proforma_prefix,
			payment_terms_days, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING;`,
		userID, defaults.DefaultCurrency, defaults.InvoicePrefix, defaults.ProformaPrefix, defaults.PaymentTermsDays,
	)
	if err != nil {
		return "", 0, fmt.Errorf("failed to initialise company settings: %w", err)
	}

	query := `
		UPDATE company_settings
		SET next_invoice_number = next_invoice_number + 1
		WHERE user_id = $1
		RETURNING invoice_prefix, next_invoice_number - 1;
	`
	if invType == domain.InvoiceTypeProforma {
		query = `
		UPDATE company_settings
		SET next_proforma_number = next_proforma_number + 1
		WHERE user_id = $1
		RETURNING proforma_prefix, next_proforma_number - 1;
	`
	}
	if err := tx.QueryRow(ctx, query, userID).Scan(&prefix, &seq); err != nil {
		return "", 0, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return prefix, seq, nil
}
