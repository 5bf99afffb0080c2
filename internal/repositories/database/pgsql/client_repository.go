package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

type PgxClientRepository struct {
	BaseRepository
}

func newPgxClientRepository(pool *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const clientSelect = `
SELECT c.client_id, c.user_id, c.name, c.email, c.phone, c.company, c.address, c.notes,
	c.created_at, c.last_updated_at
FROM clients c
`

func scanClient(row pgx.Row) (domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ClientID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Notes,
		&c.CreatedAt, &c.LastUpdatedAt)
	return c, err
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, userID, clientID string) (*domain.Client, error) {
	c, err := scanClient(r.Pool.QueryRow(ctx, clientSelect+` WHERE c.user_id = $1 AND c.client_id = $2`, userID, clientID))
	if err != nil {
		return nil, mapError(err, "find client")
	}
	return &c, nil
}

func (r *PgxClientRepository) ListClients(ctx context.Context, userID, search string, params domain.ListParams) ([]domain.Client, error) {
	query := clientSelect + `
		WHERE c.user_id = $1
			AND ($2 = '' OR c.name ILIKE '%' || $2 || '%' OR c.company ILIKE '%' || $2 || '%' OR c.email ILIKE '%' || $2 || '%')
		ORDER BY c.name
		LIMIT $3 OFFSET $4`
	rows, err := r.Pool.Query(ctx, query, userID, search, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}

func (r *PgxClientRepository) GetClientTotals(ctx context.Context, userID, clientID string) (*domain.ClientTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE status NOT IN ('DRAFT', 'CANCELLED', 'CONVERTED')), 0),
			COALESCE(SUM(total) FILTER (WHERE status = 'PAID'), 0),
			COALESCE(SUM(total) FILTER (WHERE status IN ('PENDING', 'OVERDUE')), 0)
		FROM invoices
		WHERE user_id = $1 AND client_id = $2 AND type = 'INVOICE'
	`
	var t domain.ClientTotals
	if err := r.Pool.QueryRow(ctx, query, userID, clientID).Scan(&t.Invoiced, &t.Paid, &t.Outstanding); err != nil {
		return nil, fmt.Errorf("failed to compute client totals: %w", err)
	}
	return &t, nil
}

func (r *PgxClientRepository) SaveClient(ctx context.Context, c domain.Client) error {
	query := `
		INSERT INTO clients (client_id, user_id, name, email, phone, company, address, notes, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query, c.ClientID, c.UserID, c.Name, c.Email, c.Phone, c.Company, c.Address, c.Notes,
		c.CreatedAt, c.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, c domain.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, company = $4, address = $5, notes = $6, last_updated_at = $7
		WHERE user_id = $8 AND client_id = $9;
	`
	tag, err := r.Pool.Exec(ctx, query, c.Name, c.Email, c.Phone, c.Company, c.Address, c.Notes, c.LastUpdatedAt,
		c.UserID, c.ClientID)
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrDuplicate
	}
	return expectOne(tag, err, "update client")
}

func (r *PgxClientRepository) DeleteClient(ctx context.Context, userID, clientID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM clients WHERE user_id = $1 AND client_id = $2`, userID, clientID)
	if err != nil && isForeignKeyViolation(err) {
		return apperrors.ErrConflict
	}
	return expectOne(tag, err, "delete client")
}
