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

type PgxTimeEntryRepository struct {
	BaseRepository
}

func newPgxTimeEntryRepository(pool *pgxpool.Pool) portsrepo.TimeEntryRepositoryFacade {
	return &PgxTimeEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TimeEntryRepositoryFacade = (*PgxTimeEntryRepository)(nil)

const timeEntrySelect = `
SELECT e.time_entry_id, e.user_id, e.project_id, e.task_id, e.description, e.started_at, e.ended_at,
	e.billable, e.hourly_rate, e.created_at, e.last_updated_at
FROM time_entries e
`

func scanTimeEntry(row pgx.Row) (domain.TimeEntry, error) {
	var e domain.TimeEntry
	err := row.Scan(&e.TimeEntryID, &e.UserID, &e.ProjectID, &e.TaskID, &e.Description, &e.StartedAt, &e.EndedAt,
		&e.Billable, &e.HourlyRate, &e.CreatedAt, &e.LastUpdatedAt)
	return e, err
}

func (r *PgxTimeEntryRepository) SaveTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO time_entries (time_entry_id, user_id, project_id, task_id, description, started_at, ended_at,
			billable, hourly_rate, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		e.TimeEntryID, e.UserID, e.ProjectID, e.TaskID, e.Description, e.StartedAt, e.EndedAt,
		e.Billable, e.HourlyRate, e.CreatedAt, e.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save time entry: %w", err)
	}
	return nil
}

func (r *PgxTimeEntryRepository) FindTimeEntryByID(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error) {
	e, err := scanTimeEntry(r.Pool.QueryRow(ctx, timeEntrySelect+`WHERE e.user_id = $1 AND e.time_entry_id = $2`, userID, entryID))
	if err != nil {
		return nil, mapError(err, "find time entry")
	}
	return &e, nil
}

func (r *PgxTimeEntryRepository) FindRunningTimeEntry(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	e, err := scanTimeEntry(r.Pool.QueryRow(ctx, timeEntrySelect+`WHERE e.user_id = $1 AND e.ended_at IS NULL`, userID))
	if err != nil {
		return nil, mapError(err, "find running timer")
	}
	return &e, nil
}

func (r *PgxTimeEntryRepository) ListTimeEntries(ctx context.Context, userID string, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error) {
	query := timeEntrySelect + `
		WHERE e.user_id = $1
			AND ($2::text IS NULL OR e.project_id = $2)
			AND ($3::timestamptz IS NULL OR e.started_at >= $3)
			AND ($4::timestamptz IS NULL OR e.started_at <= $4)
		ORDER BY e.started_at DESC`
	args := []any{userID, filter.ProjectID, filter.From, filter.To}
	if filter.Limit > 0 {
		query += ` LIMIT $5 OFFSET $6`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.TimeEntry{}
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entry rows: %w", err)
	}
	return entries, nil
}

func (r *PgxTimeEntryRepository) UpdateTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE time_entries
		SET project_id = $1, task_id = $2, description = $3, started_at = $4, ended_at = $5,
			billable = $6, hourly_rate = $7, last_updated_at = $8
		WHERE user_id = $9 AND time_entry_id = $10;`,
		e.ProjectID, e.TaskID, e.Description, e.StartedAt, e.EndedAt,
		e.Billable, e.HourlyRate, e.LastUpdatedAt, e.UserID, e.TimeEntryID)
	return expectOne(tag, err, "update time entry")
}

func (r *PgxTimeEntryRepository) DeleteTimeEntry(ctx context.Context, userID, entryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM time_entries WHERE user_id = $1 AND time_entry_id = $2`, userID, entryID)
	return expectOne(tag, err, "delete time entry")
}
