package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

type PgxActivityRepository struct {
	db *pgxpool.Pool
}

func newPgxActivityRepository(db *pgxpool.Pool) portsrepo.ActivityRepository {
	return &PgxActivityRepository{db: db}
}

var _ portsrepo.ActivityRepository = (*PgxActivityRepository)(nil)

func (r *PgxActivityRepository) SaveActivity(ctx context.Context, a domain.Activity) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO activities (activity_id, user_id, entity_type, entity_id, action, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		a.ActivityID, a.UserID, a.EntityType, a.EntityID, a.Action, a.Description, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}
	return nil
}

func (r *PgxActivityRepository) ListActivities(ctx context.Context, userID string, entityType *string, params domain.ListParams) ([]domain.Activity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT activity_id, user_id, entity_type, entity_id, action, description, created_at
		FROM activities
		WHERE user_id = $1 AND ($2::text IS NULL OR entity_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, userID, entityType, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	items := []domain.Activity{}
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ActivityID, &a.UserID, &a.EntityType, &a.EntityID, &a.Action, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
