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

type PgxTagRepository struct {
	BaseRepository
}

func newPgxTagRepository(pool *pgxpool.Pool) portsrepo.TagRepositoryFacade {
	return &PgxTagRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TagRepositoryFacade = (*PgxTagRepository)(nil)

const tagSelect = `SELECT t.tag_id, t.user_id, t.name, t.color, t.created_at, t.last_updated_at FROM tags t `

func scanTag(row pgx.Row) (domain.Tag, error) {
	var t domain.Tag
	err := row.Scan(&t.TagID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt, &t.LastUpdatedAt)
	return t, err
}

func collectTags(rows pgx.Rows) ([]domain.Tag, error) {
	defer rows.Close()
	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}
	return tags, nil
}

func (r *PgxTagRepository) SaveTag(ctx context.Context, t domain.Tag) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO tags (tag_id, user_id, name, color, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		t.TagID, t.UserID, t.Name, t.Color, t.CreatedAt, t.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save tag: %w", err)
	}
	return nil
}

func (r *PgxTagRepository) FindTagByID(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	t, err := scanTag(r.Pool.QueryRow(ctx, tagSelect+`WHERE t.user_id = $1 AND t.tag_id = $2`, userID, tagID))
	if err != nil {
		return nil, mapError(err, "find tag")
	}
	return &t, nil
}

func (r *PgxTagRepository) FindTagsByIDs(ctx context.Context, userID string, tagIDs []string) ([]domain.Tag, error) {
	if len(tagIDs) == 0 {
		return []domain.Tag{}, nil
	}
	rows, err := r.Pool.Query(ctx, tagSelect+`WHERE t.user_id = $1 AND t.tag_id = ANY($2) ORDER BY t.name`, userID, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	return collectTags(rows)
}

func (r *PgxTagRepository) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	rows, err := r.Pool.Query(ctx, tagSelect+`WHERE t.user_id = $1 ORDER BY t.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	return collectTags(rows)
}

func (r *PgxTagRepository) UpdateTag(ctx context.Context, t domain.Tag) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE tags SET name = $1, color = $2, last_updated_at = $3
		WHERE user_id = $4 AND tag_id = $5;`,
		t.Name, t.Color, t.LastUpdatedAt, t.UserID, t.TagID)
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrDuplicate
	}
	return expectOne(tag, err, "update tag")
}

func (r *PgxTagRepository) DeleteTag(ctx context.Context, userID, tagID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM tags WHERE user_id = $1 AND tag_id = $2`, userID, tagID)
	return expectOne(tag, err, "delete tag")
}
