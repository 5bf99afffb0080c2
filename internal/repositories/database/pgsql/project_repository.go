package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

const projectSelect = `
SELECT p.project_id, p.user_id, p.client_id, p.name, p.description, p.status, p.budget, p.currency,
	p.start_date, p.end_date, p.created_at, p.last_updated_at
FROM projects p
`

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ProjectID, &p.UserID, &p.ClientID, &p.Name, &p.Description, &p.Status, &p.Budget, &p.Currency,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.LastUpdatedAt)
	return p, err
}

func (r *PgxProjectRepository) getProjects(ctx context.Context, filterQuery string, args ...any) ([]domain.Project, error) {
	rows, err := r.Pool.Query(ctx, projectSelect+filterQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// attachTags loads the tags of every project in one query.
func (r *PgxProjectRepository) attachTags(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, len(projects))
	index := make(map[string]int, len(projects))
	for i := range projects {
		ids[i] = projects[i].ProjectID
		index[projects[i].ProjectID] = i
		projects[i].Tags = []domain.Tag{}
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT pt.project_id, t.tag_id, t.user_id, t.name, t.color, t.created_at, t.last_updated_at
		FROM project_tags pt
		JOIN tags t ON t.tag_id = pt.tag_id
		WHERE pt.project_id = ANY($1)
		ORDER BY t.name`, ids)
	if err != nil {
		return fmt.Errorf("failed to query project tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var projectID string
		var t domain.Tag
		if err := rows.Scan(&projectID, &t.TagID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt, &t.LastUpdatedAt); err != nil {
			return fmt.Errorf("failed to scan project tag row: %w", err)
		}
		if i, ok := index[projectID]; ok {
			projects[i].Tags = append(projects[i].Tags, t)
		}
	}
	return rows.Err()
}

func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	p, err := scanProject(r.Pool.QueryRow(ctx, projectSelect+`WHERE p.user_id = $1 AND p.project_id = $2`, userID, projectID))
	if err != nil {
		return nil, mapError(err, "find project")
	}
	projects := []domain.Project{p}
	if err := r.attachTags(ctx, projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

func (r *PgxProjectRepository) ListProjects(ctx context.Context, userID string, filter domain.ProjectFilter) ([]domain.Project, error) {
	projects, err := r.getProjects(ctx, `
		WHERE p.user_id = $1
			AND ($2::text IS NULL OR p.status = $2)
			AND ($3::text IS NULL OR p.client_id = $3)
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5`,
		userID, filter.Status, filter.ClientID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *PgxProjectRepository) ProjectNames(ctx context.Context, userID string, projectIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(projectIDs))
	if len(projectIDs) == 0 {
		return names, nil
	}
	rows, err := r.Pool.Query(ctx, `SELECT project_id, name FROM projects WHERE user_id = $1 AND project_id = ANY($2)`, userID, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query project names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan project name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *PgxProjectRepository) ListProjectsEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Project, error) {
	return r.getProjects(ctx, `
		WHERE p.end_date BETWEEN $1::date AND $2::date
			AND p.status NOT IN ('COMPLETED', 'CANCELLED')
		ORDER BY p.end_date`, from, to)
}

func insertProjectTags(ctx context.Context, tx pgx.Tx, projectID string, tags []domain.Tag) error {
	for _, t := range tags {
		if _, err := tx.Exec(ctx, `INSERT INTO project_tags (project_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, projectID, t.TagID); err != nil {
			return fmt.Errorf("failed to link tag %s: %w", t.TagID, err)
		}
	}
	return nil
}

func (r *PgxProjectRepository) SaveProject(ctx context.Context, p domain.Project) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO projects (project_id, user_id, client_id, name, description, status, budget, currency,
				start_date, end_date, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
			p.ProjectID, p.UserID, p.ClientID, p.Name, p.Description, p.Status, p.Budget, p.Currency,
			p.StartDate, p.EndDate, p.CreatedAt, p.LastUpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}
		return insertProjectTags(ctx, tx, p.ProjectID, p.Tags)
	})
}

func (r *PgxProjectRepository) UpdateProject(ctx context.Context, p domain.Project, replaceTags bool) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE projects
			SET client_id = $1, name = $2, description = $3, status = $4, budget = $5, currency = $6,
				start_date = $7, end_date = $8, last_updated_at = $9
			WHERE user_id = $10 AND project_id = $11;`,
			p.ClientID, p.Name, p.Description, p.Status, p.Budget, p.Currency,
			p.StartDate, p.EndDate, p.LastUpdatedAt, p.UserID, p.ProjectID)
		if err := expectOne(tag, err, "update project"); err != nil {
			return err
		}
		if !replaceTags {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM project_tags WHERE project_id = $1`, p.ProjectID); err != nil {
			return fmt.Errorf("failed to clear project tags: %w", err)
		}
		return insertProjectTags(ctx, tx, p.ProjectID, p.Tags)
	})
}

func (r *PgxProjectRepository) DeleteProject(ctx context.Context, userID, projectID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM projects WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	return expectOne(tag, err, "delete project")
}
