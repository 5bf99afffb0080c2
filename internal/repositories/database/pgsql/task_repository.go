package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

type PgxTaskRepository struct {
	BaseRepository
}

func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepositoryFacade {
	return &PgxTaskRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

const taskSelect = `
SELECT t.task_id, t.user_id, t.project_id, t.title, t.description, t.status, t.priority,
	t.due_date, t.estimated_hours, t.completed_at, t.created_at, t.last_updated_at
FROM tasks t
`

func scanTask(row pgx.Row) (domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.TaskID, &t.UserID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.EstimatedHours, &t.CompletedAt, &t.CreatedAt, &t.LastUpdatedAt)
	return t, err
}

func (r *PgxTaskRepository) SaveTask(ctx context.Context, t domain.Task) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO tasks (task_id, user_id, project_id, title, description, status, priority,
			due_date, estimated_hours, completed_at, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		t.TaskID, t.UserID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority,
		t.DueDate, t.EstimatedHours, t.CompletedAt, t.CreatedAt, t.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	t, err := scanTask(r.Pool.QueryRow(ctx, taskSelect+`WHERE t.user_id = $1 AND t.task_id = $2`, userID, taskID))
	if err != nil {
		return nil, mapError(err, "find task")
	}
	return &t, nil
}

func (r *PgxTaskRepository) ListTasksByProject(ctx context.Context, userID, projectID string, params domain.ListParams) ([]domain.Task, error) {
	query := taskSelect + `
		WHERE t.user_id = $1 AND t.project_id = $2
		ORDER BY t.due_date NULLS LAST, t.created_at
		LIMIT $3 OFFSET $4`
	rows, err := r.Pool.Query(ctx, query, userID, projectID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

func (r *PgxTaskRepository) UpdateTask(ctx context.Context, t domain.Task) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
			estimated_hours = $6, completed_at = $7, last_updated_at = $8
		WHERE user_id = $9 AND task_id = $10;`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.EstimatedHours, t.CompletedAt, t.LastUpdatedAt, t.UserID, t.TaskID)
	return expectOne(tag, err, "update task")
}

func (r *PgxTaskRepository) DeleteTask(ctx context.Context, userID, taskID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1 AND task_id = $2`, userID, taskID)
	return expectOne(tag, err, "delete task")
}
