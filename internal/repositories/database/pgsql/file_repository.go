package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

type PgxFileRepository struct {
	db *pgxpool.Pool
}

func newPgxFileRepository(db *pgxpool.Pool) portsrepo.FileRepository {
	return &PgxFileRepository{db: db}
}

var _ portsrepo.FileRepository = (*PgxFileRepository)(nil)

const fileColumns = `file_id, user_id, project_id, original_name, storage_path, mime_type, size_bytes, created_at`

func (r *PgxFileRepository) SaveFile(ctx context.Context, f domain.StoredFile) error {
	_, err := r.db.Exec(ctx, `INSERT INTO files (`+fileColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		f.FileID, f.UserID, f.ProjectID, f.OriginalName, f.StoragePath, f.MimeType, f.SizeBytes, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (r *PgxFileRepository) FindFileByID(ctx context.Context, userID, fileID string) (*domain.StoredFile, error) {
	var f domain.StoredFile
	err := r.db.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE user_id = $1 AND file_id = $2`, userID, fileID).
		Scan(&f.FileID, &f.UserID, &f.ProjectID, &f.OriginalName, &f.StoragePath, &f.MimeType, &f.SizeBytes, &f.CreatedAt)
	if err != nil {
		return nil, mapError(err, "find file")
	}
	return &f, nil
}

func (r *PgxFileRepository) ListFiles(ctx context.Context, userID string, projectID *string, params domain.ListParams) ([]domain.StoredFile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fileColumns+` FROM files
		WHERE user_id = $1 AND ($2::text IS NULL OR project_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, userID, projectID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := []domain.StoredFile{}
	for rows.Next() {
		var f domain.StoredFile
		if err := rows.Scan(&f.FileID, &f.UserID, &f.ProjectID, &f.OriginalName, &f.StoragePath, &f.MimeType, &f.SizeBytes, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *PgxFileRepository) DeleteFile(ctx context.Context, userID, fileID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE user_id = $1 AND file_id = $2`, userID, fileID)
	return expectOne(tag, err, "delete file")
}
