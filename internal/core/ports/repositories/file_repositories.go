package repositories

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// FileRepository stores uploaded file metadata.
type FileRepository interface {
	SaveFile(ctx context.Context, file domain.StoredFile) error
	FindFileByID(ctx context.Context, userID, fileID string) (*domain.StoredFile, error)
	ListFiles(ctx context.Context, userID string, projectID *string, params domain.ListParams) ([]domain.StoredFile, error)
	DeleteFile(ctx context.Context, userID, fileID string) error
}
