package services

import (
	"context"
	"io"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// UploadInput describes an incoming file upload.
type UploadInput struct {
	ProjectID    *string
	OriginalName string
	MimeType     string
	Content      io.Reader
}

// FileSvcFacade manages uploaded files.
type FileSvcFacade interface {
	Upload(ctx context.Context, userID string, in UploadInput) (*domain.StoredFile, error)
	ListFiles(ctx context.Context, userID string, projectID *string, params domain.ListParams) ([]domain.StoredFile, error)
	// Open returns the metadata and a reader the caller must close.
	Open(ctx context.Context, userID, fileID string) (*domain.StoredFile, io.ReadCloser, error)
	DeleteFile(ctx context.Context, userID, fileID string) error
}
