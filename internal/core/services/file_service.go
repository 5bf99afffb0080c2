package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
)

type fileService struct {
	BaseService
	fileRepo    portsrepo.FileRepository
	projectRepo portsrepo.ProjectReader
	storage     gateways.FileStorage
	maxBytes    int64
}

// NewFileService creates the file upload service.
func NewFileService(
	fileRepo portsrepo.FileRepository,
	projectRepo portsrepo.ProjectReader,
	storage gateways.FileStorage,
	maxBytes int64,
	activities portssvc.ActivityRecorderSvc,
) portssvc.FileSvcFacade {
	svc := &fileService{fileRepo: fileRepo, projectRepo: projectRepo, storage: storage, maxBytes: maxBytes}
	svc.Activities = activities
	return svc
}

var _ portssvc.FileSvcFacade = (*fileService)(nil)

func (s *fileService) Upload(ctx context.Context, userID string, in portssvc.UploadInput) (*domain.StoredFile, error) {
	name := filepath.Base(strings.TrimSpace(in.OriginalName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, validationf("file name is required")
	}
	if in.ProjectID != nil {
		if _, err := s.projectRepo.FindProjectByID(ctx, userID, *in.ProjectID); err != nil {
			if isNotFound(err) {
				return nil, validationf("project %s does not exist", *in.ProjectID)
			}
			return nil, err
		}
	}

	fileID := uuid.NewString()
	key := path.Join(userID, fileID+strings.ToLower(filepath.Ext(name)))
	size, err := s.storage.Save(ctx, key, in.Content, s.maxBytes)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to store upload", slog.String("file_id", fileID))
		return nil, err
	}

	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	file := domain.StoredFile{
		FileID:       fileID,
		UserID:       userID,
		ProjectID:    in.ProjectID,
		OriginalName: name,
		StoragePath:  key,
		MimeType:     mimeType,
		SizeBytes:    size,
		CreatedAt:    time.Now(),
	}
	if err := s.fileRepo.SaveFile(ctx, file); err != nil {
		s.LogError(ctx, err, "Failed to save file metadata", slog.String("file_id", fileID))
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.LogError(ctx, delErr, "Failed to remove orphaned upload", slog.String("key", key))
		}
		return nil, err
	}

	s.RecordActivity(ctx, userID, domain.EntityFile, fileID, domain.ActionCreated, "File "+name+" uploaded")
	s.LogInfo(ctx, "File uploaded", slog.String("file_id", fileID), slog.Int64("size", size))
	return &file, nil
}

func (s *fileService) ListFiles(ctx context.Context, userID string, projectID *string, params domain.ListParams) ([]domain.StoredFile, error) {
	files, err := s.fileRepo.ListFiles(ctx, userID, projectID, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list files")
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if files == nil {
		return []domain.StoredFile{}, nil
	}
	return files, nil
}

func (s *fileService) Open(ctx context.Context, userID, fileID string) (*domain.StoredFile, io.ReadCloser, error) {
	file, err := s.fileRepo.FindFileByID(ctx, userID, fileID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find file", slog.String("file_id", fileID))
		return nil, nil, err
	}
	rc, err := s.storage.Open(ctx, file.StoragePath)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to open stored file", slog.String("file_id", fileID))
		return nil, nil, err
	}
	return file, rc, nil
}

func (s *fileService) DeleteFile(ctx context.Context, userID, fileID string) error {
	file, err := s.fileRepo.FindFileByID(ctx, userID, fileID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find file", slog.String("file_id", fileID))
		return err
	}
	if err := s.fileRepo.DeleteFile(ctx, userID, fileID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete file metadata", slog.String("file_id", fileID))
		return err
	}
	if err := s.storage.Delete(ctx, file.StoragePath); err != nil && !isNotFound(err) {
		s.LogError(ctx, err, "Failed to delete stored file", slog.String("file_id", fileID))
	}
	s.RecordActivity(ctx, userID, domain.EntityFile, fileID, domain.ActionDeleted, "File "+file.OriginalName+" deleted")
	return nil
}
