package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// ListFilesParams defines query parameters for listing files.
type ListFilesParams struct {
	ProjectID string `form:"projectId"`
	PageParams
}

// FileResponse defines the metadata returned for an uploaded file.
type FileResponse struct {
	FileID       string    `json:"id"`
	ProjectID    *string   `json:"projectId"`
	OriginalName string    `json:"name"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}

func ToFileResponse(f *domain.StoredFile) FileResponse {
	return FileResponse{
		FileID:       f.FileID,
		ProjectID:    f.ProjectID,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		SizeBytes:    f.SizeBytes,
		CreatedAt:    f.CreatedAt,
	}
}

func ToListFileResponse(files []domain.StoredFile) []FileResponse {
	res := make([]FileResponse, len(files))
	for i := range files {
		res[i] = ToFileResponse(&files[i])
	}
	return res
}
