package domain

import "time"

// StoredFile is metadata for an uploaded blob kept on local disk.
type StoredFile struct {
	FileID       string
	UserID       string
	ProjectID    *string
	OriginalName string
	StoragePath  string
	MimeType     string
	SizeBytes    int64
	CreatedAt    time.Time
}
