package repositories

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// TagRepositoryFacade stores project tags.
type TagRepositoryFacade interface {
	// SaveTag inserts a tag; a name already used by the user yields ErrDuplicate.
	SaveTag(ctx context.Context, tag domain.Tag) error
	FindTagByID(ctx context.Context, userID, tagID string) (*domain.Tag, error)
	// FindTagsByIDs returns only the tags owned by the user.
	FindTagsByIDs(ctx context.Context, userID string, tagIDs []string) ([]domain.Tag, error)
	ListTags(ctx context.Context, userID string) ([]domain.Tag, error)
	UpdateTag(ctx context.Context, tag domain.Tag) error
	DeleteTag(ctx context.Context, userID, tagID string) error
}
