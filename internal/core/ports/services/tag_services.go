package services

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// TagSvcFacade manages the caller's tags.
type TagSvcFacade interface {
	CreateTag(ctx context.Context, userID string, req dto.CreateTagRequest) (*domain.Tag, error)
	ListTags(ctx context.Context, userID string) ([]domain.Tag, error)
	UpdateTag(ctx context.Context, userID, tagID string, req dto.UpdateTagRequest) (*domain.Tag, error)
	DeleteTag(ctx context.Context, userID, tagID string) error
}
