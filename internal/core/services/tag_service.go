package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

type tagService struct {
	BaseService
	tagRepo portsrepo.TagRepositoryFacade
}

// NewTagService creates the tag service.
func NewTagService(repo portsrepo.TagRepositoryFacade) portssvc.TagSvcFacade {
	return &tagService{tagRepo: repo}
}

var _ portssvc.TagSvcFacade = (*tagService)(nil)

func (s *tagService) CreateTag(ctx context.Context, userID string, req dto.CreateTagRequest) (*domain.Tag, error) {
	now := time.Now()
	tag := domain.Tag{
		TagID:       uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Color:       req.Color,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	if err := s.tagRepo.SaveTag(ctx, tag); err != nil {
		return nil, s.mapTagError(ctx, err, tag)
	}
	return &tag, nil
}

func (s *tagService) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	tags, err := s.tagRepo.ListTags(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tags")
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	if tags == nil {
		return []domain.Tag{}, nil
	}
	return tags, nil
}

func (s *tagService) UpdateTag(ctx context.Context, userID, tagID string, req dto.UpdateTagRequest) (*domain.Tag, error) {
	tag, err := s.tagRepo.FindTagByID(ctx, userID, tagID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find tag", slog.String("tag_id", tagID))
		return nil, err
	}
	if req.Name != nil {
		tag.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}
	if err := validateTag(*tag); err != nil {
		return nil, err
	}
	tag.LastUpdatedAt = time.Now()
	if err := s.tagRepo.UpdateTag(ctx, *tag); err != nil {
		return nil, s.mapTagError(ctx, err, *tag)
	}
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, userID, tagID string) error {
	if err := s.tagRepo.DeleteTag(ctx, userID, tagID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete tag", slog.String("tag_id", tagID))
		return err
	}
	return nil
}

func validateTag(tag domain.Tag) error {
	if tag.Name == "" {
		return validationf("name must not be blank")
	}
	if !domain.ValidTagColor(tag.Color) {
		return validationf("color must be a #RRGGBB hex value")
	}
	return nil
}

func (s *tagService) mapTagError(ctx context.Context, err error, tag domain.Tag) error {
	if errors.Is(err, apperrors.ErrDuplicate) {
		return fmt.Errorf("%w: a tag named %q already exists", apperrors.ErrDuplicate, tag.Name)
	}
	s.LogUnexpected(ctx, err, "Failed to save tag", slog.String("tag_id", tag.TagID))
	return err
}
