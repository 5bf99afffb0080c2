package dto

import "github.com/kevkotuto/freelance_backend/internal/core/domain"

// CreateTagRequest defines the data needed to create a tag.
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"required"`
}

// UpdateTagRequest uses pointers for partial updates.
type UpdateTagRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Color *string `json:"color"`
}

// TagResponse defines the data returned for a tag.
type TagResponse struct {
	TagID string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func ToTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{TagID: t.TagID, Name: t.Name, Color: t.Color}
}

func ToListTagResponse(tags []domain.Tag) []TagResponse {
	res := make([]TagResponse, len(tags))
	for i := range tags {
		res[i] = ToTagResponse(&tags[i])
	}
	return res
}
