package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest defines the data needed to create a project.
type CreateProjectRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description"`
	ClientID    *string          `json:"clientId" binding:"omitempty,uuid"`
	Status      string           `json:"status" binding:"omitempty,oneof=PLANNING IN_PROGRESS ON_HOLD COMPLETED CANCELLED"`
	Budget      *decimal.Decimal `json:"budget"`
	Currency    string           `json:"currency" binding:"omitempty,len=3,uppercase"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	TagIDs      []string         `json:"tagIds" binding:"omitempty,dive,uuid"`
}

// UpdateProjectRequest uses pointers for partial updates. TagIDs, when present, replaces the tag set.
type UpdateProjectRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	ClientID    *string          `json:"clientId" binding:"omitempty,uuid"`
	Status      *string          `json:"status" binding:"omitempty,oneof=PLANNING IN_PROGRESS ON_HOLD COMPLETED CANCELLED"`
	Budget      *decimal.Decimal `json:"budget"`
	Currency    *string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	TagIDs      *[]string        `json:"tagIds" binding:"omitempty,dive,uuid"`
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Status   string `form:"status" binding:"omitempty,oneof=PLANNING IN_PROGRESS ON_HOLD COMPLETED CANCELLED"`
	ClientID string `form:"clientId"`
	PageParams
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse struct {
	ProjectID     string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	ClientID      *string          `json:"clientId"`
	Status        string           `json:"status"`
	Budget        *decimal.Decimal `json:"budget"`
	Currency      string           `json:"currency"`
	StartDate     *time.Time       `json:"startDate"`
	EndDate       *time.Time       `json:"endDate"`
	Tags          []TagResponse    `json:"tags"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
}

func ToProjectResponse(p *domain.Project) ProjectResponse {
	res := ProjectResponse{
		ProjectID:     p.ProjectID,
		Name:          p.Name,
		Description:   p.Description,
		ClientID:      p.ClientID,
		Status:        string(p.Status),
		Currency:      p.Currency,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Tags:          ToListTagResponse(p.Tags),
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
	if p.Budget.Valid {
		b := p.Budget.Decimal
		res.Budget = &b
	}
	return res
}

func ToListProjectResponse(projects []domain.Project) []ProjectResponse {
	res := make([]ProjectResponse, len(projects))
	for i := range projects {
		res[i] = ToProjectResponse(&projects[i])
	}
	return res
}
