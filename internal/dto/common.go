package dto

import "github.com/kevkotuto/freelance_backend/internal/core/domain"

// PageParams defines the limit/offset query parameters shared by list endpoints.
type PageParams struct {
	Limit  int `form:"limit,default=20" binding:"min=0,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ToDomain converts the query parameters into normalized domain pagination.
func (p PageParams) ToDomain() domain.ListParams {
	return domain.ListParams{Limit: p.Limit, Offset: p.Offset}.Normalize()
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
