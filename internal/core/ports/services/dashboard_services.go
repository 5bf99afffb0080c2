package services

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// DashboardSvcFacade serves analytics.
type DashboardSvcFacade interface {
	GetStats(ctx context.Context, userID string, year int) (*domain.DashboardStats, error)
	RenderReportPDF(ctx context.Context, userID string, year int) ([]byte, error)
	// Invalidate drops cached stats of the user for the given years.
	Invalidate(ctx context.Context, userID string, years ...int)
}

// AssistantSvcFacade answers business questions with an LLM.
type AssistantSvcFacade interface {
	Chat(ctx context.Context, userID string, req dto.ChatRequest) (string, error)
}
