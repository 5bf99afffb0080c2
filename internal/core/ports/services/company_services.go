package services

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// CompanySettingsSvcFacade manages the caller's business identity.
type CompanySettingsSvcFacade interface {
	// GetSettings returns stored settings or the defaults when none were saved.
	GetSettings(ctx context.Context, userID string) (*domain.CompanySettings, error)
	UpdateSettings(ctx context.Context, userID string, req dto.UpdateCompanySettingsRequest) (*domain.CompanySettings, error)
}
