package repositories

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// CompanySettingsRepository stores per-user company settings.
type CompanySettingsRepository interface {
	// FindCompanySettings returns ErrNotFound when the user never saved settings.
	FindCompanySettings(ctx context.Context, userID string) (*domain.CompanySettings, error)

	// UpsertCompanySettings creates or updates the editable fields. Numbering
	// counters are never overwritten.
	UpsertCompanySettings(ctx context.Context, settings domain.CompanySettings) error
}
