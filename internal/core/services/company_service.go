package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

type companySettingsService struct {
	BaseService
	companyRepo portsrepo.CompanySettingsRepository
}

// NewCompanySettingsService creates the company settings service.
func NewCompanySettingsService(repo portsrepo.CompanySettingsRepository) portssvc.CompanySettingsSvcFacade {
	return &companySettingsService{companyRepo: repo}
}

var _ portssvc.CompanySettingsSvcFacade = (*companySettingsService)(nil)

func (s *companySettingsService) GetSettings(ctx context.Context, userID string) (*domain.CompanySettings, error) {
	settings, err := s.companyRepo.FindCompanySettings(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			defaults := domain.DefaultCompanySettings(userID)
			return &defaults, nil
		}
		s.LogError(ctx, err, "Failed to load company settings", slog.String("user_id", userID))
		return nil, err
	}
	return settings, nil
}

func (s *companySettingsService) UpdateSettings(ctx context.Context, userID string, req dto.UpdateCompanySettingsRequest) (*domain.CompanySettings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		settings.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.Email != nil {
		settings.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		settings.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.TaxID != nil {
		settings.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.DefaultCurrency != nil {
		settings.DefaultCurrency = *req.DefaultCurrency
	}
	if req.InvoicePrefix != nil {
		settings.InvoicePrefix = *req.InvoicePrefix
	}
	if req.ProformaPrefix != nil {
		settings.ProformaPrefix = *req.ProformaPrefix
	}
	if req.PaymentTermsDays != nil {
		settings.PaymentTermsDays = *req.PaymentTermsDays
	}
	if req.InvoiceFooter != nil {
		settings.InvoiceFooter = *req.InvoiceFooter
	}
	if settings.InvoicePrefix == settings.ProformaPrefix {
		return nil, validationf("invoice and proforma prefixes must differ")
	}

	now := time.Now()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	settings.LastUpdatedAt = now

	if err := s.companyRepo.UpsertCompanySettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to save company settings", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "Company settings updated", slog.String("user_id", userID))
	return settings, nil
}
