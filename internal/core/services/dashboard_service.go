package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
)

type dashboardService struct {
	BaseService
	dashboardRepo portsrepo.DashboardRepository
	company       portssvc.CompanySettingsSvcFacade
	cache         gateways.Cache
	renderer      gateways.DocumentRenderer
	ttl           time.Duration
}

// NewDashboardService creates the analytics service. cache may be a no-op implementation.
func NewDashboardService(
	repo portsrepo.DashboardRepository,
	company portssvc.CompanySettingsSvcFacade,
	cache gateways.Cache,
	renderer gateways.DocumentRenderer,
	ttl time.Duration,
) portssvc.DashboardSvcFacade {
	return &dashboardService{dashboardRepo: repo, company: company, cache: cache, renderer: renderer, ttl: ttl}
}

var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

func dashboardCacheKey(userID string, year int) string {
	return fmt.Sprintf("dashboard:%s:%d", userID, year)
}

func (s *dashboardService) GetStats(ctx context.Context, userID string, year int) (*domain.DashboardStats, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	key := dashboardCacheKey(userID, year)

	var cached domain.DashboardStats
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.LogError(ctx, err, "Dashboard cache read failed", slog.String("key", key))
	} else if hit {
		return &cached, nil
	}

	stats, err := s.dashboardRepo.LoadDashboardStats(ctx, userID, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to load dashboard stats", slog.Int("year", year))
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	stats.Year = year
	if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
		s.LogError(ctx, err, "Dashboard cache write failed", slog.String("key", key))
	}
	return stats, nil
}

func (s *dashboardService) RenderReportPDF(ctx context.Context, userID string, year int) ([]byte, error) {
	stats, err := s.GetStats(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	settings, err := s.company.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderDashboardReport(*stats, *settings)
	if err != nil {
		s.LogError(ctx, err, "Failed to render statistics report", slog.Int("year", stats.Year))
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return pdf, nil
}

func (s *dashboardService) Invalidate(ctx context.Context, userID string, years ...int) {
	if len(years) == 0 {
		return
	}
	keys := make([]string, 0, len(years))
	seen := map[int]bool{}
	for _, y := range years {
		if seen[y] {
			continue
		}
		seen[y] = true
		keys = append(keys, dashboardCacheKey(userID, y))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.LogError(ctx, err, "Dashboard cache invalidation failed", slog.String("user_id", userID))
	}
}
