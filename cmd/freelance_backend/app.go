package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/cache"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/core/services"
	"github.com/kevkotuto/freelance_backend/internal/integrations/assistant"
	"github.com/kevkotuto/freelance_backend/internal/integrations/mailer"
	"github.com/kevkotuto/freelance_backend/internal/integrations/wave"
	"github.com/kevkotuto/freelance_backend/internal/pdf"
	"github.com/kevkotuto/freelance_backend/internal/platform/config"
	"github.com/kevkotuto/freelance_backend/internal/platform/logging"
	"github.com/kevkotuto/freelance_backend/internal/repositories/database/pgsql"
	"github.com/kevkotuto/freelance_backend/internal/storage"
	"github.com/kevkotuto/freelance_backend/pkg/database"
)

// app holds the process-wide dependencies shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	repos    portsrepo.RepositoryProvider
	services *portssvc.ServiceContainer
	mailer   gateways.Mailer
	closers  []func() error
}

// loadBase reads configuration and installs the process logger.
func loadBase() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.Setup(os.Stdout, cfg.LogLevel, cfg.IsProduction), nil
}

// newApp connects to Postgres and wires repositories, gateways and services.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{ConnectTimeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, pool: pool, repos: pgsql.NewRepositoryProvider(pool)}

	fileStore, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	var statsCache gateways.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, "fb:")
		if err != nil {
			logger.Warn("Redis unavailable, dashboard cache disabled", slog.String("error", err.Error()))
		} else {
			statsCache = rc
			a.closers = append(a.closers, rc.Close)
		}
	}

	a.mailer = mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	a.services = services.NewServiceContainer(cfg, a.repos, services.Gateways{
		Mailer:    a.mailer,
		Storage:   fileStore,
		Renderer:  pdf.NewRenderer(),
		Cache:     statsCache,
		Completer: assistant.NewClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, assistant.WithLogger(logger)),
		Wave:      wave.NewClient(cfg.WaveAPIBaseURL),
	})
	return a, nil
}

// Close releases the pool and every registered resource.
func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("Error closing resource", slog.String("error", err.Error()))
		}
	}
	database.ClosePgxPool(a.pool)
}
