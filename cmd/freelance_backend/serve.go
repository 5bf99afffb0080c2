package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kevkotuto/freelance_backend/internal/handlers"
	"github.com/kevkotuto/freelance_backend/internal/jobs"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
	"github.com/kevkotuto/freelance_backend/internal/platform/migrations"
	"github.com/kevkotuto/freelance_backend/internal/utils"
	"github.com/kevkotuto/freelance_backend/internal/workers"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, background dispatchers and scheduled jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	return cmd
}

func runServe(parent context.Context, skipMigrations bool) error {
	cfg, logger, err := loadBase()
	if err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !skipMigrations {
		logger.Info("Running database migrations...")
		if err := migrations.Run(cfg.DatabaseURL, migrations.Up, logger); err != nil {
			return err
		}
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	// Dispatchers run until ctx is cancelled.
	inbox := workers.NewWaveInboxDispatcher(a.repos.WebhookInboxRepo, a.services.WaveWebhook, workers.Options{
		PollInterval: cfg.WaveInboxPollInterval,
		BatchSize:    cfg.WaveInboxBatchSize,
		MaxAttempts:  cfg.WaveInboxMaxAttempts,
	}, logger)
	email := workers.NewEmailDispatcher(a.repos.EmailOutboxRepo, a.mailer, workers.Options{
		PollInterval: cfg.EmailPollInterval,
		MaxAttempts:  cfg.EmailMaxAttempts,
	}, logger)
	go inbox.Start(ctx)
	go email.Start(ctx)

	var scheduler *jobs.Scheduler
	if cfg.JobsEnabled {
		scheduler, err = jobs.NewScheduler(logger, jobs.DefaultJobs(a.services.Invoice, a.services.Expense, a.services.Project)...)
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.MetricsMiddleware(),
		middleware.PosthogMiddleware(posthogClient),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	handlers.RegisterRoutes(r, cfg, a.services)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-serveErr:
		if runErr != nil {
			logger.Error("Server failed to run", slog.String("error", runErr.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	stop()
	inbox.Wait()
	email.Wait()
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	logger.Info("Server stopped")
	return runErr
}
