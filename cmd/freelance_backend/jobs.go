package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kevkotuto/freelance_backend/internal/jobs"
	"github.com/spf13/cobra"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and run scheduled jobs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run <name>",
		Short: "Run one scheduled job immediately",
		Long: `Run one scheduled job once and exit.

Jobs: ` + strings.Join([]string{jobs.OverdueInvoices, jobs.SubscriptionRenewals, jobs.ProjectDeadlines}, ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadBase()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			scheduler, err := jobs.NewScheduler(logger, jobs.DefaultJobs(a.services.Invoice, a.services.Expense, a.services.Project)...)
			if err != nil {
				return err
			}
			n, err := scheduler.RunOnce(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("job %s failed: %w", args[0], err)
			}
			logger.Info("Job finished", slog.String("job", args[0]), slog.Int("affected", n))
			return nil
		},
	})
	return cmd
}
