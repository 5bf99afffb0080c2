package main

import (
	"github.com/kevkotuto/freelance_backend/internal/platform/migrations"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	cmd.AddCommand(migrateDirectionCmd(migrations.Up, "Apply all pending migrations"))
	cmd.AddCommand(migrateDirectionCmd(migrations.Down, "Roll back every migration"))
	return cmd
}

func migrateDirectionCmd(dir migrations.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(dir),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadBase()
			if err != nil {
				return err
			}
			return migrations.Run(cfg.DatabaseURL, dir, logger)
		},
	}
}
