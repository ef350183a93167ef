package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/deppfellow/users-api/internal/config"
	"github.com/deppfellow/users-api/internal/database"
	"github.com/deppfellow/users-api/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded PostgreSQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.Database == nil {
				return errors.New("database config is required to migrate (set the USERS_DATABASE__* variables)")
			}

			log := logger.NewLogger(cfg.Observability)
			return database.Migrate(cmd.Context(), &log, cfg.Database)
		},
	}
}
