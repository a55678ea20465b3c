package cmd

import (
	"fmt"

	"github.com/SAP-F-2025/reproducible-assessment/pkg"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.DatabaseDriver == driverMemory {
			return fmt.Errorf("migrate needs a sql driver, got %q", cfg.DatabaseDriver)
		}

		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database handle: %w", err)
		}
		defer sqlDB.Close()

		if err := pkg.Migrate(db); err != nil {
			return err
		}
		logger.Info("Database migrated", "driver", cfg.DatabaseDriver, "models", len(pkg.AllModels()))
		return nil
	},
}
