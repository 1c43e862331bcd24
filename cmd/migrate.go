package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bgbarbearia/barbershop-admin/internal/db"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (dev: DROP & CREATE tables)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.OptsFromConfig(cfg.MySQL))
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		if err := db.ApplySQLFile(context.Background(), sqlDB, filepath.Join("migrations", "001_init.sql")); err != nil {
			return err
		}

		fmt.Println(">> Migration complete")
		return nil
	},
}
