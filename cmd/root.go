package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgbarbearia/barbershop-admin/cmd/worker"
	"github.com/bgbarbearia/barbershop-admin/internal/config"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:   "barbershop-admin",
		Short: "Barbershop registration and admin backend",
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(worker.NewWorkerCmd())
}

// loadConfig reads the config and initialises the global logger from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	return cfg, nil
}
