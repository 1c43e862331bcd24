package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	httpSrv "github.com/bgbarbearia/barbershop-admin/internal/http"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/notifier"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every customer to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		app, err := openCore(cfg, notifier.Nop{})
		if err != nil {
			return err
		}
		defer app.Close()

		b, err := app.customers.Export(context.Background())
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = httpSrv.ExportFilename(time.Now())
		}
		if err := os.WriteFile(out, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		fmt.Printf(">> Exported %d customers to %s\n", len(app.customers.Snapshot()), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default clientes-YYYY-MM-DD.json)")
}
