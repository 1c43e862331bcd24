package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/notifier"
)

var (
	dispatchTemplate string
	dispatchUnit     string
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Send a template to every customer of a unit through the dispatch webhook",
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

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := app.customers.Load(ctx); err != nil {
			return err
		}

		res, err := app.dispatch.Dispatch(ctx, dispatchTemplate, dispatchUnit)
		if err != nil {
			return err
		}

		fmt.Printf(">> Dispatch finished: %d/%d delivered (%d failed)\n", res.Success, res.Total, res.Failed())
		return nil
	},
}

func init() {
	dispatchCmd.Flags().StringVar(&dispatchTemplate, "template", "", "template id")
	dispatchCmd.Flags().StringVar(&dispatchUnit, "unit", model.UnitAll, "unit to target (forte, guadalajara or all)")
	_ = dispatchCmd.MarkFlagRequired("template")
}
