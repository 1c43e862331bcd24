package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
	"github.com/bgbarbearia/barbershop-admin/internal/notifier"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo customers and templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		// seeding must not trigger new-customer webhooks
		app, err := openCore(cfg, notifier.Nop{})
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Log.Info("seeding demo customers")
		for _, nc := range demoCustomers() {
			if _, err := app.customers.Create(ctx, nc); err != nil {
				return fmt.Errorf("seed customer %q: %w", nc.Name, err)
			}
		}

		logger.Log.Info("seeding demo templates")
		for _, nt := range demoTemplates() {
			if _, err := app.templates.Create(ctx, nt); err != nil {
				return fmt.Errorf("seed template %q: %w", nt.Name, err)
			}
		}

		logger.Log.Info("seed completed", zap.Int("customers", len(demoCustomers())), zap.Int("templates", len(demoTemplates())))
		return nil
	},
}

func demoCustomers() []model.NewCustomer {
	return []model.NewCustomer{
		{Name: "João Silva", Phone: "+5585999110001", Email: strptr("joao@example.com"), BirthDate: dateptr(1990, time.January, 12), Unit: model.UnitForte},
		{Name: "Pedro Almeida", Phone: "+5585999110002", BirthDate: dateptr(1985, time.June, 3), Unit: model.UnitGuadalajara},
		{Name: "Lucas Rocha", Phone: "+5585999110003", Email: strptr("lucas@example.com"), Unit: model.UnitForte, Notes: strptr("prefere corte na tesoura")},
		{Name: "Rafael Costa", Phone: "+5585999110004", BirthDate: dateptr(2000, time.December, 24), Unit: model.UnitGuadalajara},
		{Name: "Marcos Lima", Phone: "+5585999110005", Unit: model.UnitForte},
	}
}

func demoTemplates() []model.NewTemplate {
	return []model.NewTemplate{
		{Name: "Aniversário", Description: "Mensagem do mês de aniversário", Content: "Parabéns! Seu corte deste mês tem 20% de desconto."},
		{Name: "Retorno", Description: "Clientes sem visita recente", Content: "Sentimos sua falta! Agende seu horário."},
	}
}

func strptr(s string) *string { return &s }

func dateptr(y int, m time.Month, d int) *model.Date {
	v := model.NewDate(y, m, d)
	return &v
}
