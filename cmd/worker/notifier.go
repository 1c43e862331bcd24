package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/config"
	"github.com/bgbarbearia/barbershop-admin/internal/kafka"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/metrics"
	"github.com/bgbarbearia/barbershop-admin/internal/webhook"
	"github.com/bgbarbearia/barbershop-admin/internal/worker"
)

var notifierWorkers int

var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Deliver queued new-customer notifications (notify.mode=kafka)",
	RunE:  runNotifier,
}

func init() {
	notifierCmd.Flags().IntVar(&notifierWorkers, "workers", 4, "concurrent webhook deliveries")
}

func runNotifier(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	consumer := kafka.NewConsumer(cfg.Kafka)
	defer consumer.Close()

	w := worker.NewNotifierKafka(consumer, webhook.NewClient(cfg.Notify.Timeout), cfg.Notify.Timeout)
	w.Workers = notifierWorkers

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("notifier started",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.GroupID),
		zap.Int("workers", w.Workers),
	)

	return w.Run(ctx)
}
