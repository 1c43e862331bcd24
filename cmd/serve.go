package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/config"
	"github.com/bgbarbearia/barbershop-admin/internal/db"
	httpSrv "github.com/bgbarbearia/barbershop-admin/internal/http"
	"github.com/bgbarbearia/barbershop-admin/internal/kafka"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/metrics"
	"github.com/bgbarbearia/barbershop-admin/internal/notifier"
	"github.com/bgbarbearia/barbershop-admin/internal/service/auth"
	"github.com/bgbarbearia/barbershop-admin/internal/session"
	"github.com/bgbarbearia/barbershop-admin/internal/settings"
	"github.com/bgbarbearia/barbershop-admin/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		metrics.MustRegister(prometheus.DefaultRegisterer)

		redisClient, err := db.NewRedisClient(cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		settingsStore := settings.NewStore(redisClient, cfg.Notify.WebhookURL)

		n, closeNotifier, err := buildNotifier(cfg, settingsStore)
		if err != nil {
			return err
		}
		defer closeNotifier()

		app, err := openCore(cfg, n)
		if err != nil {
			return err
		}
		defer app.Close()

		loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
		if err := app.customers.Load(loadCtx); err != nil {
			cancelLoad()
			return fmt.Errorf("load customers: %w", err)
		}
		cancelLoad()

		server := httpSrv.NewServer(cfg, httpSrv.Services{
			Customers: app.customers,
			Templates: app.templates,
			Dispatch:  app.dispatch,
			Auth:      auth.New(cfg.Auth.Password, session.NewStore(redisClient, cfg.Auth.SessionTTL)),
			Settings:  settingsStore,
		}, redisClient)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			logger.Log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil {
				logger.Log.Error("http server exited", zap.Error(err))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}

// buildNotifier picks the new-customer notifier for notify.mode.
func buildNotifier(cfg config.Config, urls notifier.URLSource) (notifier.Notifier, func(), error) {
	switch cfg.Notify.Mode {
	case config.NotifyModeOff:
		return notifier.Nop{}, func() {}, nil
	case config.NotifyModeKafka:
		p := kafka.NewProducer(cfg.Kafka, func(err error) {
			logger.Log.Warn("kafka delivery failed", zap.Error(err))
		})
		return notifier.NewKafka(p, urls), func() { _ = p.Close() }, nil
	case config.NotifyModeDirect, "":
		d := notifier.NewDirect(webhook.NewClient(cfg.Notify.Timeout), urls, cfg.Notify.Timeout)
		return d, d.Wait, nil
	default:
		return nil, nil, fmt.Errorf("unknown notify.mode %q", cfg.Notify.Mode)
	}
}
