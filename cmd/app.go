package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bgbarbearia/barbershop-admin/internal/config"
	"github.com/bgbarbearia/barbershop-admin/internal/db"
	"github.com/bgbarbearia/barbershop-admin/internal/dispatcher"
	"github.com/bgbarbearia/barbershop-admin/internal/notifier"
	"github.com/bgbarbearia/barbershop-admin/internal/repository"
	"github.com/bgbarbearia/barbershop-admin/internal/service/customers"
	"github.com/bgbarbearia/barbershop-admin/internal/service/templates"
	"github.com/bgbarbearia/barbershop-admin/internal/webhook"
)

// core holds the MySQL-backed services shared by serve and the one-shot commands.
type core struct {
	db        *sqlx.DB
	customers *customers.Service
	templates *templates.Service
	dispatch  *dispatcher.Service
}

func openCore(cfg config.Config, n notifier.Notifier) (*core, error) {
	mysqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.OptsFromConfig(cfg.MySQL))
	if err != nil {
		return nil, fmt.Errorf("mysql connect: %w", err)
	}

	custSvc := customers.New(repository.NewCustomersRepository(mysqlDB), n)
	tplSvc := templates.New(repository.NewTemplatesRepository(mysqlDB))
	engine := dispatcher.NewEngine(webhook.NewClient(cfg.Dispatch.Timeout), cfg.Dispatch.WebhookURL, cfg.Dispatch.Source)

	return &core{
		db:        mysqlDB,
		customers: custSvc,
		templates: tplSvc,
		dispatch:  dispatcher.NewService(engine, custSvc, tplSvc),
	}, nil
}

func (c *core) Close() { _ = c.db.Close() }
