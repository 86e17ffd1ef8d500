package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"shopledger/internal/amqp"
	"shopledger/internal/config"
	applog "shopledger/internal/log"
	"shopledger/internal/storage"
	"shopledger/internal/worker"
)

func main() {
	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentAudit)
	applog.SetDefault(logger)

	logger.Info("Starting shopledger-auditor")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit consumer")
		os.Exit(1)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		logger.Error("Failed to open storage", applog.FieldError, err, applog.FieldDriver, cfg.DBDriver)
		os.Exit(1)
	}
	defer store.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	auditWorker := worker.NewAuditWorker(store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeAuditEvents(ctx, func(event *amqp.AuditEvent) error {
			return auditWorker.HandleAuditEvent(ctx, event)
		})
	})

	logger.Info("Audit consumer started", "queue", cfg.AMQPQueue)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Audit consumer failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Audit consumer stopped gracefully")
}
