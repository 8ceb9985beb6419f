package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"timerelay/internal/amqp"
	"timerelay/internal/cli"
	"timerelay/internal/config"
	applog "timerelay/internal/log"
	"timerelay/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	boot := cli.SetupLogger(applog.DefaultConfig().Level, applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.Level(), applog.ComponentWorker)

	if err := run(logger, cfg); err != nil {
		logger.Error("Report worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Report worker shutdown complete")
}

// run owns every resource so deferred cleanups complete before main exits.
func run(logger *applog.Logger, cfg *config.Config) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required for the report worker")
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	res := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	reports := res.Reports()
	if !reports.Configured() {
		return errors.New("spreadsheet credentials are required for the report worker")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer client.Close()

	w := worker.NewReportWorker(reports, res.Tracker(), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeReportRequests(gctx, w.HandleReportRequest)
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ReportInterval)
		defer ticker.Stop()
		logger.Info("Report scheduler started",
			applog.FieldOperation, applog.OpStartup,
			"interval", cfg.ReportInterval)
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if _, err := w.ScheduleAll(gctx, client); err != nil {
					logger.Error("Scheduled report run failed", applog.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
