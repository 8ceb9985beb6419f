package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"timerelay/internal/cli"
	"timerelay/internal/config"
	apphttp "timerelay/internal/http"
	applog "timerelay/internal/log"
)

func main() {
	cli.LoadEnvFile()

	boot := cli.SetupLogger(applog.DefaultConfig().Level, applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.Level(), applog.ComponentApp)

	if err := run(logger, cfg); err != nil {
		logger.Error("Server failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(logger *applog.Logger, cfg *config.Config) error {
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
		logger.Warn("POST /api/generate-report will fail until spreadsheet credentials are set")
	}

	srv := apphttp.NewServer(":"+cfg.Port, res.Tracker(), reports, logger)
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting timerelay",
			applog.FieldOperation, applog.OpStartup,
			"addr", srv.Addr,
			"backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", applog.FieldError, err)
	}
	return nil
}
