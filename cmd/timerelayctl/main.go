package main

import (
	"context"
	"fmt"
	"os"

	"timerelay/internal/amqp"
	"timerelay/internal/backend"
	"timerelay/internal/cli"
	"timerelay/internal/config"
	"timerelay/internal/ctl"
	applog "timerelay/internal/log"
	"timerelay/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.Level(), applog.ComponentCLI)

	env := ctl.Env{
		Backend: func(ctx context.Context) (*backend.Result, error) {
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			bc, err := backend.FromAppConfig(cfg)
			if err != nil {
				return nil, err
			}
			return backend.NewFactory(logger).CreateBackend(ctx, bc)
		},
	}
	if cfg.AMQPURL != "" {
		env.Publisher = func(ctx context.Context) (worker.Publisher, func() error, error) {
			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
			if err != nil {
				return nil, nil, err
			}
			return client, client.Close, nil
		}
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	if err := ctl.NewRootCmd(env).ExecuteContext(applog.WithLogger(ctx, logger)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
