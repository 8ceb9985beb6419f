// Package ctl implements timerelayctl, the operator command line for
// listing clients and running or scheduling weekly reports by hand.
package ctl

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"timerelay/internal/backend"
	"timerelay/internal/worker"
)

// Env supplies the adapters the commands run against. Both builders are
// called lazily so commands that do not need a broker never dial one.
type Env struct {
	Backend   func(ctx context.Context) (*backend.Result, error)
	Publisher func(ctx context.Context) (worker.Publisher, func() error, error)
}

var errNoPublisher = errors.New("AMQP is not configured")

// NewRootCmd builds the command tree.
func NewRootCmd(env Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "timerelayctl",
		Short: "Operate the timerelay record store and weekly reports",
		Long: `timerelayctl talks to the same record store and spreadsheet as the
timerelay server, using the same environment configuration.`,
		SilenceUsage: true,
	}

	root.AddCommand(newClientsCmd(env))
	root.AddCommand(newReportCmd(env))
	root.AddCommand(newScheduleCmd(env))
	return root
}
