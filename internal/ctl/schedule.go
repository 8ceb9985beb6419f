package ctl

import (
	"fmt"

	"github.com/spf13/cobra"

	applog "timerelay/internal/log"
	"timerelay/internal/worker"
)

func newScheduleCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Queue a report request for every client",
		Long: `schedule publishes one report request per client to the AMQP queue
consumed by report-worker, the same run the worker performs on its interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.Publisher == nil {
				return errNoPublisher
			}
			res, err := env.Backend(cmd.Context())
			if err != nil {
				return err
			}
			defer res.Cleanup()

			pub, closePub, err := env.Publisher(cmd.Context())
			if err != nil {
				return err
			}
			defer closePub()

			w := worker.NewReportWorker(res.Reports(), res.Tracker(), applog.FromContext(cmd.Context()))
			n, err := w.ScheduleAll(cmd.Context(), pub)
			fmt.Fprintf(cmd.OutOrStdout(), "queued %d report request(s)\n", n)
			return err
		},
	}
}
