package ctl

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newClientsCmd(env Env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List clients sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := env.Backend(cmd.Context())
			if err != nil {
				return err
			}
			defer res.Cleanup()

			clients, err := res.Tracker().ListClients(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(clients)
			case "text":
				for _, c := range clients {
					fmt.Fprintf(out, "%s\t%s\n", c.ID, c.Name)
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q: use text or json", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	return cmd
}
