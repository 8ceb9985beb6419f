package ctl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"timerelay/internal/core"
)

func newReportCmd(env Env) *cobra.Command {
	var (
		clientID   string
		clientName string
		dryRun     bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the trailing-week report of one client",
		Long: `report aggregates the client's time entries of the last 7 days per
demand and overwrites the sheet named after the client. With --dry-run the
table is printed and nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := env.Backend(cmd.Context())
			if err != nil {
				return err
			}
			defer res.Cleanup()

			out := cmd.OutOrStdout()
			reports := res.Reports()

			if dryRun {
				rep, msg, err := reports.Aggregate(cmd.Context(), clientID, clientName)
				if err != nil {
					return err
				}
				if rep.Empty() {
					fmt.Fprintln(out, msg)
					return nil
				}
				return printReport(out, rep, format)
			}

			result, err := reports.Generate(cmd.Context(), clientID, clientName)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result.Message)
			if result.Written() {
				fmt.Fprintln(out, result.SheetURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Client record id (required)")
	cmd.Flags().StringVar(&clientName, "client-name", "", "Client name, also the sheet name (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the table instead of writing it")
	cmd.Flags().StringVar(&format, "format", "md", "Dry-run output format: md, csv")
	_ = cmd.MarkFlagRequired("client-id")
	_ = cmd.MarkFlagRequired("client-name")
	return cmd
}

func printReport(w io.Writer, rep core.Report, format string) error {
	switch format {
	case "csv":
		fmt.Fprintln(w, "demand,hours")
		for _, r := range rep.Rows {
			fmt.Fprintf(w, "%s,%s\n", csvEscape(r.DemandName), formatHours(r.TotalHours))
		}
	case "md":
		fmt.Fprintln(w, "| Demand | Hours |")
		fmt.Fprintln(w, "|---|---:|")
		for _, r := range rep.Rows {
			fmt.Fprintf(w, "| %s | %s |\n", r.DemandName, formatHours(r.TotalHours))
		}
	default:
		return fmt.Errorf("unknown format %q: use md or csv", format)
	}
	return nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// csvEscape quotes a field when it contains a separator, quote or newline.
func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
