package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show monitoring summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				if stats, err := apiClient.Alerts().Stats(ctx); err == nil {
					summary["alerts"] = stats
				}
				if report, err := apiClient.Database().Status(ctx); err == nil {
					summary["database"] = report.Status
				}
				if view, err := apiClient.Logs().RealTime(ctx); err == nil {
					summary["logs"] = view
				}
				return printOutput(summary)
			}

			fmt.Println("NEXUS Monitoring Summary")
			fmt.Println(strings.Repeat("=", 40))

			stats, err := apiClient.Alerts().Stats(ctx)
			if err != nil {
				fmt.Printf("  Alerts:    (error: %v)\n", err)
			} else {
				fmt.Printf("  Alerts:    %d total (%d active", stats.Total, stats.ByStatus["active"])
				if critical := stats.BySeverity["critical"]; critical > 0 {
					fmt.Printf(", %d critical", critical)
				}
				fmt.Println(")")
			}

			report, err := apiClient.Database().Status(ctx)
			if err != nil {
				fmt.Printf("  Database:  (error: %v)\n", err)
			} else {
				fmt.Printf("  Database:  %s\n", formatStatus(report.Status))
			}

			view, err := apiClient.Logs().RealTime(ctx)
			if err != nil {
				fmt.Printf("  Logs:      (error: %v)\n", err)
			} else {
				fmt.Printf("  Logs:      %d errors, %d warnings last hour (%s)\n",
					view.Errors, view.Warnings, view.Trend)
			}

			return nil
		},
	}
}
