package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nexus-platform/nexus-monitor/pkg/client"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Log analysis",
	}

	cmd.AddCommand(newLogsAnalyzeCmd())
	cmd.AddCommand(newLogsLastCmd())
	cmd.AddCommand(newLogsRealtimeCmd())

	return cmd
}

func newLogsAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run a fresh log analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := apiClient.Logs().Analyze(context.Background())
			if err != nil {
				return fmt.Errorf("failed to analyze logs: %w", err)
			}
			return renderAnalysis(analysis)
		},
	}
}

func newLogsLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recent analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := apiClient.Logs().Last(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get last analysis: %w", err)
			}
			return renderAnalysis(analysis)
		},
	}
}

func renderAnalysis(analysis *client.LogAnalysis) error {
	if getOutputFormat() != "table" {
		return printOutput(analysis)
	}

	fmt.Printf("Analyzed %d lines: %d errors, %d warnings\n",
		analysis.Statistics.TotalLines,
		analysis.Statistics.TotalErrors,
		analysis.Statistics.TotalWarnings)

	if len(analysis.Statistics.ByCategory) > 0 {
		fmt.Println()
		t := NewTable("CATEGORY", "ERRORS")
		for _, c := range []string{"database", "network", "security", "resource", "performance", "general"} {
			if count, ok := analysis.Statistics.ByCategory[c]; ok {
				t.AddRow(c, strconv.Itoa(count))
			}
		}
		t.Render()
	}

	if len(analysis.Recommendations) > 0 {
		fmt.Println()
		t := NewTable("PRIORITY", "TYPE", "RECOMMENDATION")
		for _, rec := range analysis.Recommendations {
			t.AddRow(rec.Priority, rec.Type, truncate(rec.Message, 60))
		}
		t.Render()
	}

	return nil
}

func newLogsRealtimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "realtime",
		Short: "Show last-hour log activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := apiClient.Logs().RealTime(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get realtime view: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(view)
			}

			fmt.Printf("Last hour: %d errors, %d warnings\n", view.Errors, view.Warnings)
			fmt.Printf("Trend:     %s\n", formatStatus(view.Trend))
			return nil
		},
	}
}
