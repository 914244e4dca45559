package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database health and monitoring",
	}

	cmd.AddCommand(newDBStatusCmd())
	cmd.AddCommand(newDBCountersCmd())
	cmd.AddCommand(newDBResetCmd())

	return cmd
}

func newDBStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Run a database health probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := apiClient.Database().Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get database status: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(report)
			}

			fmt.Printf("Overall:   %s\n", formatStatus(report.Status))
			fmt.Printf("Connected: %t\n", report.Connected)
			if report.Error != "" {
				fmt.Printf("Error:     %s\n", report.Error)
			}

			if len(report.Checks) > 0 {
				fmt.Println()
				t := NewTable("CHECK", "STATUS", "MESSAGE")
				names := make([]string, 0, len(report.Checks))
				for name := range report.Checks {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					check := report.Checks[name]
					t.AddRow(name, formatStatus(check.Status), truncate(check.Message, 60))
				}
				t.Render()
			}

			if len(report.Tables) > 0 {
				fmt.Println()
				t := NewTable("TABLE", "ROWS")
				names := make([]string, 0, len(report.Tables))
				for name := range report.Tables {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					stat := report.Tables[name]
					if stat.Error != "" {
						t.AddRow(name, "error: "+truncate(stat.Error, 40))
						continue
					}
					t.AddRow(name, strconv.FormatInt(stat.Count, 10))
				}
				t.Render()
			}

			return nil
		},
	}
}

func newDBCountersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counters",
		Short: "Show database monitoring counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiClient.Database().Monitoring(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get monitoring counters: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(data)
			}

			t := NewTable("COUNTER", "VALUE")
			t.AddRow("connections", strconv.FormatInt(data.Connections, 10))
			t.AddRow("queries", strconv.FormatInt(data.Queries, 10))
			t.AddRow("slow_queries", strconv.FormatInt(data.SlowQueries, 10))
			t.AddRow("errors", strconv.FormatInt(data.Errors, 10))
			if data.LastCheck != nil {
				t.AddRow("last_check", data.LastCheck.Format("2006-01-02 15:04:05"))
			}
			t.Render()
			return nil
		},
	}
}

func newDBResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset database monitoring counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Database().ResetMonitoring(context.Background()); err != nil {
				return fmt.Errorf("failed to reset counters: %w", err)
			}

			fmt.Println("Monitoring counters reset")
			return nil
		},
	}
}
