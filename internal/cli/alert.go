package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nexus-platform/nexus-monitor/pkg/client"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertCreateCmd())
	cmd.AddCommand(newAlertStatsCmd())
	cmd.AddCommand(newAlertAckCmd())
	cmd.AddCommand(newAlertResolveCmd())
	cmd.AddCommand(newAlertCleanupCmd())
	cmd.AddCommand(newAlertDeliveriesCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var severity, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			alerts, err := apiClient.Alerts().List(ctx, &client.AlertListOptions{
				Severity: severity,
				Status:   status,
			})
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(alerts)
			}

			t := NewTable("ID", "TYPE", "SEVERITY", "STATUS", "MESSAGE", "CREATED")
			for _, a := range alerts {
				t.AddRow(
					strconv.FormatInt(a.ID, 10),
					a.Type,
					formatSeverity(a.Severity),
					formatStatus(a.Status),
					truncate(a.Message, 50),
					a.CreatedAt.Format("2006-01-02 15:04:05"),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")

	return cmd
}

func newAlertCreateCmd() *cobra.Command {
	var alertType, severity, message string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := apiClient.Alerts().Create(context.Background(), client.CreateAlertRequest{
				Type:     alertType,
				Severity: severity,
				Message:  message,
			})
			if err != nil {
				return fmt.Errorf("failed to create alert: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}

			fmt.Printf("Alert %d created (%s)\n", a.ID, formatSeverity(a.Severity))
			return nil
		},
	}

	cmd.Flags().StringVar(&alertType, "type", "system", "alert type")
	cmd.Flags().StringVar(&severity, "severity", "low", "severity: low, medium, high, critical")
	cmd.Flags().StringVar(&message, "message", "", "alert message")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func newAlertStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show alert statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := apiClient.Alerts().Stats(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get alert stats: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(stats)
			}

			fmt.Printf("Total alerts: %d\n\n", stats.Total)

			t := NewTable("STATUS", "COUNT")
			for _, s := range []string{"active", "acknowledged", "resolved"} {
				t.AddRow(s, strconv.Itoa(stats.ByStatus[s]))
			}
			t.Render()

			fmt.Println()
			t = NewTable("SEVERITY", "COUNT")
			for _, s := range []string{"critical", "high", "medium", "low"} {
				t.AddRow(s, strconv.Itoa(stats.BySeverity[s]))
			}
			t.Render()
			return nil
		},
	}
}

func newAlertAckCmd() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "ack <id>",
		Short: "Acknowledge an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			a, err := apiClient.Alerts().Acknowledge(context.Background(), id, by)
			if err != nil {
				return fmt.Errorf("failed to acknowledge alert: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}

			fmt.Printf("Alert %d acknowledged\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "who is acknowledging")

	return cmd
}

func newAlertResolveCmd() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			a, err := apiClient.Alerts().Resolve(context.Background(), id, by)
			if err != nil {
				return fmt.Errorf("failed to resolve alert: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}

			fmt.Printf("Alert %d resolved\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "who is resolving")

	return cmd
}

func newAlertCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove old resolved alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := apiClient.Alerts().Cleanup(context.Background())
			if err != nil {
				return fmt.Errorf("failed to clean up alerts: %w", err)
			}

			fmt.Printf("Removed %d alerts\n", removed)
			return nil
		},
	}
}

func newAlertDeliveriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deliveries",
		Short: "Show recent notification deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			deliveries, err := apiClient.Alerts().Deliveries(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list deliveries: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(deliveries)
			}

			t := NewTable("ALERT", "CHANNEL", "STATUS", "TIME", "ERROR")
			for _, d := range deliveries {
				t.AddRow(
					strconv.FormatInt(d.AlertID, 10),
					d.Channel,
					formatStatus(d.Status),
					d.Timestamp.Format("2006-01-02 15:04:05"),
					truncate(d.Error, 40),
				)
			}
			t.Render()
			return nil
		},
	}
}
