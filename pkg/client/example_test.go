package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/nexus-platform/nexus-monitor/pkg/client"
)

// Example demonstrates basic usage of the monitoring client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8090",
	})

	ctx := context.Background()

	stats, err := c.Alerts().Stats(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Active alerts: %d\n", stats.ByStatus["active"])
}

// ExampleAlertService_Create demonstrates raising an alert
func ExampleAlertService_Create() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8090",
	})

	a, err := c.Alerts().Create(context.Background(), client.CreateAlertRequest{
		Type:     "database",
		Severity: "high",
		Message:  "Replica lag above threshold",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Created alert #%d\n", a.ID)
}

// ExampleDatabaseService_Status demonstrates running a health probe
func ExampleDatabaseService_Status() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8090",
	})

	report, err := c.Database().Status(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Database is %s\n", report.Status)
	for name, check := range report.Checks {
		fmt.Printf("  %s: %s\n", name, check.Status)
	}
}
