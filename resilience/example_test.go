package resilience_test

import (
	"context"
	"fmt"
	"time"

	"github.com/openlocalize/docbridge/resilience"
)

// ExampleDispatcher shows the full composition: one scheduler per target
// API, a backoff envelope, and a gateway for the credential pair.
func ExampleDispatcher() {
	scheduler := resilience.NewScheduler(resilience.SchedulerConfig{
		MaxConcurrent: 2,
		MinInterval:   time.Millisecond,
	})
	defer scheduler.Shutdown(context.Background())

	dispatcher := resilience.NewDispatcher("github", scheduler, resilience.BackoffConfig{
		InitialDelay: 10 * time.Millisecond,
		MaxRetries:   3,
	})

	type client struct{ token string }
	gateway := resilience.NewGateway(
		&client{token: "primary"},
		resilience.WithSecondary(&client{token: "secondary"}),
	)

	body, err := resilience.DispatchValue(context.Background(), dispatcher, "contents.get",
		func(ctx context.Context) (string, error) {
			return resilience.InvokeValue(ctx, gateway, resilience.NamespaceContents, "get",
				func(ctx context.Context, c *client) (string, error) {
					return "# Getting Started", nil
				})
		})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(body)
	// Output: # Getting Started
}

// ExampleBackoff demonstrates the retry envelope on its own.
func ExampleBackoff() {
	backoff := resilience.NewBackoff(resilience.BackoffConfig{
		InitialDelay: time.Millisecond,
		MaxRetries:   5,
	})

	calls := 0
	err := backoff.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &resilience.StatusError{Code: 429, Message: "throttled"}
		}
		return nil
	})

	fmt.Println(err, calls)
	// Output: <nil> 3
}
