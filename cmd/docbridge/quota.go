package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQuotaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the source-control API quota for the configured credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.shutdown()

			quota, err := app.forge.Quota(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("limit:     %d\n", quota.Limit)
			fmt.Printf("remaining: %d\n", quota.Remaining)
			fmt.Printf("resets at: %s\n", quota.ResetAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
