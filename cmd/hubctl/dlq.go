package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AERESAL/VolunteerHub-Backend/internal/bootstrap"
	"github.com/AERESAL/VolunteerHub-Backend/internal/outbox"
)

var dlqBatchSize int

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Inspect and replay the outbox dead-letter queue",
}

var dlqReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Requeue due DLQ entries once and quarantine exhausted ones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.UsePostgres() {
			return errNoPostgres
		}
		if dlqBatchSize <= 0 {
			return errors.New("--batch must be positive")
		}
		app, err := bootstrap.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		manager := outbox.NewDLQManager(app.Pool, cfg.DLQMaxRetries, cfg.DLQBaseDelay)
		requeued, err := manager.RunOnce(cmd.Context(), dlqBatchSize)
		fmt.Fprintf(cmd.OutOrStdout(), "requeued: %d\n", requeued)
		return err
	},
}

func init() {
	dlqReplayCmd.Flags().IntVar(&dlqBatchSize, "batch", 50, "Maximum entries to process")
	dlqCmd.AddCommand(dlqReplayCmd)
}
