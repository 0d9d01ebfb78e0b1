package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AERESAL/VolunteerHub-Backend/internal/config"
	"github.com/AERESAL/VolunteerHub-Backend/internal/observability"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "VolunteerHub admin tool",
	Long: `hubctl runs maintenance tasks against the database, cache and outbox
configured through the usual VOLUNTEERHUB_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		observability.ConfigureLogger(cfg)
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(dlqCmd)
}
