package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AERESAL/VolunteerHub-Backend/internal/bootstrap"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill-ids",
	Short: "Assign ids to activities stored without one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.UsePostgres() {
			return errNoPostgres
		}
		app, err := bootstrap.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		fixed, err := app.Ledger.BackfillAll(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "collections updated: %d\n", fixed)
		return err
	},
}
