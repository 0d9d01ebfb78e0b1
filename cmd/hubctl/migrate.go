package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/AERESAL/VolunteerHub-Backend/internal/persistence/postgres"
)

var errNoPostgres = errors.New("VOLUNTEERHUB_POSTGRES_URL is not set")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.UsePostgres() {
			return errNoPostgres
		}
		return postgres.Migrate(cmd.Context(), cfg.PostgresURL)
	},
}
