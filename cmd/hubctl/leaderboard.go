package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AERESAL/VolunteerHub-Backend/internal/bootstrap"
	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

var leaderboardFormat string

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the volunteer hours leaderboard",
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

		entries, err := app.Leaderboard.Compute(cmd.Context())
		if err != nil {
			return err
		}
		return writeLeaderboard(cmd.OutOrStdout(), leaderboardFormat, entries)
	},
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardFormat, "format", "table", "Output format: table, json")
}

func writeLeaderboard(w io.Writer, format string, entries []domain.LeaderboardEntry) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]domain.LeaderboardEntry{"leaderboard": entries})
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tUSERNAME\tNAME\tAPPROVED\tUNAPPROVED")
		for i, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\n", i+1, e.Username, e.DisplayName, e.ApprovedHours, e.UnapprovedHours)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}
