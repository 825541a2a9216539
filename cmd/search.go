package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"thinkgraph/internal/db"
)

var (
	searchSession string
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over stored reasoning",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		query := strings.Join(args, " ")
		results, err := newEngine(d, nil).Search(ctx, query, db.SearchOptions{
			SessionID: searchSession,
			Limit:     searchLimit,
		})
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), results)
		}
		w := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(w, "No reasoning matches: %s\n", query)
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(w, "  %2d. %s  session=%s  conf=%s  %s\n",
				r.Rank, truncID(r.Node.ID), truncID(r.Node.SessionID), formatConfidence(r.Node.ConfidenceScore),
				truncText(r.Node.Reasoning, 70))
		}
		fmt.Fprintf(w, "\n%d result(s)\n", len(results))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchSession, "session", "", "Limit results to one session")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Max results (default query.default_limit)")
	rootCmd.AddCommand(searchCmd)
}
