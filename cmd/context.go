package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"thinkgraph/internal/db"
)

var ctxLimit int

var contextCmd = &cobra.Command{
	Use:   "context <session-id>",
	Short: "Summarize the most recent reasoning of a session",
	Long: `Prints the newest nodes of a session with their conclusion, confidence,
step count and decision point count. This is the compact view meant for
downstream analysis, not a dump of raw reasoning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		summaries, err := newEngine(d, nil).GetSessionReasoningContext(ctx, args[0], ctxLimit)
		if err != nil {
			return fmt.Errorf("session context: %w", err)
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), struct {
				SessionID string           `json:"sessionId"`
				Nodes     []db.NodeSummary `json:"nodes"`
				Count     int              `json:"count"`
			}{args[0], summaries, len(summaries)})
		}

		printContextHumanReadable(cmd.OutOrStdout(), args[0], summaries)
		return nil
	},
}

func init() {
	contextCmd.Flags().IntVar(&ctxLimit, "limit", 0, "Max nodes (default context.limit)")
	rootCmd.AddCommand(contextCmd)
}

func printContextHumanReadable(w io.Writer, sessionID string, summaries []db.NodeSummary) {
	if len(summaries) == 0 {
		fmt.Fprintf(w, "No reasoning recorded for session: %s\n", sessionID)
		return
	}

	fmt.Fprintf(w, "Context for session %s (newest first)\n\n", sessionID)
	for i, s := range summaries {
		parent := "root"
		if s.ParentNodeID != nil {
			parent = "<- " + truncID(*s.ParentNodeID)
		}
		fmt.Fprintf(w, "  %2d. %s %-18s conf=%s steps=%d decisions=%d  %s\n",
			i+1, truncID(s.ID), s.NodeType, formatConfidence(s.ConfidenceScore),
			s.StepCount, s.DecisionPointCount, parent)

		text := s.Excerpt
		if s.MainConclusion != nil {
			text = *s.MainConclusion
		}
		fmt.Fprintf(w, "      %s\n", truncText(text, 100))
	}

	fmt.Fprintf(w, "\n%d node(s)\n", len(summaries))
}
