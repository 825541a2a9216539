package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"thinkgraph/internal/graph"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <session-id>",
	Short: "Analyze a session graph: roots, forks, chain depth, components, bridges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		report, err := newEngine(d, nil).AnalyzeSession(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analyzing session: %w", err)
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), report)
		}
		printHumanReadable(cmd.OutOrStdout(), args[0], report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func printHumanReadable(w io.Writer, sessionID string, report *graph.Report) {
	if report.NodeCount == 0 {
		fmt.Fprintf(w, "No reasoning recorded for session: %s\n", sessionID)
		return
	}

	fmt.Fprintf(w, "\n  Session %s\n", sessionID)
	fmt.Fprintf(w, "  Nodes: %d  Edges: %d  Components: %d\n",
		report.NodeCount, report.EdgeCount, report.Topology.NumComponents)
	fmt.Fprintf(w, "  Longest chain: %d  Avg confidence: %s  Decisions/node: %.2f (%d total)\n",
		report.MaxChainDepth, formatConfidence(report.AverageConfidence),
		report.DecisionsPerNode, report.DecisionPointCount)

	fmt.Fprintln(w, "\n  STRUCTURE")
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	fmt.Fprintf(w, "  Roots: %d\n", len(report.Roots))
	for _, id := range limitIDs(report.Roots, 5) {
		fmt.Fprintf(w, "    - %s\n", truncID(id))
	}
	if len(report.OrphanedForks) > 0 {
		fmt.Fprintf(w, "  Orphaned forks: %d (fork branches with no incoming edge)\n", len(report.OrphanedForks))
		for _, id := range limitIDs(report.OrphanedForks, 5) {
			fmt.Fprintf(w, "    - %s\n", truncID(id))
		}
	}
	if len(report.EdgeTypes) > 0 {
		fmt.Fprintln(w, "\n  Edge types:")
		for _, et := range report.EdgeTypes {
			fmt.Fprintf(w, "    %-12s %4d\n", et.EdgeType, et.Count)
		}
	}

	// Degree distribution
	t := report.Topology
	fmt.Fprintln(w, "\n  Degree distribution:")
	for _, b := range t.DegreeHistogram {
		if b.Count > 0 {
			barWidth := int(math.Log2(float64(b.Count))) + 2
			fmt.Fprintf(w, "    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}
	if len(t.Hubs) > 0 {
		fmt.Fprintln(w, "\n  Hubs:")
		for _, hub := range t.Hubs {
			fmt.Fprintf(w, "    %s degree=%d (in=%d, out=%d)\n", truncID(hub.ID), hub.Degree, hub.InDegree, hub.OutDegree)
		}
	}

	br := report.Bridges
	if len(br.Pivots) > 0 || len(br.Bridges) > 0 {
		fmt.Fprintln(w, "\n  STRUCTURAL FRAGILITY")
		fmt.Fprintln(w, "  ────────────────────────────────────────")
		if len(br.Pivots) > 0 {
			fmt.Fprintf(w, "  %d pivot node(s) (removal splits the reasoning):\n", len(br.Pivots))
			for _, p := range br.Pivots[:min(len(br.Pivots), 10)] {
				fmt.Fprintf(w, "    %s %s degree=%d\n", truncID(p.ID), p.NodeType, p.Degree)
			}
		}
		if len(br.Bridges) > 0 {
			fmt.Fprintf(w, "  %d bridge edge(s):\n", len(br.Bridges))
			for _, b := range br.Bridges[:min(len(br.Bridges), 10)] {
				fmt.Fprintf(w, "    %s -[%s]-> %s\n", truncID(b.SourceID), b.EdgeType, truncID(b.TargetID))
			}
		}
	}

	fmt.Fprintln(w)
}

func limitIDs(ids []string, n int) []string {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}
