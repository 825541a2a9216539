package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"thinkgraph/internal/db"
)

var (
	traverseMaxDepth  int
	traverseEdgeTypes string
	traverseDirection string
)

var traverseCmd = &cobra.Command{
	Use:   "traverse <id>",
	Short: "Breadth-first walk of the reasoning graph from a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		start, err := ResolveNode(ctx, d, args[0])
		if err != nil {
			return err
		}

		opts := db.TraverseOptions{
			MaxDepth:  traverseMaxDepth,
			Direction: db.Direction(traverseDirection),
		}
		if traverseEdgeTypes != "" {
			for _, t := range strings.Split(traverseEdgeTypes, ",") {
				opts.EdgeTypes = append(opts.EdgeTypes, db.EdgeType(strings.TrimSpace(t)))
			}
		}

		nodes, err := newEngine(d, nil).Traverse(ctx, start.ID, opts)
		if err != nil {
			return fmt.Errorf("traversal: %w", err)
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), nodes)
		}
		printTraversal(cmd.OutOrStdout(), nodes)
		return nil
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain <id>",
	Short: "Show the reasoning chain from the session root to a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		target, err := ResolveNode(ctx, d, args[0])
		if err != nil {
			return err
		}
		chain, err := newEngine(d, nil).GetReasoningChain(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("chain: %w", err)
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), chain)
		}
		w := cmd.OutOrStdout()
		for _, c := range chain {
			indent := strings.Repeat("  ", min(c.ChainPosition, 10))
			fmt.Fprintf(w, "%s%2d. %s conf=%s  %s\n", indent,
				c.ChainPosition, truncID(c.Node.ID), formatConfidence(c.Node.ConfidenceScore), conclusionOrExcerpt(c.Node))
		}
		fmt.Fprintf(w, "\n%d node(s) in chain\n", len(chain))
		return nil
	},
}

func init() {
	traverseCmd.Flags().IntVar(&traverseMaxDepth, "max-depth", 0, "Max hops (default query.max_depth)")
	traverseCmd.Flags().StringVar(&traverseEdgeTypes, "edge-types", "", "Comma-separated edge type allowlist")
	traverseCmd.Flags().StringVar(&traverseDirection, "direction", "outgoing", "outgoing, incoming, or both")
	rootCmd.AddCommand(traverseCmd, chainCmd)
}

func conclusionOrExcerpt(n db.ThinkingNode) string {
	if n.StructuredReasoning.MainConclusion != nil {
		return truncText(*n.StructuredReasoning.MainConclusion, 70)
	}
	return truncText(n.Reasoning, 70)
}

func printTraversal(w io.Writer, nodes []db.TraversedNode) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "Start node not found")
		return
	}
	for _, t := range nodes {
		via := "start"
		if t.EdgeType != nil && t.ViaID != nil {
			via = fmt.Sprintf("%s from %s", *t.EdgeType, truncID(*t.ViaID))
		}
		fmt.Fprintf(w, "  d=%d  %s  [%s]  %s\n", t.Depth, truncID(t.Node.ID), via, conclusionOrExcerpt(t.Node))
	}
	fmt.Fprintf(w, "\n%d node(s) reached\n", len(nodes))
}
