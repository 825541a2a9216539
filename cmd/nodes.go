package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"thinkgraph/internal/db"
)

var nodeCmd = &cobra.Command{
	Use:   "node <id>",
	Short: "Show one thinking node with its decision points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		node, err := ResolveNode(ctx, d, args[0])
		if err != nil {
			return err
		}
		points, err := newEngine(d, nil).GetDecisionPoints(ctx, node.ID)
		if err != nil {
			return fmt.Errorf("loading decision points: %w", err)
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), struct {
				Node           *db.ThinkingNode   `json:"node"`
				DecisionPoints []db.DecisionPoint `json:"decisionPoints"`
			}{node, points})
		}
		printNode(cmd.OutOrStdout(), node, points)
		return nil
	},
}

var (
	sessionLimit  int
	sessionOffset int
	sessionLatest bool
)

var sessionCmd = &cobra.Command{
	Use:   "session <session-id>",
	Short: "List the thinking nodes of a session, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()
		engine := newEngine(d, nil)

		if sessionLatest {
			node, err := engine.GetLatestNode(ctx, args[0])
			if err != nil {
				return err
			}
			if node == nil {
				return fmt.Errorf("session %s has no nodes", args[0])
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), node)
			}
			printNodeLine(cmd.OutOrStdout(), *node)
			return nil
		}

		nodes, err := engine.GetSessionNodes(ctx, args[0], db.PageOptions{Limit: sessionLimit, Offset: sessionOffset})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), nodes)
		}
		if len(nodes) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No nodes in session %s\n", args[0])
			return nil
		}
		for _, n := range nodes {
			printNodeLine(cmd.OutOrStdout(), n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d node(s)\n", len(nodes))
		return nil
	},
}

func init() {
	sessionCmd.Flags().IntVar(&sessionLimit, "limit", 0, "Max nodes (default query.default_limit)")
	sessionCmd.Flags().IntVar(&sessionOffset, "offset", 0, "Nodes to skip")
	sessionCmd.Flags().BoolVar(&sessionLatest, "latest", false, "Show only the newest node")
	rootCmd.AddCommand(nodeCmd, sessionCmd)
}

func formatTime(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

func printNodeLine(w io.Writer, n db.ThinkingNode) {
	fmt.Fprintf(w, "  %s  %s  %-18s conf=%s  %s\n",
		truncID(n.ID), formatTime(n.CreatedAt), n.NodeType, formatConfidence(n.ConfidenceScore), truncText(n.Reasoning, 60))
}

func printNode(w io.Writer, n *db.ThinkingNode, points []db.DecisionPoint) {
	fmt.Fprintf(w, "Node %s\n", n.ID)
	fmt.Fprintf(w, "  session:    %s\n", n.SessionID)
	fmt.Fprintf(w, "  type:       %s\n", n.NodeType)
	fmt.Fprintf(w, "  created:    %s\n", formatTime(n.CreatedAt))
	fmt.Fprintf(w, "  confidence: %s\n", formatConfidence(n.ConfidenceScore))
	if n.ParentNodeID != nil {
		fmt.Fprintf(w, "  parent:     %s\n", *n.ParentNodeID)
	}
	if n.InputQuery != nil {
		fmt.Fprintf(w, "  query:      %s\n", truncText(*n.InputQuery, 100))
	}
	if n.TokenUsage != nil {
		fmt.Fprintf(w, "  tokens:     in=%d out=%d thinking=%d\n",
			n.TokenUsage.InputTokens, n.TokenUsage.OutputTokens, n.TokenUsage.ThinkingTokens)
	}

	sr := n.StructuredReasoning
	if len(sr.Steps) > 0 {
		fmt.Fprintf(w, "\n  STEPS (%d, %d alternatives considered)\n", len(sr.Steps), sr.AlternativesConsidered)
		for _, s := range sr.Steps {
			fmt.Fprintf(w, "  %3d. [%s] %s\n", s.StepNumber, s.Type, truncText(s.Content, 90))
		}
	}
	if sr.MainConclusion != nil {
		fmt.Fprintf(w, "\n  CONCLUSION\n  %s\n", truncText(*sr.MainConclusion, 200))
	}
	if len(sr.ConfidenceFactors) > 0 {
		fmt.Fprintln(w, "\n  CONFIDENCE FACTORS")
		for _, f := range sr.ConfidenceFactors {
			fmt.Fprintf(w, "  - %s\n", truncText(f, 100))
		}
	}
	if len(points) > 0 {
		fmt.Fprintf(w, "\n  DECISION POINTS (%d)\n", len(points))
		for _, p := range points {
			fmt.Fprintf(w, "  %3d. %s\n", p.StepNumber, truncText(p.Description, 90))
			fmt.Fprintf(w, "       chose: %s  conf=%s\n", truncText(p.ChosenPath, 70), formatConfidence(p.Confidence))
			for _, a := range p.Alternatives {
				reason := ""
				if a.ReasonRejected != "" {
					reason = " (" + truncText(a.ReasonRejected, 50) + ")"
				}
				fmt.Fprintf(w, "       rejected: %s%s\n", truncText(a.Path, 50), reason)
			}
		}
	}
}
