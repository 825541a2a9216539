package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"thinkgraph/internal/db"
	"thinkgraph/internal/metrics"
	"thinkgraph/internal/reasoning"
	"thinkgraph/internal/thinkgraph"
	"thinkgraph/internal/transcript"
)

var (
	ingestSession  string
	ingestParent   string
	ingestNodeType string
	ingestQuery    string
	ingestRaw      bool
	ingestTextfile string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [transcript.jsonl|-]",
	Short: "Extract reasoning from a stream-json transcript and persist it",
	Long: `Reads Claude stream-json output (or plain thinking text with --raw),
extracts steps, decision points and a confidence score, and stores them as a
thinking node. Use --parent latest to continue from the newest node of the
session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		r, closeInput, err := openInput(cmd, args)
		if err != nil {
			return err
		}
		defer closeInput()

		tr, err := readTranscript(r)
		if err != nil {
			return err
		}

		sessionID := ingestSession
		if sessionID == "" {
			sessionID = tr.SessionID
		}
		if sessionID == "" {
			return fmt.Errorf("no session id: pass --session or ingest a transcript with a result event")
		}

		d, err := OpenDatabase(true)
		if err != nil {
			return err
		}
		defer d.Close()

		reg := prometheus.NewRegistry()
		engine := newEngine(d, reg)

		opts := thinkgraph.PersistOptions{
			SessionID:  sessionID,
			NodeType:   db.NodeType(ingestNodeType),
			TokenUsage: tr.Usage,
		}
		if ingestQuery != "" {
			opts.InputQuery = &ingestQuery
		}
		if tr.Response != "" {
			opts.Response = &tr.Response
		}
		if ingestParent != "" {
			parent, err := resolveParent(cmd, d, sessionID, ingestParent)
			if err != nil {
				return err
			}
			opts.ParentNodeID = parent
		}

		res, err := engine.PersistThinkingNode(ctx, tr.Segments, opts)
		if err != nil {
			return err
		}

		textfile := ingestTextfile
		if textfile == "" {
			textfile = cfg.Metrics.Textfile
		}
		if textfile != "" {
			if err := metrics.WriteTextfile(textfile, reg); err != nil {
				return err
			}
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), res)
		}
		printPersistResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSession, "session", "", "Session id (default: from the transcript)")
	ingestCmd.Flags().StringVar(&ingestParent, "parent", "", "Parent node id, prefix, or 'latest'")
	ingestCmd.Flags().StringVar(&ingestNodeType, "node-type", "", "Node type: thinking, compaction_summary, fork_branch, human_annotation")
	ingestCmd.Flags().StringVar(&ingestQuery, "query", "", "User query that prompted the reasoning")
	ingestCmd.Flags().BoolVar(&ingestRaw, "raw", false, "Treat input as plain thinking text instead of stream-json")
	ingestCmd.Flags().StringVar(&ingestTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file (default metrics.textfile)")
	rootCmd.AddCommand(ingestCmd)
}

func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("opening transcript: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func readTranscript(r io.Reader) (*transcript.Transcript, error) {
	if !ingestRaw {
		return transcript.Parse(r)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return &transcript.Transcript{
		Segments: []reasoning.Segment{reasoning.Thinking(string(b))},
	}, nil
}

// resolveParent maps a --parent reference to a node id. Unresolvable
// references are passed through so the engine can drop them as malformed.
func resolveParent(cmd *cobra.Command, d *db.DB, sessionID, ref string) (*string, error) {
	ctx := cmd.Context()
	if strings.EqualFold(ref, "latest") {
		latest, err := d.GetLatestThinkingNode(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, nil
		}
		return &latest.ID, nil
	}
	if id, ok := thinkgraph.CanonicalID(ref); ok {
		return &id, nil
	}
	if len(ref) >= 6 && isHexDash(ref) {
		if node, err := ResolveNode(ctx, d, ref); err == nil {
			return &node.ID, nil
		}
	}
	return &ref, nil
}

func printPersistResult(w io.Writer, res *thinkgraph.Result) {
	n := res.Node
	fmt.Fprintf(w, "Persisted %s node %s (session %s)\n", n.NodeType, n.ID, n.SessionID)
	fmt.Fprintf(w, "  confidence: %s  steps: %d  decision points: %d\n",
		formatConfidence(n.ConfidenceScore), len(n.StructuredReasoning.Steps), len(res.DecisionPoints))
	if n.ParentNodeID != nil {
		fmt.Fprintf(w, "  parent: %s  linked: %v\n", truncID(*n.ParentNodeID), res.LinkedToParent)
	}
	if n.StructuredReasoning.MainConclusion != nil {
		fmt.Fprintf(w, "  conclusion: %s\n", truncText(*n.StructuredReasoning.MainConclusion, 100))
	}
	if res.Degraded {
		fmt.Fprintf(w, "  DEGRADED: %d issue(s)\n", len(res.PersistenceIssues))
		for _, issue := range res.PersistenceIssues {
			step := ""
			if issue.StepNumber != nil {
				step = fmt.Sprintf(" step %d", *issue.StepNumber)
			}
			fmt.Fprintf(w, "    [%s%s] %s\n", issue.Stage, step, issue.Message)
		}
	}
}
