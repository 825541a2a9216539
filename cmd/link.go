package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thinkgraph/internal/db"
	"thinkgraph/internal/thinkgraph"
)

var (
	linkType   string
	linkWeight float64
)

var linkCmd = &cobra.Command{
	Use:   "link <source> <target>",
	Short: "Create a reasoning edge between two nodes",
	Long: fmt.Sprintf(`Creates a directed edge from source to target.

Edge types: %v`, db.EdgeTypes()),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		source, err := ResolveNode(ctx, d, args[0])
		if err != nil {
			return fmt.Errorf("source: %w", err)
		}
		target, err := ResolveNode(ctx, d, args[1])
		if err != nil {
			return fmt.Errorf("target: %w", err)
		}

		edge, err := newEngine(d, nil).LinkNodes(ctx, thinkgraph.LinkInput{
			SourceID: source.ID,
			TargetID: target.ID,
			EdgeType: db.EdgeType(linkType),
			Weight:   linkWeight,
		})
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), edge)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s -[%s %.2f]-> %s (edge %s)\n",
			truncID(edge.SourceID), edge.EdgeType, edge.Weight, truncID(edge.TargetID), truncID(edge.ID))
		return nil
	},
}

func init() {
	linkCmd.Flags().StringVar(&linkType, "type", string(db.EdgeInfluences), "Edge type")
	linkCmd.Flags().Float64Var(&linkWeight, "weight", 1.0, "Edge weight in (0, 10]")
	rootCmd.AddCommand(linkCmd)
}
