package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"thinkgraph/internal/confidence"
)

var scoreCmd = &cobra.Command{
	Use:   "score [text|-]",
	Short: "Print the heuristic confidence score of free text",
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			text = string(b)
		} else {
			text = strings.Join(args, " ")
		}

		score := confidence.Score(text)
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), struct {
				Confidence *float64 `json:"confidence"`
			}{score})
		}
		if score == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no score (empty text)")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", *score)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
