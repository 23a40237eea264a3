package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question from the indexed corpus and exits.
The index is built on first use if no persisted index exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistant == nil || indexer == nil {
		return errors.New("assistant not configured")
	}

	ctx := cmd.Context()

	if err := indexer.EnsureReady(ctx); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Println(assistant.Answer(ctx, args[0]))
	return nil
}
