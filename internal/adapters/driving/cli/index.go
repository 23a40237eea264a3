package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or load the document index",
	Long: `Loads the persisted index when one exists, otherwise reads the
corpus directory and builds a fresh index.

Use --rebuild to discard the persisted index and re-read the corpus,
for example after adding or editing documents.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "re-read the corpus even if a persisted index exists")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	ctx := cmd.Context()

	var err error
	if indexRebuild {
		err = indexer.Rebuild(ctx)
	} else {
		err = indexer.EnsureReady(ctx)
	}
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Index ready (state: %s)\n", indexer.State())
	return nil
}
