package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmspace/whatsapp-assistant/internal/adapters/driving/tui"
	"github.com/llmspace/whatsapp-assistant/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Hold a conversation over your documents",
	Long: `Starts an interactive chat. Each question is answered from the
indexed corpus, with recent turns carried as conversation context.

Type 'exit' or press Esc to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if assistant == nil || indexer == nil {
		return errors.New("assistant not configured")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := indexer.EnsureReady(ctx); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	// Corpus changes surface as a notice in the chat status line
	var changes <-chan string
	if watcher != nil {
		ch, err := watcher.Watch(ctx)
		if err != nil {
			logger.Debug("Corpus watch unavailable: %v", err)
		} else {
			changes = ch
		}
	}

	model := tui.NewChat(ctx, assistant, changes)
	if err := model.Run(); err != nil {
		return fmt.Errorf("chat ui: %w", err)
	}
	return nil
}
