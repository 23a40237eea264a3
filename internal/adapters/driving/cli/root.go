// Package cli provides the command-line interface for the assistant.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driving"
	"github.com/llmspace/whatsapp-assistant/internal/corpus"
	"github.com/llmspace/whatsapp-assistant/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	assistant driving.Assistant
	indexer   driving.Indexer
	watcher   *corpus.Watcher
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Question answering over your own documents",
	Long: `A retrieval-augmented assistant that indexes a local document
corpus and answers questions grounded in it.

Drop .txt, .md, .html, .csv, .pdf or .docx files into the corpus
directory, run
'assistant index', then ask questions with 'assistant ask' or hold a
conversation with 'assistant chat'.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the core services. Must be called before Execute.
func SetServices(a driving.Assistant, i driving.Indexer) {
	assistant = a
	indexer = i
}

// SetWatcher injects the corpus watcher used by the chat command to
// notice document changes during a conversation. Optional.
func SetWatcher(w *corpus.Watcher) {
	watcher = w
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
