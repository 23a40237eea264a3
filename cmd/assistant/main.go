// Command assistant is a retrieval-augmented question answering tool
// over a local document corpus.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	configfile "github.com/llmspace/whatsapp-assistant/internal/adapters/driven/config/file"
	ollamaembed "github.com/llmspace/whatsapp-assistant/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/llmspace/whatsapp-assistant/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/llmspace/whatsapp-assistant/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/llmspace/whatsapp-assistant/internal/adapters/driven/llm/ollama"
	openaillm "github.com/llmspace/whatsapp-assistant/internal/adapters/driven/llm/openai"
	"github.com/llmspace/whatsapp-assistant/internal/adapters/driven/storage/sqlite"
	"github.com/llmspace/whatsapp-assistant/internal/adapters/driving/cli"
	"github.com/llmspace/whatsapp-assistant/internal/chunker"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
	"github.com/llmspace/whatsapp-assistant/internal/core/services"
	"github.com/llmspace/whatsapp-assistant/internal/corpus"
	"github.com/llmspace/whatsapp-assistant/internal/extractors"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/csv"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/docx"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/html"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/markdown"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/pdf"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/plaintext"
	"github.com/llmspace/whatsapp-assistant/internal/logger"
	convmem "github.com/llmspace/whatsapp-assistant/internal/memory"
	vectormem "github.com/llmspace/whatsapp-assistant/internal/vectorindex/memory"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load .env if present, environment wins over file values.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("getting home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".assistant")

	corpusRoot := cfg.GetString("corpus.path")
	if corpusRoot == "" {
		corpusRoot = filepath.Join(baseDir, "corpus")
	}
	dataDir := filepath.Join(baseDir, "data")

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("creating prompt store: %w", err)
	}

	registry := buildRegistry()
	loader := corpus.NewLoader(corpusRoot, registry)
	splitter := buildSplitter(cfg)

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	defer llm.Close()

	store := vectormem.NewFileStore(filepath.Join(dataDir, "corpus.index"))

	indexer := services.NewIndexerService(loader, splitter, embedder, store, func(dimensions int) (driven.VectorIndex, error) {
		return vectormem.NewIndex(dimensions)
	})

	window := convmem.NewWindow(convmem.DefaultCapacity)

	opts := assistantOptions(cfg)
	if cfg.GetBool("history.enabled") {
		turns, err := sqlite.NewTurnStore(dataDir)
		if err != nil {
			logger.Warn("Conversation history disabled: %v", err)
		} else {
			defer turns.Close()
			opts = append(opts, services.WithTurnStore(turns))
		}
	}

	assistant := services.NewAssistantService(indexer, embedder, llm, prompts, window, opts...)

	cli.SetVersion(version)
	cli.SetServices(assistant, indexer)
	cli.SetWatcher(corpus.NewWatcher(corpusRoot, registry))
	cli.Execute()
	return nil
}

// buildRegistry wires up the document extractors. The PDF extractor is
// only registered when pdftotext is installed.
func buildRegistry() *extractors.Registry {
	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(html.New())
	registry.Register(csv.New())
	registry.Register(docx.New())

	if err := pdf.CheckAvailable(); err != nil {
		logger.Warn("PDF support disabled: %v", err)
		logger.Warn("%s", pdf.InstallInstructions())
	} else {
		registry.Register(pdf.New())
	}

	return registry
}

func buildSplitter(cfg driven.ConfigStore) *chunker.Splitter {
	var opts []chunker.Option
	if n := cfg.GetInt("chunking.max_chars"); n > 0 {
		opts = append(opts, chunker.WithMaxChars(n))
	}
	// Zero overlap is a valid setting, so presence decides, not value
	if _, ok := cfg.Get("chunking.overlap"); ok {
		opts = append(opts, chunker.WithOverlap(cfg.GetInt("chunking.overlap")))
	}
	return chunker.New(opts...)
}

func buildEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

func buildLLM(cfg driven.ConfigStore) (driven.LLMService, error) {
	provider := cfg.GetString("llm.provider")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
	case "anthropic":
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

func assistantOptions(cfg driven.ConfigStore) []services.AssistantOption {
	var opts []services.AssistantOption
	if k := cfg.GetInt("chat.top_k"); k > 0 {
		opts = append(opts, services.WithTopK(k))
	}
	if n := cfg.GetInt("chat.max_tokens"); n > 0 {
		opts = append(opts, services.WithMaxTokens(n))
	}
	if t := cfg.GetFloat("chat.temperature"); t > 0 {
		opts = append(opts, services.WithTemperature(t))
	}
	if s := cfg.GetInt("chat.timeout_seconds"); s > 0 {
		opts = append(opts, services.WithRequestTimeout(time.Duration(s)*time.Second))
	}
	return opts
}
