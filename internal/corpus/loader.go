// Package corpus discovers files in the knowledge directory and turns
// them into documents ready for chunking and indexing.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
	"github.com/llmspace/whatsapp-assistant/internal/extractors"
	"github.com/llmspace/whatsapp-assistant/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.CorpusLoader = (*Loader)(nil)

// Loader walks a corpus directory and extracts one document per
// supported file.
type Loader struct {
	root     string
	registry *extractors.Registry
}

// NewLoader creates a corpus loader rooted at the given directory.
func NewLoader(root string, registry *extractors.Registry) *Loader {
	return &Loader{
		root:     root,
		registry: registry,
	}
}

// Root returns the corpus directory.
func (l *Loader) Root() string {
	return l.root
}

// Load walks the corpus directory and extracts every supported file.
// The directory is created if it does not exist. Files with unsupported
// extensions are skipped with a warning. Individual extraction failures
// never abort the load: the successful documents are returned together
// with an error wrapping domain.ErrPartialLoad.
func (l *Loader) Load(ctx context.Context) ([]domain.Document, error) {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return nil, fmt.Errorf("create corpus directory: %w", err)
	}

	var docs []domain.Document
	var failures []error

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if isHidden(d.Name()) && path != l.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		extractor, err := l.registry.ForPath(path)
		if err != nil {
			logger.Warn("Skipping %s: unsupported extension", path)
			return nil
		}

		doc, err := l.loadFile(ctx, path, extractor)
		if err != nil {
			logger.Warn("Failed to load %s: %v", path, err)
			failures = append(failures, fmt.Errorf("%s: %w", path, err))
			return nil
		}

		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return docs, fmt.Errorf("walk corpus: %w", err)
	}

	logger.Debug("Loaded %d documents from %s", len(docs), l.root)

	if len(failures) > 0 {
		return docs, fmt.Errorf("%w: %w", domain.ErrPartialLoad, errors.Join(failures...))
	}
	return docs, nil
}

// loadFile reads and extracts a single file.
func (l *Loader) loadFile(ctx context.Context, path string, extractor driven.Extractor) (domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read file: %w", err)
	}

	text, err := extractor.Extract(ctx, path, content)
	if err != nil {
		return domain.Document{}, fmt.Errorf("extract text: %w", err)
	}

	return domain.Document{
		Source:   path,
		Format:   extractor.Format(),
		Content:  text,
		LoadedAt: time.Now(),
	}, nil
}

// isHidden returns true for dotfiles and dot-directories.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
