package extractors

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
)

// Registry maps file extensions to their extractors.
// Extensions are matched case-insensitively.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a new extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]driven.Extractor),
	}
}

// Register adds an extractor for each extension it declares.
// Later registrations win on conflicting extensions.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// ForPath returns the extractor for a file path's extension.
// Returns domain.ErrUnsupportedFormat when no extractor is registered.
func (r *Registry) ForPath(path string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
	return e, nil
}

// Has returns true if an extractor is registered for the extension.
func (r *Registry) Has(ext string) bool {
	_, ok := r.byExt[strings.ToLower(ext)]
	return ok
}

// Supported returns all registered extensions, sorted.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
