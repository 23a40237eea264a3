// Package csv extracts text from CSV files.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles CSV files. Each record is rendered as one
// "header: value" line per column so that row context survives chunking.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".csv"}
}

// Format returns the provenance tag.
func (e *Extractor) Format() string {
	return "csv"
}

// Extract renders each CSV record as header-prefixed lines, with a
// blank line between records. The first record is treated as the header.
func (e *Extractor) Extract(_ context.Context, _ string, content []byte) (string, error) {
	if content == nil {
		return "", domain.ErrInvalidInput
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var result strings.Builder
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}

		if !first {
			result.WriteString("\n\n")
		}
		first = false

		for i, value := range record {
			if i > 0 {
				result.WriteString("\n")
			}
			if i < len(header) {
				result.WriteString(header[i])
				result.WriteString(": ")
			}
			result.WriteString(value)
		}
	}

	return result.String(), nil
}
