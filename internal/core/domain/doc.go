// Package domain defines the core business entities for the assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It contains documents, chunks, conversation turns and the domain error
// taxonomy, and has no dependencies on adapters or infrastructure.
package domain
