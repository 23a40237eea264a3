// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding and generation providers, the
// vector index, corpus loading and conversation persistence.
package driven
