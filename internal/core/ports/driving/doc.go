// Package driving provides interfaces for primary/inbound ports:
// the operations the CLI and the messaging transport call on the core.
package driving
