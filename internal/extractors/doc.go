// Package extractors contains the format-specific text extractors and
// the registry that dispatches files to them by extension.
package extractors
