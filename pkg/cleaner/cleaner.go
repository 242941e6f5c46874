// Package cleaner provides interfaces and implementations for cleaning notebook documents.
// Cleaners edit a parsed notebook in place before it is published.
package cleaner

import "github.com/jmylchreest/nbpublish/internal/notebook"

// Cleaner edits a notebook in place.
type Cleaner interface {
	// Clean applies the cleaner's edits to nb.
	// Fields the cleaner does not name must be left untouched.
	Clean(nb *notebook.Notebook) error

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
