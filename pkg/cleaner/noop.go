package cleaner

import "github.com/jmylchreest/nbpublish/internal/notebook"

// NoopCleaner leaves the notebook unchanged.
type NoopCleaner struct{}

// NewNoop creates a new no-op cleaner.
func NewNoop() *NoopCleaner {
	return &NoopCleaner{}
}

// Clean does nothing.
func (c *NoopCleaner) Clean(*notebook.Notebook) error {
	return nil
}

// Name returns the cleaner type.
func (c *NoopCleaner) Name() string {
	return "noop"
}
