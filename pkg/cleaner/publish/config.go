// Package publish implements the notebook cleaner used before publishing:
// it removes authoring-environment metadata, trims history logs and
// optionally clears code cell outputs.
package publish

// Config defines the optional edits of the publish cleaner.
// The metadata removals (lc_wrapper, frozen state) always run.
type Config struct {
	// TrimHistory keeps only the last N entries of each cell's
	// lc_cell_meme.history. Nil leaves history alone.
	TrimHistory *int `json:"trim_history,omitempty"`

	// TrimServerSignature keeps only the last N entries of the notebook's
	// lc_server_signature.history. Zero removes lc_server_signature entirely.
	// Nil leaves it alone.
	TrimServerSignature *int `json:"trim_server_signature,omitempty"`

	// ClearOutput resets execution counts and outputs of code cells.
	ClearOutput bool `json:"clear_output"`
}

// DefaultConfig returns a config that only removes authoring metadata.
func DefaultConfig() *Config {
	return &Config{}
}

// Limit returns a pointer to n, for use in Config.
func Limit(n int) *int {
	return &n
}
