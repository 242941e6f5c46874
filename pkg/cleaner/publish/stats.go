package publish

import (
	"fmt"
	"strings"
)

// Stats captures what the cleaner changed in one notebook.
type Stats struct {
	Cells int `json:"cells" yaml:"cells"`

	WrappersRemoved int `json:"wrappers_removed" yaml:"wrappers_removed"`
	CellsUnfrozen   int `json:"cells_unfrozen" yaml:"cells_unfrozen"`

	// Number of history entries dropped across all cells.
	HistoryTrimmed int `json:"history_trimmed" yaml:"history_trimmed"`

	OutputsCleared       int `json:"outputs_cleared" yaml:"outputs_cleared"`
	PinnedOutputsRemoved int `json:"pinned_outputs_removed" yaml:"pinned_outputs_removed"`

	ServerSignatureRemoved bool `json:"server_signature_removed" yaml:"server_signature_removed"`
	ServerSignatureTrimmed int  `json:"server_signature_trimmed" yaml:"server_signature_trimmed"`
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{}
}

// Changed reports whether any edit was made.
func (s *Stats) Changed() bool {
	return s.WrappersRemoved > 0 ||
		s.CellsUnfrozen > 0 ||
		s.HistoryTrimmed > 0 ||
		s.OutputsCleared > 0 ||
		s.PinnedOutputsRemoved > 0 ||
		s.ServerSignatureRemoved ||
		s.ServerSignatureTrimmed > 0
}

// Add accumulates other into s.
func (s *Stats) Add(other *Stats) {
	if other == nil {
		return
	}
	s.Cells += other.Cells
	s.WrappersRemoved += other.WrappersRemoved
	s.CellsUnfrozen += other.CellsUnfrozen
	s.HistoryTrimmed += other.HistoryTrimmed
	s.OutputsCleared += other.OutputsCleared
	s.PinnedOutputsRemoved += other.PinnedOutputsRemoved
	s.ServerSignatureRemoved = s.ServerSignatureRemoved || other.ServerSignatureRemoved
	s.ServerSignatureTrimmed += other.ServerSignatureTrimmed
}

// String returns a one-line summary.
func (s *Stats) String() string {
	parts := []string{fmt.Sprintf("cells=%d", s.Cells)}
	add := func(name string, n int) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", name, n))
		}
	}
	add("wrappers_removed", s.WrappersRemoved)
	add("unfrozen", s.CellsUnfrozen)
	add("history_trimmed", s.HistoryTrimmed)
	add("outputs_cleared", s.OutputsCleared)
	add("pinned_removed", s.PinnedOutputsRemoved)
	if s.ServerSignatureRemoved {
		parts = append(parts, "server_signature=removed")
	}
	add("server_signature_trimmed", s.ServerSignatureTrimmed)
	return strings.Join(parts, " ")
}
