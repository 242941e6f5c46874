// Package report writes a per-notebook summary of a publish run.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/nbpublish/internal/pipeline"
	"github.com/jmylchreest/nbpublish/pkg/cleaner/publish"
)

// Format represents report format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Entry describes one published notebook.
type Entry struct {
	Source      string         `json:"source" yaml:"source"`
	Destination string         `json:"destination" yaml:"destination"`
	Bytes       int64          `json:"bytes" yaml:"bytes"`
	Size        string         `json:"size" yaml:"size"`
	Stats       *publish.Stats `json:"stats" yaml:"stats"`
}

// FromPlaced converts pipeline results to report entries.
func FromPlaced(placed []pipeline.Placed) []Entry {
	entries := make([]Entry, 0, len(placed))
	for _, p := range placed {
		entries = append(entries, Entry{
			Source:      p.Source,
			Destination: p.Destination,
			Bytes:       p.Bytes,
			Size:        humanize.IBytes(uint64(p.Bytes)),
			Stats:       p.Stats,
		})
	}
	return entries
}

// Writer serializes report entries.
type Writer interface {
	// Write adds one entry.
	Write(e Entry) error

	// Close writes anything still buffered.
	Close() error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatJSON:
		return newJSONWriter(w), nil
	case FormatJSONL:
		return newJSONLWriter(w), nil
	case FormatYAML:
		return newYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// Write writes all entries to w in format.
func Write(w io.Writer, format Format, entries []Entry) error {
	rw, err := NewWriter(w, format)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := rw.Write(e); err != nil {
			return err
		}
	}
	return rw.Close()
}
