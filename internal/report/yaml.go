package report

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlWriter buffers entries and writes them as one YAML sequence.
type yamlWriter struct {
	w       *bufio.Writer
	entries []Entry
}

func newYAMLWriter(w io.Writer) *yamlWriter {
	return &yamlWriter{
		w:       bufio.NewWriter(w),
		entries: make([]Entry, 0),
	}
}

func (w *yamlWriter) Write(e Entry) error {
	w.entries = append(w.entries, e)
	return nil
}

func (w *yamlWriter) Close() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(w.entries); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
