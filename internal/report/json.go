package report

import (
	"bufio"
	"encoding/json"
	"io"
)

// jsonWriter buffers entries and writes them as one indented JSON array.
type jsonWriter struct {
	w       *bufio.Writer
	entries []Entry
}

func newJSONWriter(w io.Writer) *jsonWriter {
	return &jsonWriter{
		w:       bufio.NewWriter(w),
		entries: make([]Entry, 0),
	}
}

func (w *jsonWriter) Write(e Entry) error {
	w.entries = append(w.entries, e)
	return nil
}

func (w *jsonWriter) Close() error {
	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.entries); err != nil {
		return err
	}
	return w.w.Flush()
}

// jsonlWriter writes one JSON object per line as entries arrive.
type jsonlWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func newJSONLWriter(w io.Writer) *jsonlWriter {
	bw := bufio.NewWriter(w)
	return &jsonlWriter{w: bw, enc: json.NewEncoder(bw)}
}

func (w *jsonlWriter) Write(e Entry) error {
	if err := w.enc.Encode(e); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *jsonlWriter) Close() error {
	return w.w.Flush()
}
