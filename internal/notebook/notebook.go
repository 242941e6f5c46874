// Package notebook reads and writes nbformat v4 notebook documents.
//
// A notebook is kept as the decoded JSON tree so that every field the
// cleaners do not touch is written back unchanged, including unknown keys.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// SupportedMajor is the only nbformat major version that can be read.
const SupportedMajor = 4

// ErrFormat is returned when a document cannot be read as an nbformat v4 notebook.
var ErrFormat = errors.New("invalid notebook document")

// Notebook is a parsed notebook document.
type Notebook struct {
	root Map
}

// ReadBytes parses a notebook from data. The document must be UTF-8.
func ReadBytes(data []byte) (*Notebook, error) {
	// encoding/json would replace invalid sequences with U+FFFD.
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrFormat)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrFormat)
	}

	root, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not an object", ErrFormat)
	}
	nb := &Notebook{root: root}

	major, _, err := nb.format()
	if err != nil {
		return nil, err
	}
	if major != SupportedMajor {
		return nil, fmt.Errorf("%w: unsupported nbformat %d", ErrFormat, major)
	}

	cells, ok := root["cells"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: cells is not a list", ErrFormat)
	}
	for i, c := range cells {
		if _, ok := c.(map[string]any); !ok {
			return nil, fmt.Errorf("%w: cell %d is not an object", ErrFormat, i)
		}
	}

	return nb, nil
}

// Write serializes the notebook the way nbformat does: sorted keys,
// one-space indentation, no HTML escaping and a trailing newline.
func (nb *Notebook) Write(w io.Writer) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(map[string]any(nb.root)); err != nil {
		return fmt.Errorf("encoding notebook: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Bytes returns the serialized notebook.
func (nb *Notebook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := nb.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Format returns the nbformat major and minor version.
func (nb *Notebook) Format() (major, minor int) {
	major, minor, _ = nb.format()
	return major, minor
}

func (nb *Notebook) format() (int, int, error) {
	major, err := intField(nb.root, "nbformat")
	if err != nil {
		return 0, 0, err
	}
	// nbformat_minor is optional in older writers.
	minor, _ := intField(nb.root, "nbformat_minor")
	return major, minor, nil
}

// Cells returns the notebook cells in document order.
func (nb *Notebook) Cells() []Cell {
	raw, _ := nb.root["cells"].([]any)
	cells := make([]Cell, 0, len(raw))
	for _, c := range raw {
		if m, ok := c.(map[string]any); ok {
			cells = append(cells, Cell{m: m})
		}
	}
	return cells
}

// Metadata returns the document metadata, or nil when absent.
func (nb *Notebook) Metadata() Map {
	return nb.root.Map("metadata")
}

func intField(m Map, key string) (int, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrFormat, key)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrFormat, key)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrFormat, key, err)
	}
	return int(i), nil
}
