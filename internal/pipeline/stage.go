package pipeline

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/jmylchreest/nbpublish/internal/logger"
	"github.com/jmylchreest/nbpublish/internal/notebook"
	"github.com/jmylchreest/nbpublish/pkg/cleaner"
	"github.com/jmylchreest/nbpublish/pkg/cleaner/publish"
)

// Cleaner is the notebook cleaner run on every input.
type Cleaner interface {
	cleaner.Cleaner
	CleanWithStats(nb *notebook.Notebook) (*publish.Stats, error)
}

// Staged is a cleaned notebook waiting in the staging directory.
type Staged struct {
	Source string
	Temp   string
	Size   int64
	Stats  *publish.Stats
}

// StageFile reads src, cleans it and writes the result to a new file in dir.
// Unreadable notebooks fail with an error wrapping notebook.ErrFormat.
func StageFile(fs afero.Fs, dir, src string, c Cleaner) (*Staged, error) {
	data, err := afero.ReadFile(fs, src)
	if err != nil {
		return nil, fsError("read", src, err)
	}

	nb, err := notebook.ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	major, minor := nb.Format()
	logger.Debug("read notebook", "source", src, "nbformat", fmt.Sprintf("%d.%d", major, minor), "cells", len(nb.Cells()))

	stats, err := c.CleanWithStats(nb)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", src, c.Name(), err)
	}

	out, err := nb.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	f, err := afero.TempFile(fs, dir, "staged-*.ipynb")
	if err != nil {
		return nil, fsError("create", dir, err)
	}
	if _, err := f.Write(out); err != nil {
		_ = f.Close()
		return nil, fsError("write", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return nil, fsError("close", f.Name(), err)
	}

	return &Staged{
		Source: src,
		Temp:   f.Name(),
		Size:   int64(len(out)),
		Stats:  stats,
	}, nil
}
