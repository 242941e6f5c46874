// Package pipeline cleans notebooks into a staging directory and then
// copies them to the output directory, flat or keeping the input tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/jmylchreest/nbpublish/internal/logger"
	"github.com/jmylchreest/nbpublish/internal/notebook"
)

// Options controls where cleaned notebooks are placed.
type Options struct {
	OutputDir string

	// Tree keeps each input's path relative to the common directory of
	// all inputs instead of flattening to base names.
	Tree bool

	// KeepGoing skips unreadable notebooks instead of aborting the run.
	KeepGoing bool

	// TempDir is the parent of the staging directory ("" for the system default).
	TempDir string
}

// Runner stages and places a batch of notebooks.
type Runner struct {
	fs      afero.Fs
	cleaner Cleaner
	opts    Options
}

// New creates a Runner operating on fs.
func New(fs afero.Fs, c Cleaner, opts Options) *Runner {
	return &Runner{fs: fs, cleaner: c, opts: opts}
}

// Run cleans every input into one staging directory, then places all of
// them. Nothing is placed unless staging succeeded for every input (or
// KeepGoing is set). The staging directory is removed on return.
//
// With KeepGoing, skipped inputs are reported in the returned error
// alongside the notebooks that were placed.
func (r *Runner) Run(ctx context.Context, inputs []string) ([]Placed, error) {
	dir, err := afero.TempDir(r.fs, r.opts.TempDir, "nbpublish-")
	if err != nil {
		return nil, fsError("create staging directory", r.opts.TempDir, err)
	}
	defer func() {
		if err := r.fs.RemoveAll(dir); err != nil {
			logger.Error("failed to remove staging directory", "dir", dir, "error", err)
		}
	}()

	staged, skipped, err := r.stage(ctx, dir, inputs)
	if err != nil {
		return nil, err
	}

	root, err := r.treeRoot(staged)
	if err != nil {
		return nil, err
	}

	placed, err := r.place(ctx, staged, root)
	if err != nil {
		return placed, err
	}

	if len(skipped) > 0 {
		return placed, fmt.Errorf("%d of %d inputs skipped: %w", len(skipped), len(inputs), errors.Join(skipped...))
	}
	return placed, nil
}

// treeRoot returns the common directory of the staged sources in tree
// mode, or "" for the flat layout. Inputs skipped while staging do not
// take part.
func (r *Runner) treeRoot(staged []*Staged) (string, error) {
	if !r.opts.Tree || len(staged) == 0 {
		return "", nil
	}
	sources := make([]string, len(staged))
	for i, s := range staged {
		sources[i] = s.Source
	}
	root, err := CommonDir(sources)
	if err != nil {
		return "", fmt.Errorf("resolving tree root: %w", err)
	}
	logger.Debug("tree layout", "root", root)
	return root, nil
}

func (r *Runner) stage(ctx context.Context, dir string, inputs []string) ([]*Staged, []error, error) {
	staged := make([]*Staged, 0, len(inputs))
	var skipped []error

	for i, src := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		s, err := StageFile(r.fs, dir, src, r.cleaner)
		if err != nil {
			if r.opts.KeepGoing && errors.Is(err, notebook.ErrFormat) {
				logger.Warn("skipping unreadable notebook", "source", src, "error", err)
				skipped = append(skipped, err)
				continue
			}
			return nil, nil, err
		}

		if !s.Stats.Changed() {
			logger.Debug("already clean", "source", src)
		}
		logger.Debug("cleaned",
			"n", fmt.Sprintf("%d/%d", i+1, len(inputs)),
			"source", src,
			"staged", s.Temp,
			"size", humanize.IBytes(uint64(s.Size)),
			"cleaner", r.cleaner.Name(),
			"stats", s.Stats.String())
		staged = append(staged, s)
	}

	return staged, skipped, nil
}

func (r *Runner) place(ctx context.Context, staged []*Staged, root string) ([]Placed, error) {
	placed := make([]Placed, 0, len(staged))

	for _, s := range staged {
		if err := ctx.Err(); err != nil {
			return placed, err
		}

		dest, err := Destination(s.Source, r.opts.OutputDir, root)
		if err != nil {
			return placed, fmt.Errorf("%s: %w", s.Source, err)
		}
		if err := PlaceFile(r.fs, s, dest); err != nil {
			return placed, err
		}
		logger.Debug("copied", "staged", s.Temp, "destination", dest)

		placed = append(placed, Placed{
			Source:      s.Source,
			Destination: dest,
			Bytes:       s.Size,
			Stats:       s.Stats,
		})
	}

	return placed, nil
}
