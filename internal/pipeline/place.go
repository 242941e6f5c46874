package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jmylchreest/nbpublish/pkg/cleaner/publish"
)

// Placed is a cleaned notebook copied to its final location.
type Placed struct {
	Source      string         `json:"source" yaml:"source"`
	Destination string         `json:"destination" yaml:"destination"`
	Bytes       int64          `json:"bytes" yaml:"bytes"`
	Stats       *publish.Stats `json:"stats" yaml:"stats"`
}

// PlaceFile gives the staged file the permission bits of its source and
// copies it to dest, creating missing parent directories.
func PlaceFile(fs afero.Fs, s *Staged, dest string) error {
	info, err := fs.Stat(s.Source)
	if err != nil {
		return fsError("stat", s.Source, err)
	}
	perm := info.Mode().Perm()
	if err := fs.Chmod(s.Temp, perm); err != nil {
		return fsError("chmod", s.Temp, err)
	}

	if err := fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fsError("mkdir", filepath.Dir(dest), err)
	}
	return copyFile(fs, s.Temp, dest, perm)
}

func copyFile(fs afero.Fs, src, dest string, perm os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return fsError("open", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fsError("create", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fsError("copy", dest, err)
	}
	if err := out.Close(); err != nil {
		return fsError("close", dest, err)
	}
	// An existing destination keeps its old mode on O_TRUNC.
	return fsError("chmod", dest, fs.Chmod(dest, perm))
}
