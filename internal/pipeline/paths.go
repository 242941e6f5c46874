package pipeline

import (
	"errors"
	"path/filepath"
	"strings"
)

// CommonDir returns the deepest directory containing every path.
// Paths are made absolute first, so relative and absolute inputs mix.
func CommonDir(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("no paths")
	}

	var common []string
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		parts := splitDir(filepath.Dir(abs))
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}

	if len(common) == 0 {
		return "", errors.New("paths do not share a root")
	}
	return filepath.Join(common...), nil
}

// splitDir splits an absolute directory into its root (volume plus
// separator) followed by each element.
func splitDir(dir string) []string {
	vol := filepath.VolumeName(dir)
	parts := []string{vol + string(filepath.Separator)}
	rest := strings.FieldsFunc(dir[len(vol):], func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return append(parts, rest...)
}

// Destination returns where src is placed under outputDir. With a tree
// root, the path of src relative to root is kept; otherwise only its
// base name.
func Destination(src, outputDir, root string) (string, error) {
	if root == "" {
		return filepath.Join(outputDir, filepath.Base(src)), nil
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	return filepath.Join(outputDir, rel), nil
}
