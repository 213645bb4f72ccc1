package gcode

import (
	"fmt"
	"os"
	"path/filepath"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
)

// WriteFile writes tp into dir under the name FileName derives and returns
// the path. The G-code goes to a temporary file first; it only takes its
// final name once everything has been written and closed, and it is removed
// on every failure path.
func WriteFile(dir string, tp *hilbert.Toolpath) (path string, err error) {
	path = filepath.Join(dir, FileName(tp.Config.LayerHeight, tp.TotalMinutes))

	f, err := os.CreateTemp(dir, ".hilbert-*.gcode.tmp")
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = NewWriter(f, tp.Config).WriteToolpath(tp); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}
