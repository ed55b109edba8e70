// Package writer persists generated artifacts into per-resource module
// directories. Writes are atomic per file (temp-then-rename) so an aborted
// run never leaves a partially-written file under its final name; re-running
// a resource type overwrites its module wholesale.
package writer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"tfsmith/internal/logging"
)

// File is one artifact destined for the module directory.
type File struct {
	Name    string
	Content string
}

// Writer persists module files under a root directory.
type Writer struct {
	fs   afero.Fs
	root string
}

// New creates a Writer on the OS filesystem.
func New(root string) *Writer {
	return NewWithFs(afero.NewOsFs(), root)
}

// NewWithFs creates a Writer on an arbitrary filesystem. Tests use an
// in-memory fs.
func NewWithFs(fs afero.Fs, root string) *Writer {
	return &Writer{fs: fs, root: root}
}

// Write persists the given files into the module directory for resourceType
// (lower-cased), creating it if needed. Files with empty content are
// skipped. Existing files are overwritten; there are no merge semantics.
func (w *Writer) Write(resourceType string, files []File) (string, error) {
	dir := filepath.Join(w.root, strings.ToLower(resourceType))
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create module dir %s: %w", dir, err)
	}

	for _, f := range files {
		if f.Content == "" {
			continue
		}
		if err := w.writeAtomic(dir, f.Name, f.Content); err != nil {
			return "", err
		}
		logging.WriterDebug("wrote %s", filepath.Join(dir, f.Name))
	}
	return dir, nil
}

// writeAtomic writes content to a temp file in the target directory and
// renames it into place.
func (w *Writer) writeAtomic(dir, name, content string) error {
	tmp, err := afero.TempFile(w.fs, dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := w.fs.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		_ = w.fs.Remove(tmpName)
		return fmt.Errorf("failed to publish %s: %w", name, err)
	}
	return nil
}
