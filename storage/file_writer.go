package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileWriter writes a rendered document to a fixed path.
type FileWriter struct {
	path string
}

func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Path returns the destination file.
func (w *FileWriter) Path() string {
	return w.path
}

// WriteDocument replaces the destination atomically: the content goes to a
// temp file in the same directory which is then renamed over the target.
func (w *FileWriter) WriteDocument(content []byte) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("file: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(w.path)+"-*")
	if err != nil {
		return fmt.Errorf("file: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: write %q: %w", w.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: close %q: %w", w.path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: chmod %q: %w", w.path, err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: rename into %q: %w", w.path, err)
	}
	return nil
}
