package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"git.home.luguber.info/inful/docrunner/internal/logfields"
)

// DirectoryError reports a failed directory operation.
type DirectoryError struct {
	Op   string
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}
func (e *DirectoryError) Unwrap() error                   { return e.Err }
func (e *DirectoryError) Category() derrors.ErrorCategory { return derrors.CategoryFileSystem }

// EnsureDeleted removes the directory tree at path if it exists. A missing
// path is not an error.
func EnsureDeleted(path string) error {
	if path == "" {
		return &DirectoryError{Op: "delete", Path: path, Err: fmt.Errorf("empty path")}
	}
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		slog.Debug("Directory already absent", logfields.Path(path))
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return &DirectoryError{Op: "delete", Path: path, Err: err}
	}
	slog.Info("Deleted directory", logfields.Path(path))
	return nil
}

// Manager owns the fixed staging directory of a run. It never creates the
// directory; the tools invoked by tasks do that as a side effect.
type Manager struct {
	root string
}

// NewManager creates a manager for the staging directory at root.
func NewManager(root string) *Manager {
	return &Manager{root: filepath.Clean(root)}
}

// Path returns the staging directory.
func (m *Manager) Path() string {
	return m.root
}

// Join returns a path below the staging directory.
func (m *Manager) Join(elem ...string) string {
	return filepath.Join(append([]string{m.root}, elem...)...)
}

// Exists reports whether the path below the staging directory exists.
func (m *Manager) Exists(elem ...string) bool {
	_, err := os.Stat(m.Join(elem...))
	return err == nil
}

// Clean removes the staging directory and everything below it.
func (m *Manager) Clean() error {
	return EnsureDeleted(m.root)
}
