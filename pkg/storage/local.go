package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local keeps voice artifacts on the local filesystem under a root
// directory. It backs archives that never leave the box, and the tests
// of everything layered on FileStore.
type Local struct {
	root string
}

// NewLocal creates a store rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", dir, err)
	}
	return &Local{root: abs}, nil
}

// resolve maps a storage path to a filesystem path inside the root.
// Paths that climb out of the root are rejected.
func (l *Local) resolve(path string) (string, error) {
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("storage: path %q escapes store root", path)
	}
	return filepath.Join(l.root, rel), nil
}

// Read opens the named artifact for reading.
func (l *Local) Read(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Write stages the artifact in a temp file and renames it into place on
// Close, so a crashed or failed upload never leaves a half-written
// artifact at the final path.
func (l *Local) Write(_ context.Context, path string) (io.WriteCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(full), filepath.Base(full)+".partial-*")
	if err != nil {
		return nil, err
	}
	return &localArtifact{f: f, final: full}, nil
}

// Delete removes the named artifact. Missing artifacts are not an
// error.
func (l *Local) Delete(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether the named artifact exists.
func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// localArtifact is a staged write; Close publishes the artifact.
type localArtifact struct {
	f        *os.File
	final    string
	writeErr error
}

func (w *localArtifact) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		w.writeErr = err
	}
	return n, err
}

func (w *localArtifact) Close() error {
	closeErr := w.f.Close()
	if w.writeErr != nil || closeErr != nil {
		os.Remove(w.f.Name())
		if closeErr != nil {
			return closeErr
		}
		return w.writeErr
	}
	return os.Rename(w.f.Name(), w.final)
}

var _ FileStore = (*Local)(nil)
