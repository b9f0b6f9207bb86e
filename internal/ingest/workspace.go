package ingest

import (
	"fmt"
	"os"
	"sync"
)

// Workspace is the scratch directory of one run. Converted images live there
// until Close. Each run gets its own, so concurrent runs sharing a Scanner
// never remove each other's files.
type Workspace struct {
	mu     sync.Mutex
	parent string
	dir    string
}

// NewWorkspace returns an empty workspace under the scanner's WorkDir. The
// directory is created on first use.
func (s *Scanner) NewWorkspace() *Workspace {
	return &Workspace{parent: s.WorkDir}
}

// Dir returns the workspace directory, creating it if needed
func (w *Workspace) Dir() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" {
		return w.dir, nil
	}
	if w.parent != "" {
		if err := os.MkdirAll(w.parent, 0750); err != nil {
			return "", fmt.Errorf("failed to create work directory: %w", err)
		}
	}
	dir, err := os.MkdirTemp(w.parent, "taxdoc-binder-")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	w.dir = dir
	return dir, nil
}

// Close removes the workspace directory. It is safe to call more than once.
func (w *Workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir == "" {
		return nil
	}
	dir := w.dir
	w.dir = ""
	return os.RemoveAll(dir)
}
