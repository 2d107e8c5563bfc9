package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Manager handles the local output tree: one directory per parent page,
// numbered image files inside. Presence of a file on disk is the only
// "already downloaded" signal; no checksums are kept, so reruns are
// idempotent but a truncated prior download is still treated as done.
type Manager struct {
	root string
}

// NewManager creates a new storage manager rooted at the output directory.
// An uncreatable root is a fatal setup error.
func NewManager(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{root: root}, nil
}

// Root returns the output root directory.
func (m *Manager) Root() string {
	return m.root
}

// EnsurePageDir creates the per-page directory if it does not exist. It is
// called before any image of that page is saved.
func (m *Manager) EnsurePageDir(segment string) error {
	if err := os.MkdirAll(filepath.Join(m.root, segment), 0755); err != nil {
		return fmt.Errorf("failed to create page directory %s: %w", segment, err)
	}
	return nil
}

// Exists reports whether the image file is already present locally.
func (m *Manager) Exists(segment, filename string) bool {
	_, err := os.Stat(filepath.Join(m.root, segment, filename))
	return err == nil
}

// SaveImage writes the image bytes from r to the target path. The data is
// written to a temporary file first and renamed into place, so a partially
// written file never appears under its final name.
func (m *Manager) SaveImage(r io.Reader, segment, filename string) error {
	target := filepath.Join(m.root, segment, filename)

	tempFile := target + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write image data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
