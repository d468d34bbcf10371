package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBacking stores the document as a single JSON file on disk.
// Writes go through a temp file and rename so a crash mid-write never leaves
// a truncated document behind.
type FileBacking struct {
	mu   sync.Mutex
	path string
}

// NewFileBacking creates a file-based backing at path, creating parent
// directories as needed.
func NewFileBacking(path string) (*FileBacking, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create document directory: %w", err)
	}
	return &FileBacking{path: path}, nil
}

// Load reads the document file. Returns (nil, nil) if the file does not exist.
func (f *FileBacking) Load(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document file: %w", err)
	}
	return data, nil
}

// Save atomically replaces the document file with data.
func (f *FileBacking) Save(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace document file: %w", err)
	}
	return nil
}

// Close is a no-op for FileBacking.
func (f *FileBacking) Close() error {
	return nil
}
