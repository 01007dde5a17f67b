package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalArchive keeps archived documents on the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a local filesystem archive
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if basePath == "" {
		return nil, errors.New("basePath cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalArchive{basePath: basePath}, nil
}

// Save writes the raw document content to the sharded archive path
func (a *LocalArchive) Save(_ context.Context, docID string, content []byte) (string, error) {
	relPath := archivePath(docID)
	fullPath := filepath.Join(a.basePath, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	return relPath, nil
}

// Load reads the raw document content from the archive
func (a *LocalArchive) Load(_ context.Context, docID string) ([]byte, error) {
	fullPath := filepath.Join(a.basePath, archivePath(docID))

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotArchived
		}
		return nil, fmt.Errorf("failed to read archive file: %w", err)
	}

	return content, nil
}
