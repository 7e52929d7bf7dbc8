package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalArchive stores documents on the local filesystem under a base
// directory.
type LocalArchive struct {
	basePath string
}

func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

// resolve maps a key to a path inside basePath, rejecting traversal.
func (a *LocalArchive) resolve(key string) (string, error) {
	cleanKey := filepath.Clean(key)
	fullPath := filepath.Join(a.basePath, cleanKey)
	if !strings.HasPrefix(fullPath, a.basePath) {
		return "", fmt.Errorf("invalid archive key: %s", key)
	}
	return fullPath, nil
}

// Store implements Archive.
func (a *LocalArchive) Store(ctx context.Context, key string, doc io.Reader) (string, error) {
	fullPath, err := a.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, doc); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filepath.Clean(key), nil
}

// Open implements Archive.
func (a *LocalArchive) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := a.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document not found: %s", key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Exists implements Archive.
func (a *LocalArchive) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := a.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete implements Archive.
func (a *LocalArchive) Delete(ctx context.Context, key string) error {
	fullPath, err := a.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
