package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileKV implements KV with one file per key under a directory. Values are
// written with 0600 permissions since they may contain credentials.
type FileKV struct {
	dir string
	mu  sync.RWMutex
}

// NewFileKV creates a file-based key-value store rooted at dir, creating the
// directory if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Get retrieves the value for key.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read value for %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set stores value under key.
func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.WriteFile(f.path(key), []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write value for %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (f *FileKV) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete value for %s: %w", key, err)
		}
	}
	return nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, sanitizeFilename(key)+".val")
}

func sanitizeFilename(key string) string {
	invalid := []string{"/", "\\", ":", "*", "?", `"`, "<", ">", "|"}
	result := key
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	return result
}
