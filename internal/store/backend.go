package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend is a synchronous key-value store.
type Backend interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
}

// FileBackend keeps one JSON file per key in a directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend rooted at dir. The directory is created
// on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Dir returns the backing directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Path returns the file that holds key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, sanitizeKey(key)+".json")
}

// Get reads the file for key.
func (b *FileBackend) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set atomically replaces the file for key using a temp file and rename.
func (b *FileBackend) Set(key string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := b.Path(key)
	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// sanitizeKey keeps keys from escaping the data directory.
func sanitizeKey(key string) string {
	key = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, key)
	if key == "" {
		return "_"
	}
	return key
}

// MemoryBackend is an in-process backend for tests and throwaway sessions.
type MemoryBackend struct {
	values map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (b *MemoryBackend) Get(key string) ([]byte, bool, error) {
	v, ok := b.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of data.
func (b *MemoryBackend) Set(key string, data []byte) error {
	b.values[key] = append([]byte(nil), data...)
	return nil
}
