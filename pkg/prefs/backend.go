package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend is the persisted-record storage the store writes through. Load
// reports found=false for a missing record; corrupt content is a store
// concern, not a backend one.
type Backend interface {
	Load(key string) (data []byte, found bool, err error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// FileBackend stores each record as one JSON file in a config directory.
type FileBackend struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileBackend creates a file-backed store rooted at baseDir. An empty
// baseDir defaults to ~/.config/mosaic/prefs.
func NewFileBackend(baseDir string) (*FileBackend, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "mosaic", "prefs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	return &FileBackend{baseDir: baseDir}, nil
}

// Path returns the base directory for record files.
func (b *FileBackend) Path() string {
	return b.baseDir
}

func (b *FileBackend) recordPath(key string) string {
	return filepath.Join(b.baseDir, key+".json")
}

func (b *FileBackend) Load(key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(b.recordPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read prefs record: %w", err)
	}
	return data, true, nil
}

func (b *FileBackend) Save(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.WriteFile(b.recordPath(key), data, 0600); err != nil {
		return fmt.Errorf("write prefs record: %w", err)
	}
	return nil
}

func (b *FileBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(b.recordPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove prefs record: %w", err)
	}
	return nil
}

// MemoryBackend keeps records in a map. It backs tests and ephemeral
// sessions that should not touch the filesystem.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.records[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (b *MemoryBackend) Save(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.records[key] = stored
	return nil
}

func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.records, key)
	return nil
}

var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
)
