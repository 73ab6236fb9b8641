package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/timelapse/pkg/ports"
)

// FileSystem is an in-memory ports.FileSystem.
// Relative paths are resolved against WorkDir.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	WorkDir string

	WriteFileFunc func(path string, data []byte) error
	MkdirAllFunc  func(path string) error

	// Recorded calls for verification
	MkdirAllCalls []string
}

// NewFileSystem creates an empty FileSystem with WorkDir /work.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:   make(map[string][]byte),
		dirs:    make(map[string]bool),
		WorkDir: "/work",
	}
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirs[path] {
		return fmt.Errorf("write %s: is a directory", path)
	}
	m.files[path] = data
	return nil
}

// MkdirAll records the call and fails when a stored file occupies path.
func (m *FileSystem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MkdirAllCalls = append(m.MkdirAllCalls, path)
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(path)
	}
	if _, ok := m.files[path]; ok {
		return fmt.Errorf("mkdir %s: not a directory", path)
	}
	m.dirs[path] = true
	return nil
}

func (m *FileSystem) Abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(m.WorkDir, path), nil
}

func (m *FileSystem) Size(path string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return 0, fmt.Errorf("stat %s: %w", path, os.ErrNotExist)
	}
	return int64(len(data)), nil
}

// GetFile returns what was written to path.
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// HasDir reports whether MkdirAll created path.
func (m *FileSystem) HasDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[path]
}

var _ ports.FileSystem = (*FileSystem)(nil)
