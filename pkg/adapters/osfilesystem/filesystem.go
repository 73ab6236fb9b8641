// Package osfilesystem implements ports.FileSystem on the local disk.
package osfilesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/user/timelapse/pkg/ports"
)

const (
	defaultDirPerm  fs.FileMode = 0o755
	defaultFilePerm fs.FileMode = 0o644
)

var errIsDir = errors.New("is a directory")

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct {
	dirPerm  fs.FileMode
	filePerm fs.FileMode
}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{
		dirPerm:  defaultDirPerm,
		filePerm: defaultFilePerm,
	}
}

// WriteFile writes data to path, creating missing parent directories.
func (f *FileSystem) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, f.dirPerm); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, f.filePerm)
}

// MkdirAll creates path and its missing parents. An existing directory is
// not an error; an existing file at path is.
func (f *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, f.dirPerm)
}

func (f *FileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Size returns the size of the file at path. Directories are an error.
func (f *FileSystem) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s: %w", path, errIsDir)
	}
	return info.Size(), nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
