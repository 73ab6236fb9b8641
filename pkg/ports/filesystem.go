package ports

// FileSystem is the file system surface the converter writes through.
// Video bytes never pass through it; the encoder writes its own output.
type FileSystem interface {
	// WriteFile stores data at path, creating missing parent directories.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all missing parents.
	// It fails when a path component exists and is not a directory.
	MkdirAll(path string) error

	// Abs returns an absolute, cleaned representation of path.
	Abs(path string) (string, error)

	// Size returns the size in bytes of the regular file at path.
	Size(path string) (int64, error)
}
