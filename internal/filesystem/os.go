// Package filesystem adapts operating system file primitives to the
// interfaces consumed by the resolver and the configuration loader.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements filesystem access using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Abs resolves an absolute path against the process working directory.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
