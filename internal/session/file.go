package session

import (
	"os"
	"path/filepath"
)

// FileBackend keeps the cookie record in a single JSON file, typically
// cookies.json inside the data directory.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) Read() ([]byte, error) {
	return os.ReadFile(b.Path)
}

func (b *FileBackend) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(b.Path, data, 0o600)
}
