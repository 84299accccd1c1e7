package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend persists each kind as a JSON file under a directory.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated payload.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(kind Kind) string {
	return filepath.Join(b.dir, string(kind)+".json")
}

func (b *FileBackend) Load(kind Kind) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", kind, err)
	}
	return data, true, nil
}

func (b *FileBackend) Save(kind Kind, data []byte) error {
	path := b.path(kind)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", kind, err)
	}
	return nil
}
