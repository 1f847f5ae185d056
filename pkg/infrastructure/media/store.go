package media

import (
	"os"
	"path/filepath"
)

// Store owns locally uploaded product images under a single base directory.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Remove deletes the image file named by path. Only the file name is used,
// so a stored path can never reach outside the base directory. A missing
// file is not an error.
func (s *Store) Remove(path string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.Base(path)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
