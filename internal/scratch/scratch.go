// Package scratch manages the transient scratch directory that holds an
// upload and its derived page images for the duration of one request.
// Nothing written here is durable; the directory is not cleaned across
// process restarts.
package scratch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store persists request-scoped files under a scratch directory.
type Store interface {
	// Save writes the reader's content under the given (already
	// sanitized) name, overwriting any same-named prior file, and
	// returns the full path of the saved file.
	Save(name string, r io.Reader) (string, error)
	// Remove deletes a previously saved file. Removing a file that no
	// longer exists is not an error.
	Remove(path string) error
	// Dir returns the scratch directory path.
	Dir() string
}

type diskStore struct {
	dir string
}

// NewDiskStore creates a Store rooted at dir, creating the directory if it
// does not exist.
func NewDiskStore(dir string) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("scratch directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	return &diskStore{dir: dir}, nil
}

func (s *diskStore) Save(name string, r io.Reader) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name is required")
	}
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}

	// A partially written file must not outlive a failed save; callers only
	// clean up paths that Save returned.
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close scratch file: %w", err)
	}
	return path, nil
}

func (s *diskStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *diskStore) Dir() string { return s.dir }
