package progress

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// FileStore keeps the marker as a single decimal integer in a text file.
// A missing or empty file means only level 1 is unlocked.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path. The file is created on the
// first advance.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// MaxLevelUnlocked implements Store.
func (f *FileStore) MaxLevelUnlocked() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// AdvanceUnlockedLevel implements Store. The file is replaced atomically.
func (f *FileStore) AdvanceUnlockedLevel(n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		return err
	}
	if n <= current {
		return nil
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".progress-*")
	if err != nil {
		return fmt.Errorf("writing progress: %w", err)
	}
	if _, err := tmp.WriteString(strconv.Itoa(n)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing progress: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing progress: %w", err)
	}
	return nil
}

func (f *FileStore) read() (int, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading progress: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("reading progress %s: %w", f.path, err)
	}
	if n < 1 {
		return 1, nil
	}
	return n, nil
}
