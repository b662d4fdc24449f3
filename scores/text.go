// Package scores persists high scores, finished-game history and per-tick
// replays.
package scores

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

// TextStore keeps the high score as a single decimal integer in a text file.
type TextStore struct {
	mu   sync.Mutex
	path string
}

func NewTextStore(path string) *TextStore {
	return &TextStore{path: path}
}

func (s *TextStore) Path() string { return s.path }

// LoadHighScore returns the stored value. A missing file is 0 with no error;
// unreadable or corrupt contents are 0 with the error for the caller to log.
func (s *TextStore) LoadHighScore() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *TextStore) load() (int, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("parse high score %q: %w", s.path, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative high score %d in %q", v, s.path)
	}
	return v, nil
}

// SaveHighScore writes v unless the file already holds a higher value.
func (s *TextStore) SaveHighScore(v int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, err := s.load(); err == nil && cur >= v {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create high score dir: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	_ = os.Remove(tmpPath)
	if err := os.WriteFile(tmpPath, []byte(strconv.Itoa(v)), 0o644); err != nil {
		return fmt.Errorf("write high score: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename high score: %w", err)
	}
	return nil
}
