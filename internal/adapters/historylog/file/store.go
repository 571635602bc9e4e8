package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/merijn/sync-history/internal/ports"
)

const (
	logDirMode  = 0o700
	logFileMode = 0o600
)

// Store appends history entries to a single file and syncs after every write.
// Existing content is never truncated or rewritten.
type Store struct {
	path string
	mu   sync.Mutex
	file *os.File
}

var _ ports.HistoryLog = (*Store)(nil)

func Open(path string) (*Store, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), logDirMode); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("open history log %q: %w", path, err)
	}

	return &Store{path: path, file: f}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Append(entry []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("append history log %q: %w", s.path, os.ErrClosed)
	}
	if _, err := s.file.Write(entry); err != nil {
		return fmt.Errorf("append history log %q: %w", s.path, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync history log %q: %w", s.path, err)
	}

	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("close history log %q: %w", s.path, err)
	}
	return nil
}
