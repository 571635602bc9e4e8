package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/merijn/sync-history/internal/ports"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 10
	maxBackups = 3
)

var errRelativePath = errors.New("diagnostic log path must be absolute")

var _ ports.Diagnostics = (*Sink)(nil)

// Sink is the daemon's log writer. It discards everything until Start points
// it at a rotating file.
type Sink struct {
	mu   sync.Mutex
	out  io.Writer
	file *lumberjack.Logger
}

func NewSink() *Sink {
	return &Sink{out: io.Discard}
}

func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.out.Write(p)
}

// Start redirects output to path, replacing any file opened earlier.
func (s *Sink) Start(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q", errRelativePath, path)
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	// lumberjack opens lazily; an empty write surfaces open errors now.
	if _, err := file.Write(nil); err != nil {
		return fmt.Errorf("open diagnostic log: %w", err)
	}

	s.mu.Lock()
	prev := s.file
	s.file = file
	s.out = file
	s.mu.Unlock()

	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Stop closes the current file and discards output again.
func (s *Sink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.out = io.Discard
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("close diagnostic log: %w", err)
	}
	return nil
}
