package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// FileStore is a flat-file implementation of the StatusRepository interface.
// The whole url -> status mapping lives in one JSON object, read once at
// startup and rewritten atomically on every change.
type FileStore struct {
	path     string
	statuses map[string]core.Status
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewFileStore creates a new file-backed status store
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	statuses := make(map[string]core.Status)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &statuses); err != nil {
			return nil, fmt.Errorf("failed to parse status file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// First run, start empty
	default:
		return nil, fmt.Errorf("failed to read status file %s: %w", path, err)
	}

	logger.Debug("Loaded status file",
		zap.String("path", path),
		zap.Int("entries", len(statuses)))

	return &FileStore{
		path:     path,
		statuses: statuses,
		logger:   logger,
	}, nil
}

// Get retrieves the stored status for an item URL
func (s *FileStore) Get(ctx context.Context, url string) (core.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.statuses[url], nil
}

// Set stores the status for an item URL and rewrites the file
func (s *FileStore) Set(ctx context.Context, url string, status core.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.statuses[url]
	s.statuses[url] = status
	if err := s.persistLocked(); err != nil {
		// Keep memory and disk in agreement, otherwise a restart after a
		// failed write would replay the transition and alert twice
		if existed {
			s.statuses[url] = prev
		} else {
			delete(s.statuses, url)
		}
		return err
	}
	return nil
}

// All returns the full url -> status mapping
func (s *FileStore) All(ctx context.Context) (map[string]core.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]core.Status, len(s.statuses))
	for url, status := range s.statuses {
		out[url] = status
	}
	return out, nil
}

// persistLocked writes the mapping via a temp file and rename so a crash
// mid-write cannot truncate the stored state
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.statuses, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace status file: %w", err)
	}

	return nil
}
