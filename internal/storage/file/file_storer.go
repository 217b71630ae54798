package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/internal/storage"
)

// Store keeps the run history in a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Save(_ context.Context, run *domain.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		return err
	}
	runs = append(runs, *run)

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal runs: %w", err)
	}

	// Replace the file atomically.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace runs file: %w", err)
	}
	return nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*domain.Run, error) {
	runs, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if runs[i].ID == id {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("run %s: %w", id, apperr.ErrNotFound)
}

func (s *Store) List(_ context.Context, offset, size int) (*storage.Page, error) {
	runs, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	storage.SortNewestFirst(runs)
	return storage.PageOf(runs, offset, size), nil
}

func (s *Store) Latest(_ context.Context, name string) (*domain.Run, error) {
	runs, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	storage.SortNewestFirst(runs)
	for i := range runs {
		if name == "" || runs[i].Name == name {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("latest run %q: %w", name, apperr.ErrNotFound)
}

func (s *Store) loadLocked() ([]domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]domain.Run, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Run{}, nil
		}
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	if len(data) == 0 {
		return []domain.Run{}, nil
	}

	var runs []domain.Run
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal runs: %w", err)
	}
	return runs, nil
}

// Healthy reports whether the history file can be read.
func (s *Store) Healthy(context.Context) bool {
	_, err := s.loadLocked()
	return err == nil
}

func (s *Store) Close() error { return nil }

var _ storage.Store = (*Store)(nil)
