package in_mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/internal/storage"
)

type Store struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]domain.Run
}

func NewStore() *Store {
	return &Store{
		storage: make(map[uuid.UUID]domain.Run),
	}
}

func (s *Store) Save(_ context.Context, run *domain.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.storage[run.ID] = *run
	return nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*domain.Run, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	run, ok := s.storage[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, apperr.ErrNotFound)
	}
	return &run, nil
}

func (s *Store) List(_ context.Context, offset, size int) (*storage.Page, error) {
	runs := s.sorted()
	return storage.PageOf(runs, offset, size), nil
}

func (s *Store) Latest(_ context.Context, name string) (*domain.Run, error) {
	for _, run := range s.sorted() {
		if name == "" || run.Name == name {
			return &run, nil
		}
	}
	return nil, fmt.Errorf("latest run %q: %w", name, apperr.ErrNotFound)
}

// sorted returns a copy of all runs, newest first.
func (s *Store) sorted() []domain.Run {
	s.storageLock.RLock()
	runs := make([]domain.Run, 0, len(s.storage))
	for _, run := range s.storage {
		runs = append(runs, run)
	}
	s.storageLock.RUnlock()

	storage.SortNewestFirst(runs)
	return runs
}

func (s *Store) Healthy(context.Context) bool { return true }

func (s *Store) Close() error { return nil }

var _ storage.Store = (*Store)(nil)
