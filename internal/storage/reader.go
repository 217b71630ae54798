package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/microbench/internal/domain"
)

// Page is a slice of run summaries, newest first, and the total number of
// stored runs.
type Page struct {
	Items []domain.RunSummary
	Total int64
}

// Reader queries the run history. Lookups of missing runs return an error
// wrapping apperr.ErrNotFound.
type Reader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	// List returns up to size summaries after skipping offset runs.
	List(ctx context.Context, offset, size int) (*Page, error)
	// Latest returns the most recent run with the given name, or the most
	// recent run of any name when name is empty.
	Latest(ctx context.Context, name string) (*domain.Run, error)
}
