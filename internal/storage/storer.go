package storage

import (
	"context"

	"github.com/DjordjeVuckovic/microbench/internal/domain"
)

// Storer persists completed runs.
type Storer interface {
	Save(ctx context.Context, run *domain.Run) error
}

// Store is a run history backend.
type Store interface {
	Storer
	Reader
	Healthy(ctx context.Context) bool
	Close() error
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
	File  Type = "file"
)

var Types = []Type{ES, PG, InMem, File}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
