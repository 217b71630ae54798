package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/internal/storage"
	"github.com/DjordjeVuckovic/microbench/internal/storage/factory"
)

// openStore opens the run history selected by STORAGE_TYPE.
func openStore(ctx context.Context) (storage.Store, error) {
	cfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}
	store, err := factory.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Type, err)
	}
	return store, nil
}

// loadRun fetches id, or the latest run named name when id is nil.
func loadRun(ctx context.Context, r storage.Reader, id uuid.UUID, name string) (*domain.Run, error) {
	if id != uuid.Nil {
		return r.Get(ctx, id)
	}
	return r.Latest(ctx, name)
}
