package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/microbench/internal/storage"
	"github.com/DjordjeVuckovic/microbench/internal/storage/es"
	"github.com/DjordjeVuckovic/microbench/internal/storage/file"
	"github.com/DjordjeVuckovic/microbench/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/microbench/internal/storage/pg"
)

// NewStore opens the run history backend described by cfg.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewRunStore(pool), nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		return es.NewRunStore(ctx, *cfg.Es)

	case storage.File:
		return file.NewStore(cfg.FilePath)

	case storage.InMem:
		return in_mem.NewStore(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
