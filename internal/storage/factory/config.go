package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/DjordjeVuckovic/microbench/internal/storage"
	"github.com/DjordjeVuckovic/microbench/internal/storage/es"
	"github.com/DjordjeVuckovic/microbench/internal/storage/pg"
	"github.com/DjordjeVuckovic/microbench/pkg/stringsutil"
)

const (
	DefaultFilePath  = ".bench/runs.json"
	DefaultIndexName = "bench-runs"
)

type StorageConfig struct {
	storage.Type
	Pg       *pg.PoolConfig
	Es       *es.ClientConfig
	FilePath string
}

// LoadEnv reads the run history backend from the environment. STORAGE_TYPE
// defaults to file.
func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		storageType = storage.File
	}
	if !slices.Contains(storage.Types, storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types)
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.ES:
		addresses := stringsutil.SplitTrim(os.Getenv("ES_ADDRESSES"), ",")
		cfg.Es = &es.ClientConfig{
			Addresses: addresses,
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
			APIKey:    os.Getenv("ES_API_KEY"),
		}
		if cfg.Es.IndexName == "" {
			cfg.Es.IndexName = DefaultIndexName
		}
		if len(addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_ADDRESSES is missing")
		}

	case storage.PG:
		cfg.Pg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}

	case storage.File:
		cfg.FilePath = os.Getenv("BENCH_STORE_PATH")
		if cfg.FilePath == "" {
			cfg.FilePath = DefaultFilePath
		}
	}

	return cfg, nil
}
