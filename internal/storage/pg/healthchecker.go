package pg

import (
	"context"
	"log/slog"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports the pool healthy when the database answers and the
// run history tables are migrated.
type HealthChecker struct {
	pool   *ConnectionPool
	tables []string
}

func NewHealthChecker(pool *ConnectionPool, tables ...string) *HealthChecker {
	return &HealthChecker{
		pool:   pool,
		tables: tables,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := hc.pool.Ping(ctx); err != nil {
		slog.Warn("Postgres ping failed", "error", err)
		return false
	}

	for _, table := range hc.tables {
		var exists bool
		err := hc.pool.GetConn().QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists)
		if err != nil || !exists {
			slog.Warn("Postgres table missing", "table", table, "error", err)
			return false
		}
	}
	return true
}
