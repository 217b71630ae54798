package workload

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SQL runs query on every call and drains its rows.
func SQL(pool *pgxpool.Pool, query string, params []any) func(context.Context) error {
	return func(ctx context.Context) error {
		rows, err := pool.Query(ctx, query, params...)
		if err != nil {
			return fmt.Errorf("pg query: %w", err)
		}
		for rows.Next() {
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("pg rows: %w", err)
		}
		return nil
	}
}
