package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/bench/stats"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/internal/storage"
)

// RunStore keeps runs in bench_runs and their task results in bench_results.
type RunStore struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

func NewRunStore(pool *ConnectionPool) *RunStore {
	return &RunStore{pool: pool, db: pool.conn}
}

func (s *RunStore) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	envJSON, err := json.Marshal(run.Environment)
	if err != nil {
		return fmt.Errorf("failed to marshal environment: %w", err)
	}
	optsJSON, err := json.Marshal(run.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	rows := make([][]any, len(run.Results))
	for i, r := range run.Results {
		statsJSON, err := json.Marshal(r.Stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats of %q: %w", r.Name, err)
		}
		rows[i] = []any{run.ID, i, r.Name, r.Stats.OpsPerSecond.Average, r.Stats.Time.Average, statsJSON}
	}

	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		cmd := `
			INSERT INTO bench_runs (id, name, started_at, duration_ns, environment, options)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.Exec(ctx, cmd, run.ID, run.Name, run.StartedAt, run.Duration.Nanoseconds(), envJSON, optsJSON); err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		_, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"bench_results"},
			[]string{"run_id", "position", "name", "ops_per_second", "mean_ms", "stats"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy results: %w", err)
		}
		return nil
	})
}

func (s *RunStore) Get(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	query := `
		SELECT id, name, started_at, duration_ns, environment, options
		FROM bench_runs
		WHERE id = $1
	`
	var (
		run        domain.Run
		durationNs int64
		envJSON    []byte
		optsJSON   []byte
	)
	err := s.db.QueryRow(ctx, query, id).Scan(&run.ID, &run.Name, &run.StartedAt, &durationNs, &envJSON, &optsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	run.Duration = time.Duration(durationNs)
	run.StartedAt = run.StartedAt.UTC()

	if err := json.Unmarshal(envJSON, &run.Environment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment: %w", err)
	}
	if err := json.Unmarshal(optsJSON, &run.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}

	results, err := s.results(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Results = results
	return &run, nil
}

func (s *RunStore) results(ctx context.Context, runID uuid.UUID) ([]domain.TaskResult, error) {
	rows, err := s.db.Query(ctx, `SELECT name, stats FROM bench_results WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TaskResult, error) {
		var (
			name      string
			statsJSON []byte
			st        stats.TaskStats
		)
		if err := row.Scan(&name, &statsJSON); err != nil {
			return domain.TaskResult{}, err
		}
		if err := json.Unmarshal(statsJSON, &st); err != nil {
			return domain.TaskResult{}, fmt.Errorf("unmarshal stats of %q: %w", name, err)
		}
		return domain.TaskResult{Name: name, Stats: st}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}

func (s *RunStore) List(ctx context.Context, offset, size int) (*storage.Page, error) {
	page := &storage.Page{Items: []domain.RunSummary{}}
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM bench_runs`).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	if size <= 0 || int64(offset) >= page.Total {
		return page, nil
	}

	query := `
		SELECT r.id, r.name, r.started_at, r.duration_ns,
		       COALESCE(array_agg(res.name ORDER BY res.position) FILTER (WHERE res.name IS NOT NULL), '{}')
		FROM bench_runs r
		LEFT JOIN bench_results res ON res.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.Query(ctx, query, size, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RunSummary, error) {
		var (
			sum        domain.RunSummary
			durationNs int64
		)
		if err := row.Scan(&sum.ID, &sum.Name, &sum.StartedAt, &durationNs, &sum.Tasks); err != nil {
			return domain.RunSummary{}, err
		}
		sum.Duration = time.Duration(durationNs)
		sum.StartedAt = sum.StartedAt.UTC()
		return sum, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	page.Items = items
	return page, nil
}

func (s *RunStore) Latest(ctx context.Context, name string) (*domain.Run, error) {
	query := `
		SELECT id FROM bench_runs
		WHERE $1 = '' OR name = $1
		ORDER BY started_at DESC
		LIMIT 1
	`
	var id uuid.UUID
	if err := s.db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("latest run %q: %w", name, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *RunStore) Healthy(ctx context.Context) bool {
	return NewHealthChecker(s.pool, "bench_runs", "bench_results").Healthy(ctx)
}

func (s *RunStore) Close() error {
	s.pool.Close()
	return nil
}

var _ storage.Store = (*RunStore)(nil)
