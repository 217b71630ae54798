// Package storetest checks storage.Store implementations against the
// behaviour every backend shares.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/bench/stats"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/internal/storage"
)

// NewRun builds a run with one result per task name.
func NewRun(name string, startedAt time.Time, tasks ...string) *domain.Run {
	run := &domain.Run{
		ID:          uuid.New(),
		Name:        name,
		StartedAt:   startedAt.UTC().Truncate(time.Millisecond),
		Duration:    1500 * time.Millisecond,
		Environment: domain.NewEnvironment("ci"),
		Options:     domain.Options{Iterations: 1000, Batching: true, BatchSize: 100, Clock: "auto"},
	}
	for i, task := range tasks {
		run.Results = append(run.Results, domain.TaskResult{
			Name: task,
			Stats: stats.TaskStats{
				Samples:      1000,
				Batches:      10,
				Time:         stats.TimeStats{Total: 1000, Min: 1, Max: 1, Average: float64(i + 1)},
				OpsPerSecond: stats.OpsStats{Min: 1000, Max: 1000, Average: 1000 / float64(i+1), Margin: 0.25},
			},
		})
	}
	return run
}

// Run exercises an empty store. newStore must return a store with no runs.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		s := newStore(t)
		run := NewRun("nightly", time.Now(), "parse", "encode")
		require.NoError(t, s.Save(ctx, run))

		got, err := s.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, run.Name, got.Name)
		assert.True(t, run.StartedAt.Equal(got.StartedAt))
		assert.Equal(t, run.Duration, got.Duration)
		assert.Equal(t, run.Options, got.Options)
		assert.Equal(t, run.Environment, got.Environment)
		assert.Equal(t, run.Results, got.Results)
	})

	t.Run("save assigns missing id", func(t *testing.T) {
		s := newStore(t)
		run := NewRun("adhoc", time.Now(), "a")
		run.ID = uuid.Nil
		require.NoError(t, s.Save(ctx, run))
		assert.NotEqual(t, uuid.Nil, run.ID)

		_, err := s.Get(ctx, run.ID)
		assert.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, err = s.Latest(ctx, "")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("list and latest", func(t *testing.T) {
		s := newStore(t)
		base := time.Now().Add(-time.Hour)
		old := NewRun("nightly", base, "a")
		other := NewRun("adhoc", base.Add(time.Minute), "x", "y")
		recent := NewRun("nightly", base.Add(2*time.Minute), "a", "b")
		for _, r := range []*domain.Run{old, other, recent} {
			require.NoError(t, s.Save(ctx, r))
		}

		page, err := s.List(ctx, 0, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, recent.ID, page.Items[0].ID)
		assert.Equal(t, []string{"a", "b"}, page.Items[0].Tasks)
		assert.Equal(t, other.ID, page.Items[1].ID)

		page, err = s.List(ctx, 2, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, old.ID, page.Items[0].ID)

		page, err = s.List(ctx, 10, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)

		latest, err := s.Latest(ctx, "nightly")
		require.NoError(t, err)
		assert.Equal(t, recent.ID, latest.ID)

		latest, err = s.Latest(ctx, "adhoc")
		require.NoError(t, err)
		assert.Equal(t, other.ID, latest.ID)

		_, err = s.Latest(ctx, "weekly")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("healthy", func(t *testing.T) {
		s := newStore(t)
		assert.True(t, s.Healthy(ctx))
	})
}
