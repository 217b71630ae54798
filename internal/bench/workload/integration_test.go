package workload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/microbench/internal/bench/spec"
	pkgtesting "github.com/DjordjeVuckovic/microbench/pkg/testing"
)

func TestSQL_Integration(t *testing.T) {
	pkgtesting.SkipIfShort(t)

	ctx := context.Background()
	pgc := pkgtesting.NewPGContainerWithCleanup(ctx, t)

	s := &spec.BenchSpec{
		Engines: map[string]spec.Engine{
			"pg": {Type: spec.EnginePostgres, Connection: pgc.ConnString},
		},
		Tasks: []spec.Task{
			{Name: "select", Kind: spec.KindSQL, Engine: "pg", Query: "SELECT generate_series(1, $1::int)", Params: []any{10}},
			{Name: "broken", Kind: spec.KindSQL, Engine: "pg", Query: "SELECT * FROM missing_table"},
		},
	}

	workloads, cleanup, err := CreateFromSpec(ctx, s)
	require.NoError(t, err)
	defer cleanup()

	ok := workloads[0].Body.(func(context.Context) error)
	assert.NoError(t, ok(ctx))

	broken := workloads[1].Body.(func(context.Context) error)
	assert.Error(t, broken(ctx))
}

func TestESSearch_Integration(t *testing.T) {
	pkgtesting.SkipIfShort(t)

	ctx := context.Background()
	esc := pkgtesting.NewESContainer(ctx, t)

	s := &spec.BenchSpec{
		Engines: map[string]spec.Engine{
			"es": {Type: spec.EngineElasticsearch, Connection: esc.Address, Index: "_all"},
		},
		Tasks: []spec.Task{
			{Name: "match-all", Kind: spec.KindESSearch, Engine: "es", Query: `{"query":{"match_all":{}}}`},
		},
	}

	workloads, cleanup, err := CreateFromSpec(ctx, s)
	require.NoError(t, err)
	defer cleanup()

	search := workloads[0].Body.(func(context.Context) error)
	assert.NoError(t, search(ctx))
}
