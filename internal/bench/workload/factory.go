package workload

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/DjordjeVuckovic/microbench/internal/bench/spec"
	"github.com/DjordjeVuckovic/microbench/internal/storage/es"
	"github.com/DjordjeVuckovic/microbench/internal/storage/pg"
	"github.com/DjordjeVuckovic/microbench/pkg/stringsutil"
)

const defaultHTTPTimeout = 30 * time.Second

// engines holds the connections opened for the engines a spec uses.
type engines struct {
	pg   map[string]*pg.ConnectionPool
	es   map[string]*elasticsearch.TypedClient
	http *http.Client
}

// CreateFromSpec opens the engines referenced by the spec's tasks and
// returns a workload per task in spec order. The cleanup func closes every
// opened engine and must be called once the run is over.
func CreateFromSpec(ctx context.Context, s *spec.BenchSpec) ([]Workload, func(), error) {
	engs := &engines{
		pg:   make(map[string]*pg.ConnectionPool),
		es:   make(map[string]*elasticsearch.TypedClient),
		http: &http.Client{Timeout: defaultHTTPTimeout},
	}
	var cleanups []func()

	cleanup := func() {
		for _, c := range cleanups {
			c()
		}
	}

	workloads := make([]Workload, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.Engine != "" {
			closeFn, err := engs.open(ctx, t.Engine, s.Engines[t.Engine])
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			if closeFn != nil {
				cleanups = append(cleanups, closeFn)
			}
		}

		body, err := engs.body(t, s.Engines[t.Engine])
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		workloads = append(workloads, Workload{Name: t.Name, Kind: t.Kind, Body: body})
	}

	return workloads, cleanup, nil
}

// open connects name once; later calls for the same engine are no-ops.
func (e *engines) open(ctx context.Context, name string, eng spec.Engine) (func(), error) {
	switch eng.Type {
	case spec.EnginePostgres:
		if _, ok := e.pg[name]; ok {
			return nil, nil
		}
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: eng.Connection})
		if err != nil {
			return nil, fmt.Errorf("create pg pool for %q: %w", name, err)
		}
		e.pg[name] = pool
		slog.Debug("engine connected", "engine", name, "type", eng.Type)
		return pool.Close, nil

	case spec.EngineElasticsearch:
		if _, ok := e.es[name]; ok {
			return nil, nil
		}
		client, err := es.NewClient(es.ClientConfig{
			Addresses: stringsutil.SplitTrim(eng.Connection, ","),
			Username:  eng.Username,
			Password:  eng.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create es client for %q: %w", name, err)
		}
		e.es[name] = client
		slog.Debug("engine connected", "engine", name, "type", eng.Type)
		return nil, nil

	case spec.EngineHTTP:
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported engine type %q for %q", eng.Type, name)
	}
}

func (e *engines) body(t spec.Task, eng spec.Engine) (any, error) {
	switch t.Kind {
	case spec.KindNoop:
		return Noop(), nil
	case spec.KindSpin:
		return Spin(t.Duration), nil
	case spec.KindSleep:
		return Sleep(t.Duration), nil
	case spec.KindSQL:
		return SQL(e.pg[t.Engine].GetConn(), t.Query, t.Params), nil
	case spec.KindESSearch:
		return ESSearch(e.es[t.Engine], eng.Index, t.Query), nil
	case spec.KindHTTP:
		return HTTP(e.http, HTTPRequest{
			Method: t.Method,
			URL:    strings.TrimRight(eng.Connection, "/") + t.Path,
			Header: t.Header,
			Body:   t.Body,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported task kind %q for %q", t.Kind, t.Name)
	}
}
