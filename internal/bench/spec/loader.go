package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/bench/clock"
	"github.com/DjordjeVuckovic/microbench/internal/bench/runner"
)

func LoadFromFile(path string) (*BenchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*BenchSpec, error) {
	var s BenchSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, apperr.NewConfigWrap("parse spec YAML", err)
	}
	if err := s.render(); err != nil {
		return nil, err
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var validEngineTypes = map[EngineType]bool{
	EnginePostgres:      true,
	EngineElasticsearch: true,
	EngineHTTP:          true,
}

var validKinds = map[TaskKind]bool{
	KindNoop:     true,
	KindSpin:     true,
	KindSleep:    true,
	KindSQL:      true,
	KindESSearch: true,
	KindHTTP:     true,
}

func validate(s *BenchSpec) error {
	if s.Name == "" {
		s.Name = "bench"
	}
	if len(s.Tasks) == 0 {
		return apperr.NewConfig("spec has no tasks")
	}

	for name, eng := range s.Engines {
		if eng.Type == "" {
			return apperr.NewConfigf("engine %q has no type", name)
		}
		if !validEngineTypes[eng.Type] {
			return apperr.NewConfigf("engine %q has invalid type %q", name, eng.Type)
		}
		if eng.Connection == "" {
			return apperr.NewConfigf("engine %q has no connection", name)
		}
	}

	seen := make(map[string]bool, len(s.Tasks))
	for i := range s.Tasks {
		t := &s.Tasks[i]
		if t.Name == "" {
			return apperr.NewConfigf("task at index %d has no name", i)
		}
		if seen[t.Name] {
			return apperr.NewConfigf("task %q is defined twice", t.Name)
		}
		seen[t.Name] = true

		if err := validateTask(t, s.Engines); err != nil {
			return err
		}
	}

	if _, err := clock.ParseMethod(s.Options.Clock); err != nil {
		return apperr.NewConfigWrap("invalid options", err)
	}
	if s.Options.Iterations != Auto && s.Options.Time != 0 {
		return apperr.NewConfig("options.time is only supported when options.iterations is auto")
	}
	if s.Options.Time < 0 {
		return apperr.NewConfigf("options.time must be positive, got %v", s.Options.Time)
	}
	if s.Options.Pause < 0 {
		return apperr.NewConfigf("options.pause must not be negative, got %s", s.Options.Pause)
	}
	return nil
}

func validateTask(t *Task, engines map[string]Engine) error {
	if !validKinds[t.Kind] {
		return apperr.NewConfigf("task %q has invalid kind %q", t.Name, t.Kind)
	}

	switch t.Kind {
	case KindSpin, KindSleep:
		if t.Duration <= 0 {
			return apperr.NewConfigf("task %q of kind %s needs a positive duration", t.Name, t.Kind)
		}
	case KindSQL, KindESSearch:
		if t.Query == "" {
			return apperr.NewConfigf("task %q of kind %s has no query", t.Name, t.Kind)
		}
	case KindHTTP:
		if t.Method == "" {
			t.Method = "GET"
		}
	}

	want, needsEngine := engineKinds[t.Kind]
	if !needsEngine {
		return nil
	}
	if t.Engine == "" {
		return apperr.NewConfigf("task %q of kind %s has no engine", t.Name, t.Kind)
	}
	eng, ok := engines[t.Engine]
	if !ok {
		return apperr.NewConfigf("task %q references unknown engine %q", t.Name, t.Engine)
	}
	if eng.Type != want {
		return apperr.NewConfigf("task %q of kind %s needs a %s engine, %q is %s", t.Name, t.Kind, want, t.Engine, eng.Type)
	}
	return nil
}

// RunnerConfig converts the options into a runner configuration.
func (o Options) RunnerConfig() runner.Config {
	cfg := runner.DefaultConfig()
	cfg.Iterations = runner.Count(o.Iterations)
	cfg.Time = o.Time
	cfg.Batching.Size = runner.Count(o.Batching.Size)
	if o.Batching.Enabled != nil {
		cfg.Batching.Enabled = *o.Batching.Enabled
	}
	cfg.Warmup.Iterations = runner.Count(o.Warmup.Iterations)
	if o.Warmup.Enabled != nil {
		cfg.Warmup.Enabled = *o.Warmup.Enabled
	}
	if o.Clock != "" {
		cfg.Clock = clock.Method(o.Clock)
	}
	cfg.Pause = o.Pause
	return cfg
}
