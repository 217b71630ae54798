package spec

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type BenchSpec struct {
	Name    string            `yaml:"name"`
	Vars    Vars              `yaml:"vars,omitempty"`
	Options Options           `yaml:"options"`
	Engines map[string]Engine `yaml:"engines"`
	Tasks   []Task            `yaml:"tasks"`
}

// Options mirror runner.Config. Omitted counts are auto; omitted toggles
// are enabled.
type Options struct {
	Iterations Count           `yaml:"iterations"`
	Time       float64         `yaml:"time"`
	Batching   BatchingOptions `yaml:"batching"`
	Warmup     WarmupOptions   `yaml:"warmup"`
	Clock      string          `yaml:"clock"`
	Pause      time.Duration   `yaml:"pause"`
}

type BatchingOptions struct {
	Enabled *bool `yaml:"enabled"`
	Size    Count `yaml:"size"`
}

type WarmupOptions struct {
	Enabled    *bool `yaml:"enabled"`
	Iterations Count `yaml:"iterations"`
}

// Engine is a connection shared by the tasks that reference it.
type Engine struct {
	Type       EngineType `yaml:"type"`
	Connection string     `yaml:"connection"`
	Index      string     `yaml:"index,omitempty"`
	Username   string     `yaml:"username,omitempty"`
	Password   string     `yaml:"password,omitempty"`
}

type EngineType string

const (
	EnginePostgres      EngineType = "postgres"
	EngineElasticsearch EngineType = "elasticsearch"
	EngineHTTP          EngineType = "http"
)

type Task struct {
	Name   string   `yaml:"name"`
	Kind   TaskKind `yaml:"kind"`
	Engine string   `yaml:"engine,omitempty"`
	// Duration is the cost of one call for spin and sleep tasks.
	Duration time.Duration `yaml:"duration,omitempty"`
	// Query is SQL for sql tasks and a JSON search body for es_search tasks.
	Query  string            `yaml:"query,omitempty"`
	Params []any             `yaml:"params,omitempty"`
	Method string            `yaml:"method,omitempty"`
	Path   string            `yaml:"path,omitempty"`
	Header map[string]string `yaml:"header,omitempty"`
	Body   string            `yaml:"body,omitempty"`
}

type TaskKind string

const (
	KindNoop     TaskKind = "noop"
	KindSpin     TaskKind = "spin"
	KindSleep    TaskKind = "sleep"
	KindSQL      TaskKind = "sql"
	KindESSearch TaskKind = "es_search"
	KindHTTP     TaskKind = "http"
)

// engineKinds maps task kinds backed by an engine to the engine type they need.
var engineKinds = map[TaskKind]EngineType{
	KindSQL:      EnginePostgres,
	KindESSearch: EngineElasticsearch,
	KindHTTP:     EngineHTTP,
}

// Count is a positive count or 0 for auto. In YAML it is written as an
// integer or the string "auto".
type Count int

const Auto Count = 0

func (c *Count) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: count must be a number or \"auto\"", node.Line)
	}
	if node.Value == "auto" {
		*c = Auto
		return nil
	}
	n, err := strconv.Atoi(node.Value)
	if err != nil || n < 1 {
		return fmt.Errorf("line %d: count must be a positive number or \"auto\", got %q", node.Line, node.Value)
	}
	*c = Count(n)
	return nil
}

func (c Count) MarshalYAML() (any, error) {
	if c == Auto {
		return "auto", nil
	}
	return int(c), nil
}

func (c Count) String() string {
	if c == Auto {
		return "auto"
	}
	return strconv.Itoa(int(c))
}
