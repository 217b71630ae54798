package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/internal/storage"
)

// RunStore indexes one document per run.
type RunStore struct {
	client    *elasticsearch.TypedClient
	indexName string
}

// runDocument is the indexed form of a run. Only the listing fields are
// mapped; the rest is stored as-is.
type runDocument struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	StartedAt   time.Time           `json:"started_at"`
	DurationNs  int64               `json:"duration_ns"`
	Tasks       []string            `json:"tasks"`
	Environment domain.Environment  `json:"environment"`
	Options     domain.Options      `json:"options"`
	Results     []domain.TaskResult `json:"results"`
}

func NewRunStore(ctx context.Context, config ClientConfig) (*RunStore, error) {
	client, err := NewClient(config)
	if err != nil {
		return nil, err
	}

	s := &RunStore{
		client:    client,
		indexName: config.IndexName,
	}
	if err := s.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return s, nil
}

func (s *RunStore) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Debug("Index already exists", "index", s.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"name":        types.NewKeywordProperty(),
			"started_at":  types.NewDateProperty(),
			"duration_ns": types.NewLongNumberProperty(),
			"tasks":       types.NewKeywordProperty(),
			"environment": storedOnly(),
			"options":     storedOnly(),
			"results":     storedOnly(),
		},
	}

	res, err := s.client.Indices.Create(s.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

func storedOnly() types.Property {
	enabled := false
	obj := types.NewObjectProperty()
	obj.Enabled = &enabled
	return obj
}

func (s *RunStore) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	doc := toDocument(run)

	res, err := s.client.Index(s.indexName).
		Id(doc.ID).
		Document(doc).
		Refresh(refresh.True).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index run: %w", err)
	}

	slog.Debug("run indexed", "id", doc.ID, "index", s.indexName, "result", res.Result)
	return nil
}

func (s *RunStore) Get(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	res, err := s.client.Get(s.indexName, id.String()).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if !res.Found {
		return nil, fmt.Errorf("run %s: %w", id, apperr.ErrNotFound)
	}
	return fromSource(res.Source_)
}

func (s *RunStore) List(ctx context.Context, offset, size int) (*storage.Page, error) {
	page := &storage.Page{Items: []domain.RunSummary{}}
	size = max(size, 0)

	req := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		From(max(offset, 0)).
		Size(size)

	res, err := sortNewestFirst(req).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	if res.Hits.Total != nil {
		page.Total = res.Hits.Total.Value
	}
	for _, hit := range res.Hits.Hits {
		run, err := fromSource(hit.Source_)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, run.Summary())
	}
	return page, nil
}

func (s *RunStore) Latest(ctx context.Context, name string) (*domain.Run, error) {
	query := &types.Query{MatchAll: &types.MatchAllQuery{}}
	if name != "" {
		query = &types.Query{
			Term: map[string]types.TermQuery{
				"name": {Value: name},
			},
		}
	}

	req := s.client.Search().
		Index(s.indexName).
		Query(query).
		Size(1)

	res, err := sortNewestFirst(req).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	if len(res.Hits.Hits) == 0 {
		return nil, fmt.Errorf("latest run %q: %w", name, apperr.ErrNotFound)
	}
	return fromSource(res.Hits.Hits[0].Source_)
}

func sortNewestFirst(req *search.Search) *search.Search {
	desc := sortorder.Desc
	asc := sortorder.Asc
	return req.Sort(
		&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"started_at": {Order: &desc},
			},
		},
		&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"id": {Order: &asc},
			},
		},
	)
}

func (s *RunStore) Healthy(ctx context.Context) bool {
	ok, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	return err == nil && ok
}

func (s *RunStore) Close() error { return nil }

func toDocument(run *domain.Run) runDocument {
	doc := runDocument{
		ID:          run.ID.String(),
		Name:        run.Name,
		StartedAt:   run.StartedAt,
		DurationNs:  run.Duration.Nanoseconds(),
		Tasks:       make([]string, len(run.Results)),
		Environment: run.Environment,
		Options:     run.Options,
		Results:     run.Results,
	}
	for i, r := range run.Results {
		doc.Tasks[i] = r.Name
	}
	return doc
}

func fromSource(source json.RawMessage) (*domain.Run, error) {
	var doc runDocument
	if err := json.Unmarshal(source, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run document: %w", err)
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run ID %q: %w", doc.ID, err)
	}
	return &domain.Run{
		ID:          id,
		Name:        doc.Name,
		StartedAt:   doc.StartedAt.UTC(),
		Duration:    time.Duration(doc.DurationNs),
		Environment: doc.Environment,
		Options:     doc.Options,
		Results:     doc.Results,
	}, nil
}

var _ storage.Store = (*RunStore)(nil)
