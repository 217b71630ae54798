package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/microbench/internal/bench/report"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/internal/storage"
	"github.com/DjordjeVuckovic/microbench/pkg/pagination"
)

type RunsRouter struct {
	e      *echo.Echo
	reader storage.Reader
}

func NewRunsRouter(e *echo.Echo, reader storage.Reader) *RunsRouter {
	return &RunsRouter{
		e:      e,
		reader: reader,
	}
}

func (r *RunsRouter) Bind() {
	g := r.e.Group("/runs")
	g.GET("", r.listHandler)
	g.GET("/latest", r.latestHandler)
	g.GET("/compare", r.compareHandler)
	g.GET("/:id", r.getHandler)
}

// RunDetails is a stored run together with its ranking.
type RunDetails struct {
	*domain.Run
	Ranking report.Summary `json:"ranking"`
}

// listHandler godoc
// @Summary List benchmark runs
// @Description Returns stored runs, newest first
// @Tags runs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} pagination.OffsetResult[domain.RunSummary]
// @Router /runs [get]
func (r *RunsRouter) listHandler(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and size must be integers")
	}
	req.Normalize()

	page, err := r.reader.List(c.Request().Context(), req.Offset(), req.Size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(page.Items, page.Total, req))
}

// getHandler godoc
// @Summary Get a benchmark run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} RunDetails
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /runs/{id} [get]
func (r *RunsRouter) getHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	run, err := r.reader.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, details(run))
}

// latestHandler godoc
// @Summary Get the most recent run
// @Tags runs
// @Produce json
// @Param name query string false "Restrict to runs with this name"
// @Success 200 {object} RunDetails
// @Failure 404 {object} map[string]string
// @Router /runs/latest [get]
func (r *RunsRouter) latestHandler(c echo.Context) error {
	run, err := r.reader.Latest(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, details(run))
}

// compareHandler godoc
// @Summary Compare two runs
// @Description Per-task ops/sec and mean time change of head relative to base
// @Tags runs
// @Produce json
// @Param base query string true "Base run ID"
// @Param head query string true "Head run ID"
// @Success 200 {object} report.Comparison
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /runs/compare [get]
func (r *RunsRouter) compareHandler(c echo.Context) error {
	baseID, err := parseID(c.QueryParam("base"))
	if err != nil {
		return err
	}
	headID, err := parseID(c.QueryParam("head"))
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	base, err := r.reader.Get(ctx, baseID)
	if err != nil {
		return err
	}
	head, err := r.reader.Get(ctx, headID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report.Compare(base, head))
}

func parseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "run id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid run id: "+raw)
	}
	return id, nil
}

func details(run *domain.Run) RunDetails {
	return RunDetails{Run: run, Ranking: report.Summarize(run.Results)}
}
