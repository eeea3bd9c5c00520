package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

type chartService interface {
	RenderChart(ctx context.Context, sel dashboard.Selection) (dashboard.RenderResult, error)
}

// ChartQuery runs one fetch-shape-render cycle.
type ChartQuery struct {
	service chartService
}

// NewChartQuery builds the query.
func NewChartQuery(service chartService) *ChartQuery {
	return &ChartQuery{service: service}
}

var _ gocommand.Querier[dashboard.Selection, dashboard.RenderResult] = (*ChartQuery)(nil)

// Query renders the chart for the selection.
func (q *ChartQuery) Query(ctx context.Context, sel dashboard.Selection) (dashboard.RenderResult, error) {
	return q.service.RenderChart(ctx, sel)
}
