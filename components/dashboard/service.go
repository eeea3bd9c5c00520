package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultLocale         = "es"
	defaultRequestTimeout = 5 * time.Second
)

var errMissingDataSource = errors.New("dashboard: data source not configured")

// Options configures the dashboard Service. Collaborators are interfaces so
// applications can swap the remote clients, label catalog or telemetry sink.
type Options struct {
	Source         DataSource
	Presenter      *EChartsProvider
	Labels         TranslationService
	Telemetry      Telemetry
	Years          YearCatalog
	Locale         string
	RequestTimeout time.Duration
}

// Service runs the fetch-shape-render cycle behind every UI interaction.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Presenter == nil {
		opts.Presenter = NewEChartsProvider()
	}
	if opts.Labels == nil {
		opts.Labels = DefaultLabels()
	}
	if opts.Locale == "" {
		opts.Locale = defaultLocale
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// ResultKind tags the outcome of RenderChart.
type ResultKind string

const (
	ResultFigure      ResultKind = "figure"
	ResultNeedsInput  ResultKind = "needs_input"
	ResultEmpty       ResultKind = "empty"
	ResultUnavailable ResultKind = "unavailable"
)

// RenderResult is what the UI receives for one interaction. Figure is set for
// every kind except ResultNeedsInput; empty and unavailable results carry a
// placeholder figure.
type RenderResult struct {
	CycleID    string      `json:"cycle_id"`
	Kind       ResultKind  `json:"kind"`
	Tab        string      `json:"tab"`
	Option     string      `json:"option"`
	Controls   Controls    `json:"controls"`
	Figure     *Figure     `json:"figure,omitempty"`
	NeedsInput *NeedsInput `json:"needs_input,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// Years returns the startup year catalog.
func (s *Service) Years() YearCatalog {
	return s.opts.Years
}

// Locale returns the locale used for labels.
func (s *Service) Locale() string {
	return s.opts.Locale
}

// Label translates a catalog key for the service locale.
func (s *Service) Label(ctx context.Context, key, fallback string, args map[string]any) string {
	return translateOrFallback(ctx, s.opts.Labels, key, s.opts.Locale, fallback, args)
}

// RenderChart routes the selection, fetches and shapes the data and renders
// the figure. Remote failures and empty data are reported through the result,
// never as errors; errors are reserved for invalid selections and programming
// errors in the presentation layer.
func (s *Service) RenderChart(ctx context.Context, sel Selection) (RenderResult, error) {
	routing, err := Route(sel)
	if err != nil {
		return RenderResult{}, err
	}
	result := RenderResult{
		CycleID:  uuid.NewString(),
		Tab:      sel.Tab.String(),
		Option:   sel.Option.String(),
		Controls: routing.Controls,
	}
	payload := map[string]any{
		"cycle_id": result.CycleID,
		"tab":      result.Tab,
		"option":   result.Option,
	}

	if routing.NeedsInput != nil {
		result.Kind = ResultNeedsInput
		result.NeedsInput = routing.NeedsInput
		result.Message = s.Label(ctx, "message.needs_"+string(routing.NeedsInput.Control), "", nil)
		payload["missing"] = routing.NeedsInput.Missing
		s.opts.Telemetry.Record(ctx, EventNeedsInput, payload)
		return result, nil
	}

	req := *routing.Request
	title := s.title(ctx, req)
	started := time.Now()

	shaped, err := s.execute(ctx, req)
	if err != nil {
		if !errors.Is(err, ErrRemoteUnavailable) {
			return RenderResult{}, err
		}
		payload["query"] = req.Query.String()
		payload["error"] = err.Error()
		s.opts.Telemetry.Record(ctx, EventRemoteError, payload)
		return s.placeholder(ctx, result, ResultUnavailable, title, "message.unavailable", true)
	}

	if len(shaped.Anomalies) > 0 {
		s.opts.Telemetry.Record(ctx, EventLookupMiss, merge(payload, map[string]any{
			"count":     len(shaped.Anomalies),
			"anomalies": shaped.Anomalies,
		}))
	}

	switch shaped.Kind {
	case OutcomeMalformed:
		s.opts.Telemetry.Record(ctx, EventMalformed, merge(payload, map[string]any{
			"query":  req.Query.String(),
			"reason": shaped.Reason,
		}))
		return s.placeholder(ctx, result, ResultEmpty, title, "message.no_data", false)
	case OutcomeEmpty:
		s.opts.Telemetry.Record(ctx, EventChartNoData, merge(payload, map[string]any{
			"query":  req.Query.String(),
			"reason": shaped.Reason,
		}))
		return s.placeholder(ctx, result, ResultEmpty, title, "message.no_data", false)
	}

	table := shaped.Table
	if req.Shape == ShapePromotion {
		table = s.localizeSeries(ctx, table)
	}
	figure, err := s.opts.Presenter.Present(table, ChartSpec{
		Kind:     req.Kind,
		Encoding: req.Encoding,
		Title:    title,
		XName:    s.Label(ctx, "column."+table.CategoryLabel, table.CategoryLabel, nil),
		YName:    s.Label(ctx, "column."+table.ValueLabel, table.ValueLabel, nil),
	})
	if err != nil {
		return RenderResult{}, fmt.Errorf("dashboard: present %s/%s: %w", result.Tab, result.Option, err)
	}
	result.Kind = ResultFigure
	result.Figure = &figure
	s.opts.Telemetry.Record(ctx, EventChartRender, merge(payload, map[string]any{
		"query":       req.Query.String(),
		"chart":       req.Kind.String(),
		"rows":        len(table.Rows),
		"duration_ms": time.Since(started).Milliseconds(),
	}))
	return result, nil
}

func (s *Service) placeholder(ctx context.Context, result RenderResult, kind ResultKind, title, messageKey string, isError bool) (RenderResult, error) {
	message := s.Label(ctx, messageKey, messageKey, nil)
	figure, err := s.opts.Presenter.Placeholder(title, message, isError)
	if err != nil {
		return RenderResult{}, fmt.Errorf("dashboard: placeholder %s/%s: %w", result.Tab, result.Option, err)
	}
	result.Kind = kind
	result.Figure = &figure
	result.Message = message
	return result, nil
}

func (s *Service) title(ctx context.Context, req ChartRequest) string {
	args := map[string]any{}
	if req.Params.Year != 0 {
		args["year"] = req.Params.Year
	}
	if !req.Params.Start.IsZero() {
		args["start"] = req.Params.Start.Format(time.DateOnly)
	}
	if !req.Params.End.IsZero() {
		args["end"] = req.Params.End.Format(time.DateOnly)
	}
	return s.Label(ctx, "title."+req.Title, req.Title, args)
}

func (s *Service) localizeSeries(ctx context.Context, table Table) Table {
	rows := make([]Row, len(table.Rows))
	for i, row := range table.Rows {
		row.Series = s.Label(ctx, "column."+row.Series, row.Series, nil)
		rows[i] = row
	}
	table.Rows = rows
	table.SeriesLabel = s.Label(ctx, "column."+table.SeriesLabel, table.SeriesLabel, nil)
	return table
}

// fetched holds the raw records of one query; only the field matching the
// query is populated.
type fetched struct {
	sales      []SalesRecord
	dateRange  []byte
	customers  []CustomerSpend
	products   []ProductAggregate
	promotions []PromotionRecord
	conversion []ConversionPoint
}

func (s *Service) execute(ctx context.Context, req ChartRequest) (Shaped, error) {
	if s.opts.Source == nil {
		return Shaped{}, errMissingDataSource
	}
	data, err := s.fetch(ctx, req)
	if err != nil {
		return Shaped{}, fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, req.Query, err)
	}
	return s.shape(ctx, req, data)
}

func (s *Service) fetch(ctx context.Context, req ChartRequest) (fetched, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()
	src := s.opts.Source
	var (
		data fetched
		err  error
	)
	switch req.Query {
	case QuerySalesByYear:
		data.sales, err = src.SalesByYear(ctx)
	case QuerySalesByMonth:
		data.sales, err = src.SalesByMonth(ctx, req.Params.Year)
	case QuerySalesByDateRange:
		data.dateRange, err = src.SalesByDateRange(ctx, req.Params.Start, req.Params.End)
	case QueryRecurringCustomers:
		data.customers, err = src.RecurringCustomers(ctx)
	case QueryProductsByAxis:
		data.products, err = src.ProductsByAxis(ctx, req.Params.Axis)
	case QueryProductsByPromotion:
		data.promotions, err = src.ProductsByPromotion(ctx)
	case QueryConversionRate:
		data.conversion, err = src.ConversionRate(ctx)
	default:
		panic(fmt.Sprintf("dashboard: unhandled query %s", req.Query))
	}
	return data, err
}

func (s *Service) shape(ctx context.Context, req ChartRequest, data fetched) (Shaped, error) {
	switch req.Shape {
	case ShapeYearly:
		return ShapeYearlyTotals(data.sales), nil
	case ShapeMonthly:
		return ShapeMonthlyTotals(data.sales, req.Params.Year), nil
	case ShapeDateRange:
		return ShapeDateRangeTotals(data.dateRange), nil
	case ShapeRecurring:
		lookupCtx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
		return ShapeRecurringCustomers(lookupCtx, data.customers, s.opts.Source.CustomerName), nil
	case ShapeProducts:
		return ShapeProductsByAxis(data.products, req.Params.Axis), nil
	case ShapePromotion:
		return ShapePromotions(data.promotions), nil
	case ShapeConversionRate:
		return ShapeConversion(data.conversion), nil
	default:
		panic(fmt.Sprintf("dashboard: unhandled shape %d", req.Shape))
	}
}

func merge(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
