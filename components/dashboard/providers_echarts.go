package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "480px"

var sharedFigureCache = NewFigureCache(5 * time.Minute)

// ChartSpec carries the presentation choices for a shaped table.
type ChartSpec struct {
	Kind     ChartKind
	Encoding Encoding
	Title    string
	Subtitle string
	XName    string
	YName    string
}

// Figure is a rendered chart ready to be embedded in the page.
type Figure struct {
	Kind        ChartKind `json:"kind"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Encoding    Encoding  `json:"encoding"`
	HTML        string    `json:"html"`
	Placeholder bool      `json:"placeholder,omitempty"`
	Error       bool      `json:"error,omitempty"`
}

// EChartsProvider renders tables into server-side go-echarts markup.
type EChartsProvider struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsProviderOption customizes provider behavior.
type EChartsProviderOption func(*EChartsProvider)

// WithFigureCache injects a render cache. A nil cache disables memoization.
func WithFigureCache(cache RenderCache) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.cache = cache
	}
}

// WithChartTheme sets the echarts theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		if theme = strings.TrimSpace(theme); theme != "" {
			p.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.assetsHost = host
	}
}

// NewEChartsProvider builds a presentation adapter.
func NewEChartsProvider(opts ...EChartsProviderOption) *EChartsProvider {
	p := &EChartsProvider{
		cache: sharedFigureCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Present renders table according to spec. A table that does not fit the
// requested chart kind is a programming error and is reported as such.
func (p *EChartsProvider) Present(table Table, spec ChartSpec) (Figure, error) {
	if len(table.Rows) == 0 {
		return Figure{}, fmt.Errorf("%w: %s chart needs at least one row", ErrUnsupportedChart, spec.Kind)
	}
	if spec.Kind == ChartGroupedBar && !table.HasSeries() {
		return Figure{}, fmt.Errorf("%w: grouped_bar requires a series column", ErrUnsupportedChart)
	}
	render := func() (string, error) {
		switch spec.Kind {
		case ChartBar, ChartGroupedBar:
			return p.renderBarChart(table, spec)
		case ChartPie:
			return p.renderPieChart(table, spec)
		case ChartLine:
			return p.renderLineChart(table, spec)
		default:
			return "", fmt.Errorf("%w: %s", ErrUnsupportedChart, spec.Kind)
		}
	}
	html, err := p.memoize(fmt.Sprintf("%s:%s:%s:%s", spec.Kind, spec.Title, spec.Subtitle, table.hash()), render)
	if err != nil {
		return Figure{}, err
	}
	return Figure{
		Kind:     spec.Kind,
		Title:    spec.Title,
		Subtitle: spec.Subtitle,
		Encoding: spec.Encoding,
		HTML:     html,
	}, nil
}

// Placeholder renders an empty chart carrying message as its subtitle.
func (p *EChartsProvider) Placeholder(title, message string, isError bool) (Figure, error) {
	render := func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(p.globalChartOptions(title, message, false)...)
		bar.SetXAxis([]string{})
		return renderChart(bar)
	}
	html, err := p.memoize(fmt.Sprintf("placeholder:%s:%s:%t", title, message, isError), render)
	if err != nil {
		return Figure{}, err
	}
	return Figure{
		Kind:        ChartBar,
		Title:       title,
		Subtitle:    message,
		HTML:        html,
		Placeholder: true,
		Error:       isError,
	}, nil
}

func (p *EChartsProvider) memoize(key string, render func() (string, error)) (string, error) {
	if p.cache == nil {
		return render()
	}
	return p.cache.GetOrRender(p.theme+":"+key, render)
}

func (p *EChartsProvider) renderBarChart(table Table, spec ChartSpec) (string, error) {
	categories := table.Categories()
	bar := charts.NewBar()
	global := p.globalChartOptions(spec.Title, spec.Subtitle, table.HasSeries())
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XName}),
		charts.WithYAxisOpts(valueAxis(spec.YName, table.ValueRange)),
	)
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(categories)
	if !table.HasSeries() {
		bar.AddSeries(spec.YName, toBarData(categories, table.Rows))
	} else {
		for _, name := range table.SeriesNames() {
			bar.AddSeries(name, toBarData(categories, rowsFor(table.Rows, name)))
		}
	}
	if spec.Kind == ChartBar {
		bar.SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	}
	return renderChart(bar)
}

func (p *EChartsProvider) renderLineChart(table Table, spec ChartSpec) (string, error) {
	categories := table.Categories()
	line := charts.NewLine()
	global := p.globalChartOptions(spec.Title, spec.Subtitle, false)
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XName}),
		charts.WithYAxisOpts(valueAxis(spec.YName, table.ValueRange)),
	)
	line.SetGlobalOptions(global...)
	line.SetXAxis(categories)
	line.AddSeries(spec.YName, toLineData(table.Rows))
	return renderChart(line)
}

func (p *EChartsProvider) renderPieChart(table Table, spec ChartSpec) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(p.globalChartOptions(spec.Title, spec.Subtitle, true)...)
	pie.AddSeries(spec.YName, toPieData(table.Rows))
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *EChartsProvider) globalChartOptions(title, subtitle string, legend bool) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  p.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend), Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func valueAxis(name string, bounds *ValueRange) opts.YAxis {
	axis := opts.YAxis{Name: name}
	if bounds != nil {
		axis.Min = bounds.Min
		axis.Max = bounds.Max
	}
	return axis
}

func rowsFor(rows []Row, series string) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Series == series {
			out = append(out, row)
		}
	}
	return out
}

// toBarData aligns rows onto categories, summing repeated categories. Categories
// without a row stay empty.
func toBarData(categories []string, rows []Row) []opts.BarData {
	index := make(map[string]int, len(categories))
	for i, category := range categories {
		index[category] = i
	}
	values := make([]any, len(categories))
	for _, row := range rows {
		i := index[row.Category]
		if current, ok := values[i].(float64); ok {
			values[i] = current + row.Value
			continue
		}
		values[i] = row.Value
	}
	data := make([]opts.BarData, len(categories))
	for i, category := range categories {
		data[i] = opts.BarData{Name: category, Value: values[i]}
	}
	return data
}

func toLineData(rows []Row) []opts.LineData {
	data := make([]opts.LineData, len(rows))
	for i, row := range rows {
		data[i] = opts.LineData{Name: row.Category, Value: row.Value}
	}
	return data
}

func toPieData(rows []Row) []opts.PieData {
	data := make([]opts.PieData, len(rows))
	for i, row := range rows {
		name := row.Category
		if row.Series != "" {
			name = row.Category + " · " + row.Series
		}
		data[i] = opts.PieData{Name: name, Value: row.Value}
	}
	return data
}
