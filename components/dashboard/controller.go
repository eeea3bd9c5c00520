package dashboard

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"
)

const defaultPageTemplate = "dashboard"

var (
	// DefaultRangeStart and DefaultRangeEnd prefill the date range control.
	DefaultRangeStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultRangeEnd   = time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Controller builds the dashboard page and chart payloads for the transports.
type Controller struct {
	service  *Service
	renderer Renderer
	template string
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithRenderer sets the template renderer used by RenderPage.
func WithRenderer(renderer Renderer) ControllerOption {
	return func(c *Controller) {
		c.renderer = renderer
	}
}

// WithPageTemplate overrides the template name used by RenderPage.
func WithPageTemplate(name string) ControllerOption {
	return func(c *Controller) {
		if name != "" {
			c.template = name
		}
	}
}

// NewController wires the service into a controller.
func NewController(service *Service, opts ...ControllerOption) *Controller {
	c := &Controller{service: service, template: defaultPageTemplate}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageOption is one radio option of a tab.
type PageOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// PageTab is one tab with its options.
type PageTab struct {
	Value   string       `json:"value"`
	Label   string       `json:"label"`
	Active  bool         `json:"active"`
	Options []PageOption `json:"options"`
}

// PageYear is one entry of the year dropdown.
type PageYear struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Page is the view model of the dashboard page. Values are strings so the
// template prints them verbatim.
type Page struct {
	Title    string            `json:"title"`
	Locale   string            `json:"locale"`
	Tabs     []PageTab         `json:"tabs"`
	Years    []PageYear        `json:"years"`
	Start    string            `json:"start"`
	End      string            `json:"end"`
	Labels   map[string]string `json:"labels"`
	Result   RenderResult      `json:"result"`
	Endpoint string            `json:"endpoint"`
}

// Chart renders the chart for a selection as sent by the page controls.
func (c *Controller) Chart(ctx context.Context, sel Selection) (RenderResult, error) {
	if c.service == nil {
		return RenderResult{}, errMissingService
	}
	return c.service.RenderChart(ctx, sel)
}

// Page builds the page model. Unset controls are prefilled with the first
// catalog year and the default date range before the chart is rendered.
func (c *Controller) Page(ctx context.Context, sel Selection) (Page, error) {
	if c.service == nil {
		return Page{}, errMissingService
	}
	if sel.Tab == 0 {
		sel.Tab = TabTotals
	}
	if sel.Option == 0 {
		sel.Option = DefaultOption(sel.Tab)
	}
	if sel.Params.Year == 0 {
		sel.Params.Year = c.service.Years().Default()
	}
	if sel.Params.Start.IsZero() {
		sel.Params.Start = DefaultRangeStart
	}
	if sel.Params.End.IsZero() {
		sel.Params.End = DefaultRangeEnd
	}

	result, err := c.service.RenderChart(ctx, sel)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Title:  c.service.Label(ctx, "app.title", "Sales dashboard", nil),
		Locale: c.service.Locale(),
		Start:  sel.Params.Start.Format(time.DateOnly),
		End:    sel.Params.End.Format(time.DateOnly),
		Result: result,
		Labels: map[string]string{
			"year":       c.service.Label(ctx, "column.year", "Year", nil),
			"start_date": c.service.Label(ctx, "column.start_date", "Start", nil),
			"end_date":   c.service.Label(ctx, "column.end_date", "End", nil),
		},
	}
	for _, tab := range Tabs() {
		entry := PageTab{
			Value:  tab.String(),
			Label:  c.service.Label(ctx, "tab."+tab.String(), tab.String(), nil),
			Active: tab == sel.Tab,
		}
		for _, opt := range TabOptions(tab) {
			key := tab.String() + "." + opt.String()
			entry.Options = append(entry.Options, PageOption{
				Value:    opt.String(),
				Label:    c.service.Label(ctx, "option."+key, opt.String(), nil),
				Selected: tab == sel.Tab && opt == sel.Option,
			})
		}
		page.Tabs = append(page.Tabs, entry)
	}
	for _, year := range c.service.Years().Years() {
		page.Years = append(page.Years, PageYear{
			Value:    strconv.Itoa(year),
			Selected: year == sel.Params.Year,
		})
	}
	return page, nil
}

// RenderPage writes the HTML page for a selection.
func (c *Controller) RenderPage(ctx context.Context, sel Selection, endpoint string, out io.Writer) error {
	if c.renderer == nil {
		return errMissingRenderer
	}
	page, err := c.Page(ctx, sel)
	if err != nil {
		return err
	}
	page.Endpoint = endpoint
	data, err := page.templateData()
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, data, out)
	return err
}

// templateData flattens the page into plain maps so the template engine sees
// the JSON field names.
func (p Page) templateData() (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var page map[string]any
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	return map[string]any{"page": page}, nil
}

var (
	errMissingService  = errors.New("dashboard: service not configured")
	errMissingRenderer = errors.New("dashboard: renderer not configured")
)
