package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tab is a dashboard section.
type Tab int

const (
	TabTotals Tab = iota + 1
	TabTopProducts
	TabConversion
)

// Option is a radio option within a tab.
type Option int

const (
	OptionByYear Option = iota + 1
	OptionByMonth
	OptionByDateRange
	OptionByRecurringCustomer
	OptionBySize
	OptionByModel
	OptionByColor
	OptionByBrand
	OptionByPromotion
)

var tabNames = map[Tab]string{
	TabTotals:      "totals",
	TabTopProducts: "top_products",
	TabConversion:  "conversion",
}

var optionNames = map[Option]string{
	OptionByYear:              "by_year",
	OptionByMonth:             "by_month",
	OptionByDateRange:         "by_date_range",
	OptionByRecurringCustomer: "by_recurring_customer",
	OptionBySize:              "by_size",
	OptionByModel:             "by_model",
	OptionByColor:             "by_color",
	OptionByBrand:             "by_brand",
	OptionByPromotion:         "by_promotion",
}

// tabOptions enumerates the options of each tab; the first entry is the default.
var tabOptions = map[Tab][]Option{
	TabTotals:      {OptionByYear, OptionByMonth, OptionByDateRange, OptionByRecurringCustomer},
	TabTopProducts: {OptionBySize, OptionByModel, OptionByColor, OptionByBrand, OptionByPromotion},
	TabConversion:  {OptionByYear},
}

// Tabs lists the dashboard tabs in display order.
func Tabs() []Tab {
	return []Tab{TabTotals, TabTopProducts, TabConversion}
}

func (t Tab) String() string {
	if name, ok := tabNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tab(%d)", int(t))
}

func (o Option) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return fmt.Sprintf("option(%d)", int(o))
}

// TabOptions returns the options of a tab in display order.
func TabOptions(tab Tab) []Option {
	return append([]Option(nil), tabOptions[tab]...)
}

// DefaultOption returns the option selected when a tab is opened.
func DefaultOption(tab Tab) Option {
	if opts := tabOptions[tab]; len(opts) > 0 {
		return opts[0]
	}
	return 0
}

// ParseTab resolves a tab by name.
func ParseTab(value string) (Tab, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for tab, name := range tabNames {
		if name == value {
			return tab, nil
		}
	}
	return 0, fmt.Errorf("%w: tab %q", ErrUnknownSelection, value)
}

// ParseOption resolves an option by name within a tab. An empty value selects
// the tab default.
func ParseOption(tab Tab, value string) (Option, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultOption(tab), nil
	}
	for _, opt := range tabOptions[tab] {
		if opt.String() == value {
			return opt, nil
		}
	}
	return 0, fmt.Errorf("%w: option %q for tab %s", ErrUnknownSelection, value, tab)
}

// Params holds the control values currently selected in the UI. Zero values
// mean the control has not been set.
type Params struct {
	Year  int
	Start time.Time
	End   time.Time
}

// Selection is the UI state that drives a chart render.
type Selection struct {
	Tab    Tab
	Option Option
	Params Params
}

// ParseSelection builds a Selection from transport strings. Dates accept
// YYYY-MM-DD or an RFC3339 timestamp; a start after the end is swapped.
func ParseSelection(tab, option, year, start, end string) (Selection, error) {
	t, err := ParseTab(tab)
	if err != nil {
		return Selection{}, err
	}
	o, err := ParseOption(t, option)
	if err != nil {
		return Selection{}, err
	}
	sel := Selection{Tab: t, Option: o}
	if year = strings.TrimSpace(year); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1000 || y > 9999 {
			return Selection{}, fmt.Errorf("%w: year %q", ErrUnknownSelection, year)
		}
		sel.Params.Year = y
	}
	if sel.Params.Start, err = parseDate(start); err != nil {
		return Selection{}, err
	}
	if sel.Params.End, err = parseDate(end); err != nil {
		return Selection{}, err
	}
	if !sel.Params.Start.IsZero() && !sel.Params.End.IsZero() && sel.Params.Start.After(sel.Params.End) {
		sel.Params.Start, sel.Params.End = sel.Params.End, sel.Params.Start
	}
	return sel, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if len(value) >= len(time.DateOnly) {
		if t, err := time.Parse(time.DateOnly, value[:len(time.DateOnly)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrUnknownSelection, value)
}

// QueryID names a Data Access Layer call.
type QueryID int

const (
	QuerySalesByYear QueryID = iota + 1
	QuerySalesByMonth
	QuerySalesByDateRange
	QueryRecurringCustomers
	QueryProductsByAxis
	QueryProductsByPromotion
	QueryConversionRate
)

func (q QueryID) String() string {
	switch q {
	case QuerySalesByYear:
		return "sales_by_year"
	case QuerySalesByMonth:
		return "sales_by_month"
	case QuerySalesByDateRange:
		return "sales_by_date_range"
	case QueryRecurringCustomers:
		return "recurring_customers"
	case QueryProductsByAxis:
		return "products_by_axis"
	case QueryProductsByPromotion:
		return "products_by_promotion"
	case QueryConversionRate:
		return "conversion_rate"
	default:
		return fmt.Sprintf("query(%d)", int(q))
	}
}

// ShapeID names a shaping function.
type ShapeID int

const (
	ShapeYearly ShapeID = iota + 1
	ShapeMonthly
	ShapeDateRange
	ShapeRecurring
	ShapeProducts
	ShapePromotion
	ShapeConversionRate
)

// ChartKind is a presentation chart type.
type ChartKind int

const (
	ChartBar ChartKind = iota + 1
	ChartPie
	ChartLine
	ChartGroupedBar
)

func (k ChartKind) String() string {
	switch k {
	case ChartBar:
		return "bar"
	case ChartPie:
		return "pie"
	case ChartLine:
		return "line"
	case ChartGroupedBar:
		return "grouped_bar"
	default:
		return fmt.Sprintf("chart(%d)", int(k))
	}
}

// MarshalText renders the chart kind by name.
func (k ChartKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a chart kind by name.
func (k *ChartKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for _, kind := range []ChartKind{ChartBar, ChartPie, ChartLine, ChartGroupedBar} {
		if kind.String() == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("dashboard: unknown chart kind %q", name)
}

// Encoding binds table columns to chart channels.
type Encoding struct {
	X      string `json:"x,omitempty"`
	Y      string `json:"y,omitempty"`
	Names  string `json:"names,omitempty"`
	Values string `json:"values,omitempty"`
	Color  string `json:"color,omitempty"`
}

// QueryParams are the arguments passed to the Data Access Layer.
type QueryParams struct {
	Year  int
	Start time.Time
	End   time.Time
	Axis  Axis
}

// ChartRequest describes one fetch-shape-render cycle.
type ChartRequest struct {
	Query    QueryID
	Params   QueryParams
	Shape    ShapeID
	Kind     ChartKind
	Encoding Encoding
	Title    string
}

// Control identifies an auxiliary UI control.
type Control string

const (
	ControlYear      Control = "year"
	ControlDateRange Control = "date_range"
)

// NeedsInput lists the control the UI must surface before a chart can render.
type NeedsInput struct {
	Control Control  `json:"control"`
	Missing []string `json:"missing"`
}

// Controls carries the visibility of auxiliary controls.
type Controls struct {
	YearSelector      bool `json:"year_selector"`
	DateRangeSelector bool `json:"date_range_selector"`
}

// Routing is the result of Route: exactly one of Request or NeedsInput is set.
type Routing struct {
	Request    *ChartRequest
	NeedsInput *NeedsInput
	Controls   Controls
}

type routeKey struct {
	tab    Tab
	option Option
}

type routeEntry struct {
	query    QueryID
	shape    ShapeID
	kind     ChartKind
	encoding Encoding
	axis     Axis
	title    string
}

var (
	barEncoding     = Encoding{X: "category", Y: "value"}
	seriesEncoding  = Encoding{X: "category", Y: "value", Color: "series"}
	pieEncoding     = Encoding{Names: "category", Values: "value", Color: "series"}
	ordinalEncoding = Encoding{X: "ordinal", Y: "value"}
)

var routeTable = map[routeKey]routeEntry{
	{TabTotals, OptionByYear}:              {query: QuerySalesByYear, shape: ShapeYearly, kind: ChartBar, encoding: barEncoding, title: "totals.by_year"},
	{TabTotals, OptionByMonth}:             {query: QuerySalesByMonth, shape: ShapeMonthly, kind: ChartBar, encoding: barEncoding, title: "totals.by_month"},
	{TabTotals, OptionByDateRange}:         {query: QuerySalesByDateRange, shape: ShapeDateRange, kind: ChartBar, encoding: barEncoding, title: "totals.by_date_range"},
	{TabTotals, OptionByRecurringCustomer}: {query: QueryRecurringCustomers, shape: ShapeRecurring, kind: ChartBar, encoding: barEncoding, title: "totals.by_recurring_customer"},
	{TabTopProducts, OptionBySize}:         {query: QueryProductsByAxis, shape: ShapeProducts, kind: ChartPie, encoding: pieEncoding, axis: AxisSize, title: "top_products.by_size"},
	{TabTopProducts, OptionByModel}:        {query: QueryProductsByAxis, shape: ShapeProducts, kind: ChartPie, encoding: pieEncoding, axis: AxisModel, title: "top_products.by_model"},
	{TabTopProducts, OptionByColor}:        {query: QueryProductsByAxis, shape: ShapeProducts, kind: ChartPie, encoding: pieEncoding, axis: AxisColor, title: "top_products.by_color"},
	{TabTopProducts, OptionByBrand}:        {query: QueryProductsByAxis, shape: ShapeProducts, kind: ChartBar, encoding: seriesEncoding, axis: AxisBrand, title: "top_products.by_brand"},
	{TabTopProducts, OptionByPromotion}:    {query: QueryProductsByPromotion, shape: ShapePromotion, kind: ChartGroupedBar, encoding: seriesEncoding, title: "top_products.by_promotion"},
	{TabConversion, OptionByYear}:          {query: QueryConversionRate, shape: ShapeConversionRate, kind: ChartLine, encoding: ordinalEncoding, title: "conversion.by_year"},
}

func init() {
	if err := validateRouteTable(); err != nil {
		panic(err)
	}
}

func validateRouteTable() error {
	count := 0
	for _, tab := range Tabs() {
		for _, opt := range tabOptions[tab] {
			if _, ok := routeTable[routeKey{tab, opt}]; !ok {
				return fmt.Errorf("dashboard: no route for %s/%s", tab, opt)
			}
			count++
		}
	}
	if count != len(routeTable) {
		return fmt.Errorf("dashboard: route table has %d entries for %d options", len(routeTable), count)
	}
	return nil
}

// Route maps a selection onto a chart request, or onto the control the UI must
// surface when a required parameter is missing.
func Route(sel Selection) (Routing, error) {
	entry, ok := routeTable[routeKey{sel.Tab, sel.Option}]
	if !ok {
		return Routing{}, fmt.Errorf("%w: %s/%s", ErrUnknownSelection, sel.Tab, sel.Option)
	}
	routing := Routing{Controls: controlsFor(sel.Tab, sel.Option)}
	switch sel.Option {
	case OptionByMonth:
		if sel.Tab == TabTotals && sel.Params.Year == 0 {
			routing.NeedsInput = &NeedsInput{Control: ControlYear, Missing: []string{"year"}}
			return routing, nil
		}
	case OptionByDateRange:
		var missing []string
		if sel.Params.Start.IsZero() {
			missing = append(missing, "start_date")
		}
		if sel.Params.End.IsZero() {
			missing = append(missing, "end_date")
		}
		if len(missing) > 0 {
			routing.NeedsInput = &NeedsInput{Control: ControlDateRange, Missing: missing}
			return routing, nil
		}
	}
	routing.Request = &ChartRequest{
		Query: entry.query,
		Params: QueryParams{
			Year:  sel.Params.Year,
			Start: sel.Params.Start,
			End:   sel.Params.End,
			Axis:  entry.axis,
		},
		Shape:    entry.shape,
		Kind:     entry.kind,
		Encoding: entry.encoding,
		Title:    entry.title,
	}
	return routing, nil
}

func controlsFor(tab Tab, opt Option) Controls {
	if tab != TabTotals {
		return Controls{}
	}
	return Controls{
		YearSelector:      opt == OptionByMonth,
		DateRangeSelector: opt == OptionByDateRange,
	}
}
