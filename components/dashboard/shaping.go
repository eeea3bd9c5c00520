package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// RecurringSpendThreshold is the minimum spend for a recurring customer row.
	RecurringSpendThreshold = 8000
	// ResultCap bounds customer and promotion result sets.
	ResultCap = 50
	// UnknownCustomer replaces names the customer directory cannot resolve.
	UnknownCustomer = "Unknown"
	// MissingDimension replaces absent axis or product values.
	MissingDimension = "Unspecified"
	// PromotionPlaceholder replaces absent promotion labels.
	PromotionPlaceholder = "Active promotion"
)

// Promotion series produced by ShapePromotions.
const (
	SeriesPrice    = "price"
	SeriesDiscount = "discount"
)

// CustomerNameLookup resolves a display name for a customer id.
type CustomerNameLookup func(ctx context.Context, customerID string) (name string, found bool, err error)

// ShapeYearlyTotals groups sales by year, ascending.
func ShapeYearlyTotals(records []SalesRecord) Shaped {
	if len(records) == 0 {
		return shapedEmpty("no yearly sales")
	}
	totals := map[int]decimal.Decimal{}
	for _, record := range records {
		totals[record.Year] = totals[record.Year].Add(record.TotalSales)
	}
	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)
	rows := make([]Row, len(years))
	for i, year := range years {
		rows[i] = Row{Category: strconv.Itoa(year), Value: totals[year].InexactFloat64()}
	}
	return shapedOK(Table{CategoryLabel: "year", ValueLabel: "total_sales", Rows: rows})
}

// ShapeMonthlyTotals restricts sales to year and orders them by month.
func ShapeMonthlyTotals(records []SalesRecord, year int) Shaped {
	var totals [13]decimal.Decimal
	var present [13]bool
	for _, record := range records {
		if record.Year != year || !record.HasMonth() {
			continue
		}
		totals[record.Month] = totals[record.Month].Add(record.TotalSales)
		present[record.Month] = true
	}
	rows := make([]Row, 0, 12)
	for month := 1; month <= 12; month++ {
		if !present[month] {
			continue
		}
		rows = append(rows, Row{Category: strconv.Itoa(month), Value: totals[month].InexactFloat64()})
	}
	if len(rows) == 0 {
		return shapedEmpty(fmt.Sprintf("no monthly sales for %d", year))
	}
	return shapedOK(Table{CategoryLabel: "month", ValueLabel: "total_sales", Rows: rows})
}

type dateRangeEntry struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type dateRangeEnvelope struct {
	Months []dateRangeEntry `json:"total_sales_by_month"`
}

// ShapeDateRangeTotals validates the raw date range payload and labels each
// month as YYYY-MM. Payloads that do not match the expected envelope produce
// a Malformed outcome instead of an error.
func ShapeDateRangeTotals(raw []byte) Shaped {
	if _, err := dateRangeValidator.Validate(raw); err != nil {
		return shapedMalformed(err.Error())
	}
	var envelope dateRangeEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return shapedMalformed(fmt.Sprintf("%v: %v", ErrMalformedResponse, err))
	}
	if len(envelope.Months) == 0 {
		return shapedEmpty("no sales in date range")
	}
	rows := make([]Row, len(envelope.Months))
	for i, entry := range envelope.Months {
		rows[i] = Row{
			Category: fmt.Sprintf("%04d-%02d", entry.Year, entry.Month),
			Value:    entry.TotalSales.InexactFloat64(),
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return shapedOK(Table{CategoryLabel: "date", ValueLabel: "total_sales", Rows: rows})
}

// FilterRecurringCustomers keeps customers at or above the spend threshold and
// truncates to ResultCap, preserving input order.
func FilterRecurringCustomers(records []CustomerSpend) []CustomerSpend {
	threshold := decimal.NewFromInt(RecurringSpendThreshold)
	out := make([]CustomerSpend, 0, min(len(records), ResultCap))
	for _, record := range records {
		if record.TotalSpent.LessThan(threshold) {
			continue
		}
		out = append(out, record)
		if len(out) == ResultCap {
			break
		}
	}
	return out
}

// ShapeRecurringCustomers filters customers, resolves their names and pins the
// value axis to the observed spend range. Lookup failures never abort the batch.
// ctx bounds the whole batch: once it is done the remaining customers are not
// looked up and keep the Unknown label.
func ShapeRecurringCustomers(ctx context.Context, records []CustomerSpend, lookup CustomerNameLookup) Shaped {
	filtered := FilterRecurringCustomers(records)
	if len(filtered) == 0 {
		return shapedEmpty("no recurring customers above threshold")
	}
	var anomalies []string
	rows := make([]Row, len(filtered))
	lo, hi := filtered[0].TotalSpent, filtered[0].TotalSpent
	for i, customer := range filtered {
		name, anomaly := resolveCustomerName(ctx, customer.CustomerID, lookup)
		if anomaly != "" {
			anomalies = append(anomalies, anomaly)
		}
		rows[i] = Row{
			Category: name,
			Value:    customer.TotalSpent.InexactFloat64(),
			Detail:   customer.CustomerID,
		}
		lo = decimal.Min(lo, customer.TotalSpent)
		hi = decimal.Max(hi, customer.TotalSpent)
	}
	shaped := shapedOK(Table{
		CategoryLabel: "customer_name",
		ValueLabel:    "total_spent",
		Rows:          rows,
		ValueRange:    &ValueRange{Min: lo.InexactFloat64(), Max: hi.InexactFloat64()},
	})
	shaped.Anomalies = anomalies
	return shaped
}

// resolveCustomerName returns the display name of a customer and, when the
// directory could not provide it, the reason.
func resolveCustomerName(ctx context.Context, customerID string, lookup CustomerNameLookup) (string, string) {
	unknown := UnknownCustomerLabel(customerID)
	if lookup == nil {
		return unknown, ""
	}
	if err := ctx.Err(); err != nil {
		return unknown, fmt.Sprintf("customer %s: lookup skipped: %v", customerID, err)
	}
	resolved, found, err := lookup(ctx, customerID)
	switch {
	case err != nil:
		return unknown, fmt.Sprintf("customer %s: %v", customerID, err)
	case !found || strings.TrimSpace(resolved) == "":
		return unknown, fmt.Sprintf("customer %s: name not found", customerID)
	default:
		return resolved, ""
	}
}

// UnknownCustomerLabel is the category of a customer whose name is unknown.
// The id keeps unresolved customers on separate bars.
func UnknownCustomerLabel(customerID string) string {
	if customerID == "" {
		return UnknownCustomer
	}
	return UnknownCustomer + " (" + customerID + ")"
}

// ShapeProductsByAxis groups quantities by axis value and product, keeping the
// order in which pairs first appear.
func ShapeProductsByAxis(records []ProductAggregate, axis Axis) Shaped {
	if len(records) == 0 {
		return shapedEmpty(fmt.Sprintf("no products by %s", axis))
	}
	type key struct{ value, product string }
	index := map[key]int{}
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		k := key{value: placeholder(record.AxisValue, MissingDimension), product: placeholder(record.Product, MissingDimension)}
		if i, ok := index[k]; ok {
			rows[i].Value += float64(record.Quantity)
			continue
		}
		index[k] = len(rows)
		rows = append(rows, Row{Category: k.value, Value: float64(record.Quantity), Series: k.product})
	}
	return shapedOK(Table{
		CategoryLabel: axis.String(),
		ValueLabel:    "quantity_sold",
		SeriesLabel:   "product",
		Rows:          rows,
	})
}

// ShapePromotions truncates promotions to ResultCap, fills missing promotion
// labels and melts price and discount into series rows.
func ShapePromotions(records []PromotionRecord) Shaped {
	if len(records) > ResultCap {
		records = records[:ResultCap]
	}
	if len(records) == 0 {
		return shapedEmpty("no promoted products")
	}
	wide := make([]WideRow, len(records))
	for i, record := range records {
		promotion := PromotionPlaceholder
		if record.Promotion != nil && strings.TrimSpace(*record.Promotion) != "" {
			promotion = *record.Promotion
		}
		wide[i] = WideRow{
			IDs: map[string]string{
				"product":   placeholder(record.Product, MissingDimension),
				"promotion": promotion,
			},
			Values: map[string]float64{
				SeriesPrice:    record.Price.InexactFloat64(),
				SeriesDiscount: record.Discount.InexactFloat64(),
			},
		}
	}
	long := Melt(wide, []string{"product", "promotion"}, []string{SeriesPrice, SeriesDiscount})
	rows := make([]Row, len(long))
	for i, row := range long {
		rows[i] = Row{
			Category: row.IDs["product"],
			Value:    row.Value,
			Series:   row.Variable,
			Detail:   row.IDs["promotion"],
		}
	}
	return shapedOK(Table{
		CategoryLabel: "product",
		ValueLabel:    "value",
		SeriesLabel:   "type",
		Rows:          rows,
	})
}

// ShapeConversion orders conversion points by year and expresses rates as
// percentages. A series whose rates all fall within [0,1] is scaled by 100.
func ShapeConversion(points []ConversionPoint) Shaped {
	if len(points) == 0 {
		return shapedEmpty("no conversion data")
	}
	sorted := make([]ConversionPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })
	scale := 100.0
	for _, point := range sorted {
		if point.Rate > 1 {
			scale = 1
			break
		}
	}
	rows := make([]Row, len(sorted))
	for i, point := range sorted {
		rows[i] = Row{Category: strconv.Itoa(point.Year), Value: point.Rate * scale}
	}
	return shapedOK(Table{CategoryLabel: "year", ValueLabel: "conversion_rate", Rows: rows})
}

func placeholder(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
