package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SalesRecord is a sales total for a year or, when Month is set, a single month.
type SalesRecord struct {
	Year       int
	Month      int
	TotalSales decimal.Decimal
}

// HasMonth reports whether the record carries a month component.
func (r SalesRecord) HasMonth() bool {
	return r.Month >= 1 && r.Month <= 12
}

// CustomerSpend is the accumulated spend of a returning customer.
type CustomerSpend struct {
	CustomerID string
	TotalSpent decimal.Decimal
}

// Axis is the grouping dimension used by product aggregates.
type Axis int

const (
	AxisSize Axis = iota + 1
	AxisModel
	AxisColor
	AxisBrand
)

var axisFields = map[Axis]string{
	AxisSize:  "talla",
	AxisModel: "modelo",
	AxisColor: "color",
	AxisBrand: "marca",
}

var axisNames = map[Axis]string{
	AxisSize:  "size",
	AxisModel: "model",
	AxisColor: "color",
	AxisBrand: "brand",
}

// Axes lists every supported axis in display order.
func Axes() []Axis {
	return []Axis{AxisSize, AxisModel, AxisColor, AxisBrand}
}

// Field returns the wire field that carries the axis value in product payloads.
func (a Axis) Field() string {
	return axisFields[a]
}

func (a Axis) String() string {
	if name, ok := axisNames[a]; ok {
		return name
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// ProductAggregate is the quantity sold of a product for one axis value.
type ProductAggregate struct {
	Product   string
	Axis      Axis
	AxisValue string
	Quantity  int
}

// PromotionRecord carries the price and discount of a promoted product.
// Promotion is nil when the remote payload omits it.
type PromotionRecord struct {
	Product   string
	Promotion *string
	Price     decimal.Decimal
	Discount  decimal.Decimal
}

// ConversionPoint is the customer conversion rate for a year.
type ConversionPoint struct {
	Year int
	Rate float64
}
