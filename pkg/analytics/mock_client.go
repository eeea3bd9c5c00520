package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

// MockData seeds deterministic responses for tests or local demos.
type MockData struct {
	YearlySales   []dashboard.SalesRecord
	MonthlySales  []dashboard.SalesRecord
	DateRange     []byte
	Customers     []dashboard.CustomerSpend
	CustomerNames map[string]string
	Products      map[dashboard.Axis][]dashboard.ProductAggregate
	Promotions    []dashboard.PromotionRecord
	Conversion    []dashboard.ConversionPoint
	// Err, when set, is returned by every call.
	Err error
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

// NewMockClient builds a mock client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// SalesByYear returns the yearly fixtures.
func (c *MockClient) SalesByYear(context.Context) ([]dashboard.SalesRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return nil, c.data.Err
	}
	return append([]dashboard.SalesRecord(nil), c.data.YearlySales...), nil
}

// SalesByMonth returns the monthly fixtures of year.
func (c *MockClient) SalesByMonth(_ context.Context, year int) ([]dashboard.SalesRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return nil, c.data.Err
	}
	var out []dashboard.SalesRecord
	for _, record := range c.data.MonthlySales {
		if record.Year == year {
			out = append(out, record)
		}
	}
	return out, nil
}

// SalesByDateRange returns the raw date range fixture ignoring the range.
func (c *MockClient) SalesByDateRange(context.Context, time.Time, time.Time) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return nil, c.data.Err
	}
	return append([]byte(nil), c.data.DateRange...), nil
}

// RecurringCustomers returns the customer spend fixtures.
func (c *MockClient) RecurringCustomers(context.Context) ([]dashboard.CustomerSpend, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return nil, c.data.Err
	}
	return append([]dashboard.CustomerSpend(nil), c.data.Customers...), nil
}

// CustomerName resolves names from the fixture directory.
func (c *MockClient) CustomerName(_ context.Context, customerID string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return "", false, c.data.Err
	}
	name, ok := c.data.CustomerNames[customerID]
	return name, ok, nil
}

// ProductsByAxis returns the product fixtures of axis.
func (c *MockClient) ProductsByAxis(_ context.Context, axis dashboard.Axis) ([]dashboard.ProductAggregate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return nil, c.data.Err
	}
	return append([]dashboard.ProductAggregate(nil), c.data.Products[axis]...), nil
}

// ProductsByPromotion returns the promotion fixtures.
func (c *MockClient) ProductsByPromotion(context.Context) ([]dashboard.PromotionRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return nil, c.data.Err
	}
	return append([]dashboard.PromotionRecord(nil), c.data.Promotions...), nil
}

// ConversionRate returns the conversion fixtures.
func (c *MockClient) ConversionRate(context.Context) ([]dashboard.ConversionPoint, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return nil, c.data.Err
	}
	return append([]dashboard.ConversionPoint(nil), c.data.Conversion...), nil
}

// DemoData returns a small, deterministic data set covering every chart.
func DemoData() MockData {
	money := decimal.RequireFromString
	promo := "Black Friday"
	monthly := make([]dashboard.SalesRecord, 0, 24)
	for _, year := range []int{2023, 2024} {
		for month := 1; month <= 12; month++ {
			total := decimal.NewFromInt(int64(9000 + month*750 + (year-2023)*1200))
			monthly = append(monthly, dashboard.SalesRecord{Year: year, Month: month, TotalSales: total})
		}
	}
	return MockData{
		YearlySales: []dashboard.SalesRecord{
			{Year: 2022, TotalSales: money("98450.50")},
			{Year: 2023, TotalSales: money("166500.00")},
			{Year: 2024, TotalSales: money("180900.00")},
		},
		MonthlySales: monthly,
		DateRange: []byte(`{"total_sales_by_month": [
			{"year": 2023, "month": 1, "total_sales": 9750.0},
			{"year": 2023, "month": 2, "total_sales": 10500.0},
			{"year": 2023, "month": 3, "total_sales": 11250.0}
		]}`),
		Customers: []dashboard.CustomerSpend{
			{CustomerID: "c-100", TotalSpent: money("12500.00")},
			{CustomerID: "c-101", TotalSpent: money("9100.75")},
			{CustomerID: "c-102", TotalSpent: money("4200.00")},
			{CustomerID: "c-103", TotalSpent: money("15320.10")},
		},
		CustomerNames: map[string]string{
			"c-100": "Ana Torres",
			"c-101": "Luis Pérez",
		},
		Products: map[dashboard.Axis][]dashboard.ProductAggregate{
			dashboard.AxisSize: {
				{Product: "Runner X", Axis: dashboard.AxisSize, AxisValue: "40", Quantity: 120},
				{Product: "Runner X", Axis: dashboard.AxisSize, AxisValue: "42", Quantity: 95},
				{Product: "Trail Pro", Axis: dashboard.AxisSize, AxisValue: "41", Quantity: 60},
			},
			dashboard.AxisModel: {
				{Product: "Runner X", Axis: dashboard.AxisModel, AxisValue: "2024", Quantity: 180},
				{Product: "Trail Pro", Axis: dashboard.AxisModel, AxisValue: "GTX", Quantity: 75},
			},
			dashboard.AxisColor: {
				{Product: "Runner X", Axis: dashboard.AxisColor, AxisValue: "Negro", Quantity: 130},
				{Product: "Trail Pro", Axis: dashboard.AxisColor, AxisValue: "Azul", Quantity: 55},
			},
			dashboard.AxisBrand: {
				{Product: "Runner X", Axis: dashboard.AxisBrand, AxisValue: "Stride", Quantity: 215},
				{Product: "Trail Pro", Axis: dashboard.AxisBrand, AxisValue: "Summit", Quantity: 60},
				{Product: "City Walk", Axis: dashboard.AxisBrand, AxisValue: "Stride", Quantity: 40},
			},
		},
		Promotions: []dashboard.PromotionRecord{
			{Product: "Runner X", Promotion: &promo, Price: money("89.90"), Discount: money("15.00")},
			{Product: "Trail Pro", Price: money("120.00"), Discount: money("20.00")},
		},
		Conversion: []dashboard.ConversionPoint{
			{Year: 2022, Rate: 0.031},
			{Year: 2023, Rate: 0.042},
			{Year: 2024, Rate: 0.047},
		},
	}
}
