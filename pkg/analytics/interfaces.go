package analytics

import (
	"context"
	"time"

	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

// SalesClient fetches sales aggregates from the sales service.
type SalesClient interface {
	SalesByYear(ctx context.Context) ([]dashboard.SalesRecord, error)
	SalesByMonth(ctx context.Context, year int) ([]dashboard.SalesRecord, error)
	SalesByDateRange(ctx context.Context, start, end time.Time) ([]byte, error)
	RecurringCustomers(ctx context.Context) ([]dashboard.CustomerSpend, error)
}

// ProductClient fetches product rankings from the product catalog.
type ProductClient interface {
	ProductsByAxis(ctx context.Context, axis dashboard.Axis) ([]dashboard.ProductAggregate, error)
	ProductsByPromotion(ctx context.Context) ([]dashboard.PromotionRecord, error)
}

// CustomerClient resolves customer names from the customer directory.
type CustomerClient interface {
	CustomerName(ctx context.Context, customerID string) (string, bool, error)
}

// ConversionClient fetches customer conversion rates.
type ConversionClient interface {
	ConversionRate(ctx context.Context) ([]dashboard.ConversionPoint, error)
}

// Client is a convenience union for services that implement all calls.
type Client interface {
	SalesClient
	ProductClient
	CustomerClient
	ConversionClient
}

var (
	_ Client               = (*HTTPClient)(nil)
	_ Client               = (*MockClient)(nil)
	_ dashboard.DataSource = Client(nil)
)
