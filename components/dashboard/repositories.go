package dashboard

import (
	"context"
	"time"
)

// SalesRepository loads sales aggregates from the sales service.
type SalesRepository interface {
	SalesByYear(ctx context.Context) ([]SalesRecord, error)
	SalesByMonth(ctx context.Context, year int) ([]SalesRecord, error)
	// SalesByDateRange returns the payload untouched; its shape is validated by
	// the shaping pipeline.
	SalesByDateRange(ctx context.Context, start, end time.Time) ([]byte, error)
	RecurringCustomers(ctx context.Context) ([]CustomerSpend, error)
}

// ProductRepository loads product rankings from the product catalog.
type ProductRepository interface {
	ProductsByAxis(ctx context.Context, axis Axis) ([]ProductAggregate, error)
	ProductsByPromotion(ctx context.Context) ([]PromotionRecord, error)
}

// CustomerDirectory resolves customer display names.
type CustomerDirectory interface {
	CustomerName(ctx context.Context, customerID string) (string, bool, error)
}

// ConversionRepository loads conversion rates.
type ConversionRepository interface {
	ConversionRate(ctx context.Context) ([]ConversionPoint, error)
}

// DataSource is the union of every remote collaborator the dashboard reads from.
type DataSource interface {
	SalesRepository
	ProductRepository
	CustomerDirectory
	ConversionRepository
}
