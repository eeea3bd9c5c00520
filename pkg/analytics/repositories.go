package analytics

import (
	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

// Sources names the client serving each concern of the dashboard. Sources can
// mix live and mock clients, for example a live sales service with a fixture
// customer directory.
type Sources struct {
	Sales      SalesClient
	Products   ProductClient
	Customers  CustomerClient
	Conversion ConversionClient
}

// NewDataSource adapts a set of clients into the dashboard data source.
func NewDataSource(src Sources) dashboard.DataSource {
	return &dataSource{
		SalesClient:      src.Sales,
		ProductClient:    src.Products,
		CustomerClient:   src.Customers,
		ConversionClient: src.Conversion,
	}
}

type dataSource struct {
	SalesClient
	ProductClient
	CustomerClient
	ConversionClient
}
