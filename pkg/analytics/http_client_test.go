package analytics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewHTTPClient(HTTPConfig{
		SalesURL:    server.URL,
		ProductsURL: server.URL + "/api",
		GraphQLURL:  server.URL + "/graphql",
		APIKey:      "secret",
	})
	require.NoError(t, err)
	return client
}

func TestNewHTTPClientRequiresURLs(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	assert.EqualError(t, err, "analytics: sales url is required")

	_, err = NewHTTPClient(HTTPConfig{SalesURL: "http://sales"})
	assert.EqualError(t, err, "analytics: products url is required")

	_, err = NewHTTPClient(HTTPConfig{SalesURL: "http://sales", ProductsURL: "http://products"})
	assert.EqualError(t, err, "analytics: graphql url is required")
}

func TestHTTPClientSalesByMonth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sales/month/2023", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"year": 2023, "month": 1, "total_sales": 1500.25}, {"year": 2023, "total_sales": "80"}]`)
	})

	records, err := client.SalesByMonth(context.Background(), 2023)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Month)
	assert.Equal(t, "1500.25", records[0].TotalSales.String())
	assert.False(t, records[1].HasMonth())
	assert.Equal(t, "80", records[1].TotalSales.String())
}

func TestHTTPClientSalesByDateRangeReturnsRawPayload(t *testing.T) {
	payload := `{"total_sales_by_month": [{"year": 2023, "month": 2, "total_sales": 10}]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sales/range", r.URL.Path)
		assert.Equal(t, "2023-01-01", r.URL.Query().Get("start"))
		assert.Equal(t, "2023-03-31", r.URL.Query().Get("end"))
		_, _ = io.WriteString(w, payload)
	})

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	raw, err := client.SalesByDateRange(context.Background(), start, end)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(raw))
}

func TestHTTPClientRecurringCustomersAcceptsNumericIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sales/recurring-customers", r.URL.Path)
		_, _ = io.WriteString(w, `[{"customer_id": 42, "total_spent": 9000}, {"customer_id": "c-7", "total_spent": "8000.50"}]`)
	})

	customers, err := client.RecurringCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "42", customers[0].CustomerID)
	assert.Equal(t, "c-7", customers[1].CustomerID)
	assert.Equal(t, "8000.5", customers[1].TotalSpent.String())
}

func TestHTTPClientProductsByAxis(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/top/talla", r.URL.Path)
		_, _ = io.WriteString(w, `[{"producto": "Runner", "talla": 42, "cantidad_vendida": 12}, {"producto": "Trail", "talla": null, "cantidad_vendida": 3.0}]`)
	})

	products, err := client.ProductsBySize(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, dashboard.ProductAggregate{Product: "Runner", Axis: dashboard.AxisSize, AxisValue: "42", Quantity: 12}, products[0])
	assert.Equal(t, "", products[1].AxisValue)
	assert.Equal(t, 3, products[1].Quantity)
}

func TestHTTPClientProductsByPromotion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/promotions", r.URL.Path)
		_, _ = io.WriteString(w, `[{"producto": "Runner", "promocion": "2x1", "precio": 90, "descuento": 10}, {"producto": "Trail", "precio": 120, "descuento": 0}]`)
	})

	records, err := client.ProductsByPromotion(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Promotion)
	assert.Equal(t, "2x1", *records[0].Promotion)
	assert.Nil(t, records[1].Promotion)
	assert.Equal(t, "120", records[1].Price.String())
}

func TestHTTPClientConversionRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/conversion-rate", r.URL.Path)
		_, _ = io.WriteString(w, `[{"year": 2023, "conversion_rate": 0.25}]`)
	})

	points, err := client.ConversionRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dashboard.ConversionPoint{{Year: 2023, Rate: 0.25}}, points)
}

func TestHTTPClientCustomerName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/graphql", r.URL.Path)
		var req graphqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, customerNameQuery, req.Query)
		switch req.Variables["id"] {
		case "c-1":
			_, _ = io.WriteString(w, `{"data": {"customer": {"name": "Ana"}}}`)
		case "c-2":
			_, _ = io.WriteString(w, `{"data": {"customer": null}}`)
		default:
			_, _ = io.WriteString(w, `{"data": null, "errors": [{"message": "boom"}]}`)
		}
	})

	name, found, err := client.CustomerName(context.Background(), "c-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ana", name)

	_, found, err = client.CustomerName(context.Background(), "c-2")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = client.CustomerName(context.Background(), "c-3")
	assert.EqualError(t, err, "analytics: graphql error: boom")
}

func TestHTTPClientRemoteErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	})

	_, err := client.SalesByYear(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote error 503")
	assert.Contains(t, err.Error(), "down for maintenance")
}

func TestHTTPClientDecodeErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"unexpected": true}`)
	})

	_, err := client.SalesByYear(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analytics: decode response")
}

func TestHTTPClientHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.ConversionRate(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
