package analytics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const customerNameQuery = `query CustomerName($id: ID!) { customer(id: $id) { name } }`

// HTTPConfig configures the HTTP client. SalesURL serves sales and
// conversion aggregates, ProductsURL the product catalog and GraphQLURL the
// customer directory.
type HTTPConfig struct {
	SalesURL    string
	ProductsURL string
	GraphQLURL  string
	APIKey      string
	HTTPClient  *http.Client
}

// HTTPClient talks to the remote sales, product and customer services.
type HTTPClient struct {
	salesURL    string
	productsURL string
	graphqlURL  string
	apiKey      string
	client      *http.Client
}

// NewHTTPClient builds a client capable of hitting the live services.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.SalesURL == "" {
		return nil, fmt.Errorf("analytics: sales url is required")
	}
	if cfg.ProductsURL == "" {
		return nil, fmt.Errorf("analytics: products url is required")
	}
	if cfg.GraphQLURL == "" {
		return nil, fmt.Errorf("analytics: graphql url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		salesURL:    strings.TrimRight(cfg.SalesURL, "/"),
		productsURL: strings.TrimRight(cfg.ProductsURL, "/"),
		graphqlURL:  cfg.GraphQLURL,
		apiKey:      cfg.APIKey,
		client:      httpClient,
	}, nil
}

// SalesByYear implements SalesClient.
func (c *HTTPClient) SalesByYear(ctx context.Context) ([]dashboard.SalesRecord, error) {
	var rows []salesRow
	if err := c.getJSON(ctx, c.salesURL+"/sales/year", &rows); err != nil {
		return nil, err
	}
	return toSalesRecords(rows), nil
}

// SalesByMonth implements SalesClient.
func (c *HTTPClient) SalesByMonth(ctx context.Context, year int) ([]dashboard.SalesRecord, error) {
	var rows []salesRow
	if err := c.getJSON(ctx, c.salesURL+"/sales/month/"+strconv.Itoa(year), &rows); err != nil {
		return nil, err
	}
	return toSalesRecords(rows), nil
}

// SalesByDateRange implements SalesClient. The payload is returned as sent.
func (c *HTTPClient) SalesByDateRange(ctx context.Context, start, end time.Time) ([]byte, error) {
	query := url.Values{}
	query.Set("start", start.Format(time.DateOnly))
	query.Set("end", end.Format(time.DateOnly))
	return c.do(ctx, http.MethodGet, c.salesURL+"/sales/range?"+query.Encode(), nil)
}

// RecurringCustomers implements SalesClient.
func (c *HTTPClient) RecurringCustomers(ctx context.Context) ([]dashboard.CustomerSpend, error) {
	var rows []customerRow
	if err := c.getJSON(ctx, c.salesURL+"/sales/recurring-customers", &rows); err != nil {
		return nil, err
	}
	out := make([]dashboard.CustomerSpend, len(rows))
	for i, row := range rows {
		out[i] = dashboard.CustomerSpend{CustomerID: string(row.CustomerID), TotalSpent: row.TotalSpent}
	}
	return out, nil
}

// ProductsByAxis implements ProductClient.
func (c *HTTPClient) ProductsByAxis(ctx context.Context, axis dashboard.Axis) ([]dashboard.ProductAggregate, error) {
	if axis.Field() == "" {
		return nil, fmt.Errorf("analytics: unsupported axis %s", axis)
	}
	var rows []productRow
	if err := c.getJSON(ctx, c.productsURL+"/products/top/"+axis.Field(), &rows); err != nil {
		return nil, err
	}
	out := make([]dashboard.ProductAggregate, len(rows))
	for i, row := range rows {
		out[i] = dashboard.ProductAggregate{
			Product:   string(row.Product),
			Axis:      axis,
			AxisValue: row.value(axis),
			Quantity:  int(row.Quantity.IntPart()),
		}
	}
	return out, nil
}

// ProductsBySize returns the top products grouped by size.
func (c *HTTPClient) ProductsBySize(ctx context.Context) ([]dashboard.ProductAggregate, error) {
	return c.ProductsByAxis(ctx, dashboard.AxisSize)
}

// ProductsByModel returns the top products grouped by model.
func (c *HTTPClient) ProductsByModel(ctx context.Context) ([]dashboard.ProductAggregate, error) {
	return c.ProductsByAxis(ctx, dashboard.AxisModel)
}

// ProductsByColor returns the top products grouped by color.
func (c *HTTPClient) ProductsByColor(ctx context.Context) ([]dashboard.ProductAggregate, error) {
	return c.ProductsByAxis(ctx, dashboard.AxisColor)
}

// ProductsByBrand returns the top products grouped by brand.
func (c *HTTPClient) ProductsByBrand(ctx context.Context) ([]dashboard.ProductAggregate, error) {
	return c.ProductsByAxis(ctx, dashboard.AxisBrand)
}

// ProductsByPromotion implements ProductClient.
func (c *HTTPClient) ProductsByPromotion(ctx context.Context) ([]dashboard.PromotionRecord, error) {
	var rows []promotionRow
	if err := c.getJSON(ctx, c.productsURL+"/products/promotions", &rows); err != nil {
		return nil, err
	}
	out := make([]dashboard.PromotionRecord, len(rows))
	for i, row := range rows {
		out[i] = dashboard.PromotionRecord{
			Product:   string(row.Product),
			Promotion: row.promotion(),
			Price:     row.Price,
			Discount:  row.Discount,
		}
	}
	return out, nil
}

// ConversionRate implements ConversionClient.
func (c *HTTPClient) ConversionRate(ctx context.Context) ([]dashboard.ConversionPoint, error) {
	var rows []conversionRow
	if err := c.getJSON(ctx, c.salesURL+"/conversion-rate", &rows); err != nil {
		return nil, err
	}
	out := make([]dashboard.ConversionPoint, len(rows))
	for i, row := range rows {
		out[i] = dashboard.ConversionPoint{Year: row.Year, Rate: row.Rate}
	}
	return out, nil
}

// CustomerName implements CustomerClient through the GraphQL directory. A
// customer the directory does not know is reported as not found.
func (c *HTTPClient) CustomerName(ctx context.Context, customerID string) (string, bool, error) {
	req := graphqlRequest{
		Query:     customerNameQuery,
		Variables: map[string]any{"id": customerID},
	}
	body, err := c.do(ctx, http.MethodPost, c.graphqlURL, req)
	if err != nil {
		return "", false, err
	}
	var resp customerNameResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false, fmt.Errorf("analytics: decode graphql response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return "", false, fmt.Errorf("analytics: graphql error: %s", resp.Errors[0].Message)
	}
	if resp.Data.Customer == nil || strings.TrimSpace(resp.Data.Customer.Name) == "" {
		return "", false, nil
	}
	return resp.Data.Customer.Name, true, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, target any) error {
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("analytics: encode payload: %w", err)
		}
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("analytics: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// flexString decodes identifiers and labels that remotes send either as JSON
// strings or as numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*s = flexString(value)
		return nil
	}
	*s = flexString(data)
	return nil
}

type salesRow struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

func toSalesRecords(rows []salesRow) []dashboard.SalesRecord {
	out := make([]dashboard.SalesRecord, len(rows))
	for i, row := range rows {
		out[i] = dashboard.SalesRecord{Year: row.Year, Month: row.Month, TotalSales: row.TotalSales}
	}
	return out
}

type customerRow struct {
	CustomerID flexString      `json:"customer_id"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

type productRow struct {
	Product  flexString      `json:"producto"`
	Size     flexString      `json:"talla"`
	Model    flexString      `json:"modelo"`
	Color    flexString      `json:"color"`
	Brand    flexString      `json:"marca"`
	Quantity decimal.Decimal `json:"cantidad_vendida"`
}

func (r productRow) value(axis dashboard.Axis) string {
	switch axis {
	case dashboard.AxisSize:
		return string(r.Size)
	case dashboard.AxisModel:
		return string(r.Model)
	case dashboard.AxisColor:
		return string(r.Color)
	case dashboard.AxisBrand:
		return string(r.Brand)
	default:
		return ""
	}
}

type promotionRow struct {
	Product   flexString      `json:"producto"`
	Promotion *flexString     `json:"promocion"`
	Price     decimal.Decimal `json:"precio"`
	Discount  decimal.Decimal `json:"descuento"`
}

func (r promotionRow) promotion() *string {
	if r.Promotion == nil || *r.Promotion == "" {
		return nil
	}
	value := string(*r.Promotion)
	return &value
}

type conversionRow struct {
	Year int     `json:"year"`
	Rate float64 `json:"conversion_rate"`
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type customerNameResponse struct {
	Data struct {
		Customer *struct {
			Name string `json:"name"`
		} `json:"customer"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}
