package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

func TestNewDataSourceDelegatesPerConcern(t *testing.T) {
	demo := NewMockClient(DemoData())
	failing := NewMockClient(MockData{Err: errors.New("directory offline")})

	src := NewDataSource(Sources{
		Sales:      demo,
		Products:   demo,
		Customers:  failing,
		Conversion: demo,
	})

	years, err := src.SalesByYear(context.Background())
	require.NoError(t, err)
	assert.Len(t, years, 3)

	products, err := src.ProductsByAxis(context.Background(), dashboard.AxisBrand)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	_, _, err = src.CustomerName(context.Background(), "c-100")
	assert.EqualError(t, err, "directory offline")
}

func TestMockClientFiltersMonthlySalesByYear(t *testing.T) {
	client := NewMockClient(DemoData())

	records, err := client.SalesByMonth(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, records, 12)
	for _, record := range records {
		assert.Equal(t, 2024, record.Year)
	}

	records, err = client.SalesByMonth(context.Background(), 1999)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMockClientReturnsCopies(t *testing.T) {
	client := NewMockClient(DemoData())

	first, err := client.ConversionRate(context.Background())
	require.NoError(t, err)
	first[0].Rate = 99

	second, err := client.ConversionRate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.031, second[0].Rate, 1e-9)
}

func TestMockClientCustomerNameMiss(t *testing.T) {
	client := NewMockClient(DemoData())

	name, found, err := client.CustomerName(context.Background(), "c-100")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ana Torres", name)

	_, found, err = client.CustomerName(context.Background(), "c-999")
	require.NoError(t, err)
	assert.False(t, found)
}
