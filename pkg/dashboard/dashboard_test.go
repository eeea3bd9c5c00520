package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-salesdash/components/dashboard"
	"github.com/goliatone/go-salesdash/pkg/analytics"
)

func TestNewDemoRendersEverySelection(t *testing.T) {
	service, err := NewDemo(context.Background(), Options{Locale: "en"})
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023, 2024}, service.Years().Years())

	for _, tab := range core.Tabs() {
		for _, opt := range core.TabOptions(tab) {
			result, err := service.RenderChart(context.Background(), Selection{
				Tab:    tab,
				Option: opt,
				Params: core.Params{Year: 2023, Start: core.DefaultRangeStart, End: core.DefaultRangeEnd},
			})
			require.NoError(t, err, "%s/%s", tab, opt)
			assert.Equal(t, core.ResultFigure, result.Kind, "%s/%s", tab, opt)
		}
	}
}

func TestNewRequiresServiceURLs(t *testing.T) {
	_, err := New(context.Background(), analytics.HTTPConfig{}, Options{})
	assert.EqualError(t, err, "analytics: sales url is required")
}
