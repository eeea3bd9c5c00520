package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		_, _ = out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func yearlySource() *mockSource {
	src := newMockSource()
	src.On("SalesByYear", mockAnyCtx).Return([]SalesRecord{{Year: 2023, TotalSales: money("10")}}, nil)
	return src
}

func TestControllerPageDefaults(t *testing.T) {
	controller := NewController(newTestService(yearlySource(), nil))

	page, err := controller.Page(context.Background(), Selection{})
	require.NoError(t, err)

	assert.Equal(t, "DASHBOARD DE VENTAS", page.Title)
	assert.Equal(t, "es", page.Locale)
	assert.Equal(t, "2023-01-01", page.Start)
	assert.Equal(t, "2023-12-31", page.End)
	assert.Equal(t, ResultFigure, page.Result.Kind)
	assert.Equal(t, "Año", page.Labels["year"])

	require.Len(t, page.Tabs, 3)
	assert.True(t, page.Tabs[0].Active)
	assert.Equal(t, "Ventas Totales", page.Tabs[0].Label)
	require.Len(t, page.Tabs[0].Options, 4)
	assert.True(t, page.Tabs[0].Options[0].Selected)
	assert.False(t, page.Tabs[1].Active)
	assert.Len(t, page.Tabs[1].Options, 5)

	assert.Equal(t, []PageYear{{Value: "2023", Selected: true}, {Value: "2024"}}, page.Years)
}

func TestControllerPagePrefillsMonthlyYear(t *testing.T) {
	src := newMockSource()
	src.On("SalesByMonth", mockAnyCtx, 2023).Return([]SalesRecord{{Year: 2023, Month: 1, TotalSales: money("5")}}, nil)
	controller := NewController(newTestService(src, nil))

	page, err := controller.Page(context.Background(), Selection{Tab: TabTotals, Option: OptionByMonth})
	require.NoError(t, err)
	assert.Equal(t, ResultFigure, page.Result.Kind)
	assert.True(t, page.Result.Controls.YearSelector)
	src.AssertExpectations(t)
}

func TestControllerChartKeepsNeedsInput(t *testing.T) {
	controller := NewController(newTestService(newMockSource(), nil))

	result, err := controller.Chart(context.Background(), Selection{Tab: TabTotals, Option: OptionByMonth})
	require.NoError(t, err)
	assert.Equal(t, ResultNeedsInput, result.Kind)
}

func TestControllerRenderPage(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(newTestService(yearlySource(), nil), WithRenderer(renderer), WithPageTemplate("sales"))

	var buf bytes.Buffer
	require.NoError(t, controller.RenderPage(context.Background(), Selection{}, "/dashboard/charts", &buf))

	assert.Equal(t, "sales", renderer.lastTemplate)
	assert.Equal(t, "<html></html>", buf.String())
	page, ok := renderer.lastPayload["page"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/dashboard/charts", page["endpoint"])
	result, ok := page["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "figure", result["kind"])
}

func TestControllerRenderPageErrors(t *testing.T) {
	controller := NewController(newTestService(yearlySource(), nil))
	assert.ErrorIs(t, controller.RenderPage(context.Background(), Selection{}, "", io.Discard), errMissingRenderer)

	renderer := &stubRenderer{err: errors.New("template missing")}
	controller = NewController(newTestService(yearlySource(), nil), WithRenderer(renderer))
	assert.EqualError(t, controller.RenderPage(context.Background(), Selection{}, "", io.Discard), "template missing")
	assert.Equal(t, defaultPageTemplate, renderer.lastTemplate)

	_, err := NewController(nil).Page(context.Background(), Selection{})
	assert.ErrorIs(t, err, errMissingService)
}
