package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLabelsTranslate(t *testing.T) {
	labels := DefaultLabels()
	ctx := context.Background()

	title, err := labels.Translate(ctx, "title.totals.by_month", "es", map[string]any{"year": 2023})
	require.NoError(t, err)
	assert.Equal(t, "Total de Ventas por Mes del 2023", title)

	title, err = labels.Translate(ctx, "title.totals.by_date_range", "en-US", map[string]any{"start": "2023-01-01", "end": "2023-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "Total sales from 2023-01-01 to 2023-02-01", title)

	_, err = labels.Translate(ctx, "title.unknown", "es", nil)
	assert.Error(t, err)
}

func TestEveryRouteHasLabels(t *testing.T) {
	labels := DefaultLabels()
	ctx := context.Background()
	for _, tab := range Tabs() {
		_, err := labels.Translate(ctx, "tab."+tab.String(), "es", nil)
		require.NoError(t, err, tab.String())
		for _, opt := range TabOptions(tab) {
			routing, err := Route(Selection{Tab: tab, Option: opt, Params: Params{Year: 2023, Start: date(2023, 1, 1), End: date(2023, 1, 2)}})
			require.NoError(t, err)
			for _, locale := range []string{"es", "en"} {
				_, err = labels.Translate(ctx, "title."+routing.Request.Title, locale, nil)
				assert.NoError(t, err, routing.Request.Title)
				_, err = labels.Translate(ctx, "option."+tab.String()+"."+opt.String(), locale, nil)
				assert.NoError(t, err)
			}
		}
	}
}

func TestLoadLabelsOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  title: {es: \"Ventas ACME\"}\nmessage:\n  extra: {en: \"Extra\"}\n"), 0o600))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	ctx := context.Background()

	title, err := labels.Translate(ctx, "app.title", "es", nil)
	require.NoError(t, err)
	assert.Equal(t, "Ventas ACME", title)

	title, err = labels.Translate(ctx, "app.title", "en", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sales dashboard", title)

	extra, err := labels.Translate(ctx, "message.extra", "es", nil)
	require.NoError(t, err)
	assert.Equal(t, "Extra", extra, "falls back to english")

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveLocalizedValue(t *testing.T) {
	values := map[string]string{"es": "Hola", "en": "Hello", "default": "Hi"}
	assert.Equal(t, "Hola", ResolveLocalizedValue(values, "es-MX", "fallback"))
	assert.Equal(t, "Hello", ResolveLocalizedValue(values, "EN", "fallback"))
	assert.Equal(t, "Hi", ResolveLocalizedValue(values, "fr", "fallback"))
	assert.Equal(t, "Hello", ResolveLocalizedValue(map[string]string{"en": "Hello"}, "fr", "fallback"))
	assert.Equal(t, "fallback", ResolveLocalizedValue(nil, "es", "fallback"))
}

func TestTranslateOrFallback(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "Ventas Totales", translateOrFallback(ctx, DefaultLabels(), "tab.totals", "es", "x", nil))
	assert.Equal(t, "x", translateOrFallback(ctx, DefaultLabels(), "tab.none", "es", "x", nil))
	assert.Equal(t, "tab.none", translateOrFallback(ctx, nil, "tab.none", "es", "", nil))
}
