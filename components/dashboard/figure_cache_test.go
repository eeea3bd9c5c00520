package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFigureCacheStoresEntry(t *testing.T) {
	cache := NewFigureCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestFigureCacheExpires(t *testing.T) {
	cache := NewFigureCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestFigureCacheSkipsErrorsAndDisabledTTL(t *testing.T) {
	cache := NewFigureCache(time.Minute)
	_, err := cache.GetOrRender("key", func() (string, error) { return "", errors.New("render failed") })
	require.Error(t, err)
	assert.Zero(t, cache.Len())

	disabled := NewFigureCache(0)
	calls := 0
	for i := 0; i < 3; i++ {
		_, err := disabled.GetOrRender("key", func() (string, error) {
			calls++
			return "x", nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	assert.Zero(t, disabled.Len())
}
