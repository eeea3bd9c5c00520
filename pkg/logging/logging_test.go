package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-salesdash/components/dashboard"
)

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Configure("debug", "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("cycle_id", "abc").Info("hello")
	assert.Contains(t, buf.String(), `"cycle_id":"abc"`)

	_, err = Configure("chatty", "text", nil)
	assert.Error(t, err)

	_, err = Configure("info", "xml", nil)
	assert.EqualError(t, err, `logging: unknown format "xml"`)
}

func TestTelemetryLevels(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	telemetry := NewTelemetry(logger)

	telemetry.Record(context.Background(), dashboard.EventChartRender, map[string]any{"tab": "totals"})
	telemetry.Record(context.Background(), dashboard.EventRemoteError, map[string]any{"error": "timeout"})
	telemetry.Record(context.Background(), dashboard.EventLookupMiss, map[string]any{"count": 2})

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, dashboard.EventChartRender, entries[0].Data["event"])
	assert.Equal(t, "totals", entries[0].Data["tab"])
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, logrus.DebugLevel, entries[2].Level)
}
