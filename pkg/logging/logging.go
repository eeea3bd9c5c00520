package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-salesdash/components/dashboard"
)

// Configure builds a logrus logger for level and format ("text" or "json").
func Configure(level, format string, out io.Writer) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if out == nil {
		out = os.Stderr
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(parsed)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	return logger, nil
}

// NewTelemetry routes dashboard events to logger as structured entries.
// Failures are logged at warn level, everything else at info or debug.
func NewTelemetry(logger logrus.FieldLogger) dashboard.Telemetry {
	return dashboard.TelemetryFunc(func(_ context.Context, event string, payload map[string]any) {
		entry := logger.WithFields(logrus.Fields(payload)).WithField("event", event)
		switch event {
		case dashboard.EventRemoteError, dashboard.EventMalformed, dashboard.EventYearsFailure:
			entry.Warn("dashboard event")
		case dashboard.EventLookupMiss, dashboard.EventNeedsInput:
			entry.Debug("dashboard event")
		default:
			entry.Info("dashboard event")
		}
	})
}
