package commands

import (
	"context"

	dashboard "github.com/goliatone/go-salesdash/components/dashboard"
)

// Telemetry allows commands to emit structured events. Any dashboard
// Telemetry sink satisfies it.
type Telemetry = dashboard.Telemetry

// EventSnapshot is recorded once per snapshot run.
const EventSnapshot = "dashboard.snapshot"

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
