package dashboard

import "context"

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a function into Telemetry.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

// Record implements Telemetry.
func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

// Events emitted by the render service.
const (
	EventChartRender  = "dashboard.chart.render"
	EventChartNoData  = "dashboard.chart.no_data"
	EventMalformed    = "dashboard.chart.malformed"
	EventLookupMiss   = "dashboard.chart.lookup_miss"
	EventRemoteError  = "dashboard.chart.remote_error"
	EventNeedsInput   = "dashboard.chart.needs_input"
	EventYearsLoaded  = "dashboard.years.load"
	EventYearsFailure = "dashboard.years.load_error"
)

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
