package dashboard

import (
	"context"
)

// Bootstrap builds the Service and loads the year catalog once. A failed load
// leaves the catalog empty; the dashboard still serves every chart that does
// not need a year.
func Bootstrap(ctx context.Context, opts Options) (*Service, error) {
	if opts.Source == nil {
		return nil, errMissingDataSource
	}
	telemetry := normalizeTelemetry(opts.Telemetry)
	if len(opts.Years.Years()) == 0 {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		loadCtx, cancel := context.WithTimeout(ctx, timeout)
		years, err := LoadYearCatalog(loadCtx, opts.Source)
		cancel()
		if err != nil {
			telemetry.Record(ctx, EventYearsFailure, map[string]any{"error": err.Error()})
		} else {
			telemetry.Record(ctx, EventYearsLoaded, map[string]any{"years": years.Years()})
		}
		opts.Years = years
	}
	return NewService(opts), nil
}
