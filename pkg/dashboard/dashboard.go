// Package dashboard is the public entry point of the sales dashboard. It
// re-exports the core service types and wires the analytics clients.
package dashboard

import (
	"context"

	core "github.com/goliatone/go-salesdash/components/dashboard"
	"github.com/goliatone/go-salesdash/pkg/analytics"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Selection re-export for convenience.
type Selection = core.Selection

// RenderResult re-export for convenience.
type RenderResult = core.RenderResult

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// New bootstraps a service reading from the live services described by cfg.
func New(ctx context.Context, cfg analytics.HTTPConfig, opts Options) (*Service, error) {
	client, err := analytics.NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	opts.Source = client
	return core.Bootstrap(ctx, opts)
}

// NewDemo bootstraps a service over the deterministic demo data set.
func NewDemo(ctx context.Context, opts Options) (*Service, error) {
	opts.Source = analytics.NewMockClient(analytics.DemoData())
	return core.Bootstrap(ctx, opts)
}
