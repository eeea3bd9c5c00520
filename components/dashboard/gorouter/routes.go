package gorouter

import (
	"bytes"
	"errors"
	"net/http"
	"path"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-salesdash/components/dashboard"
	"github.com/goliatone/go-salesdash/components/dashboard/httpapi"
)

// Config wires go-router with the dashboard controller.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML   string
	Charts string
	Health string
}

// Register mounts the dashboard page, the chart JSON endpoint and the health
// check on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/"
	}
	chartsEndpoint := path.Join(base, routes.Charts)

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		sel, err := httpapi.ParsePageQuery(queryOf(ctx))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderPage(ctx.Context(), sel, chartsEndpoint, &buf); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Charts, router.WrapHandler(func(ctx router.Context) error {
		sel, err := httpapi.ParseChartQuery(queryOf(ctx))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		result, err := cfg.Controller.Chart(ctx.Context(), sel)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	group.Get(routes.Health, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}))

	return nil
}

func queryOf(ctx router.Context) httpapi.Query {
	return func(key string) string {
		return ctx.Query(key)
	}
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/"
	}
	if routes.Charts == "" {
		routes.Charts = "/charts"
	}
	if routes.Health == "" {
		routes.Health = "/healthz"
	}
	return routes
}
