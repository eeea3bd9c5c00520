package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-salesdash/components/dashboard"
	"github.com/goliatone/go-salesdash/components/dashboard/commands"
	"github.com/goliatone/go-salesdash/components/dashboard/gorouter"
	"github.com/goliatone/go-salesdash/components/dashboard/httpapi"
	"github.com/goliatone/go-salesdash/components/dashboard/queries"
	"github.com/goliatone/go-salesdash/pkg/analytics"
	"github.com/goliatone/go-salesdash/pkg/config"
	"github.com/goliatone/go-salesdash/pkg/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const shutdownTimeout = 5 * time.Second

type Globals struct {
	EnvFile []string `name:"env-file" type:"path" default:".env" help:"Env files read before the process environment (repeatable)."`
	Mock    bool     `help:"Serve deterministic demo data instead of calling the remote services."`
}

type cli struct {
	Globals `embed:""`

	Serve    serveCmd    `cmd:"" default:"1" help:"Run the dashboard web server."`
	Snapshot snapshotCmd `cmd:"" help:"Render every chart to standalone HTML files."`
	Chart    chartCmd    `cmd:"" help:"Render one chart and print the result as JSON."`
}

type serveCmd struct {
	Transport string `enum:"fiber,http" default:"fiber" help:"HTTP stack: go-router on fiber or net/http."`
	BasePath  string `default:"/" help:"Path prefix for the dashboard routes."`
}

type snapshotCmd struct {
	Out   string `required:"" type:"path" help:"Directory receiving the HTML files and manifest."`
	Year  int    `help:"Year for the monthly chart (defaults to the first year with sales)."`
	Start string `help:"Start date (YYYY-MM-DD) for the date range chart."`
	End   string `help:"End date (YYYY-MM-DD) for the date range chart."`
}

type chartCmd struct {
	Tab     string `default:"totals" help:"Tab: totals, top_products or conversion."`
	Option  string `help:"Option within the tab (defaults to the first one)."`
	Year    string `help:"Year for the monthly chart."`
	Start   string `help:"Start date (YYYY-MM-DD)."`
	End     string `help:"End date (YYYY-MM-DD)."`
	HTMLOut string `name:"html-out" type:"path" help:"Write the figure HTML to this file."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("salesdash"),
		kong.Description("Sales analytics dashboard."),
		kong.UsageOnError(),
		kong.Bind(&app.Globals),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

// runtime is the wired application shared by every command.
type runtime struct {
	cfg        *config.Config
	logger     *logrus.Logger
	service    *dashboard.Service
	controller *dashboard.Controller
}

func (g *Globals) setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(g.EnvFile...)
	if err != nil {
		return nil, err
	}
	logger, err := logging.Configure(cfg.App.LogLevel, cfg.App.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}
	labels, err := dashboard.LoadLabels(cfg.Dashboard.LabelsFile)
	if err != nil {
		return nil, err
	}
	source, err := g.dataSource(cfg)
	if err != nil {
		return nil, err
	}

	presenter := dashboard.NewEChartsProvider(
		dashboard.WithChartTheme(cfg.Dashboard.ChartTheme),
		dashboard.WithChartAssetsHost(cfg.Dashboard.EChartsAssetsHost),
		dashboard.WithFigureCache(dashboard.NewFigureCache(cfg.Dashboard.ChartCacheTTL)),
	)

	service, err := dashboard.Bootstrap(ctx, dashboard.Options{
		Source:         source,
		Presenter:      presenter,
		Labels:         labels,
		Telemetry:      logging.NewTelemetry(logger),
		Locale:         cfg.Dashboard.Locale,
		RequestTimeout: cfg.Dashboard.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}
	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("salesdash: templates: %w", err)
	}
	return &runtime{
		cfg:        cfg,
		logger:     logger,
		service:    service,
		controller: dashboard.NewController(service, dashboard.WithRenderer(renderer)),
	}, nil
}

func (g *Globals) dataSource(cfg *config.Config) (dashboard.DataSource, error) {
	if g.Mock {
		return analytics.NewMockClient(analytics.DemoData()), nil
	}
	client, err := analytics.NewHTTPClient(analytics.HTTPConfig{
		SalesURL:    cfg.Services.OtherServiceURL,
		ProductsURL: cfg.Services.BackendURL,
		GraphQLURL:  cfg.Services.GraphQLEndpoint,
		APIKey:      cfg.Services.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return analytics.NewDataSource(analytics.Sources{
		Sales:      client,
		Products:   client,
		Customers:  client,
		Conversion: client,
	}), nil
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := g.setup(ctx)
	if err != nil {
		return err
	}
	addr := rt.cfg.Addr()
	log := rt.logger.WithFields(logrus.Fields{"addr": addr, "transport": cmd.Transport, "mock": g.Mock})

	switch cmd.Transport {
	case "http":
		return cmd.serveHTTP(ctx, rt, addr, log)
	default:
		return cmd.serveFiber(ctx, rt, addr, log)
	}
}

func (cmd *serveCmd) serveFiber(ctx context.Context, rt *runtime, addr string, log logrus.FieldLogger) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: rt.controller,
		BasePath:   cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("salesdash: register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(addr)
	}()
	log.Info("dashboard listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (cmd *serveCmd) serveHTTP(ctx context.Context, rt *runtime, addr string, log logrus.FieldLogger) error {
	mux := http.NewServeMux()
	handlers := &httpapi.Handlers{Controller: rt.controller, ChartEndpoint: "/charts"}
	handlers.Mount(mux)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Info("dashboard listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (cmd *snapshotCmd) Run(ctx context.Context, g *Globals) error {
	rt, err := g.setup(ctx)
	if err != nil {
		return err
	}
	year := ""
	if cmd.Year > 0 {
		year = strconv.Itoa(cmd.Year)
	}
	sel, err := dashboard.ParseSelection(dashboard.TabTotals.String(), "", year, cmd.Start, cmd.End)
	if err != nil {
		return err
	}
	params := sel.Params
	if params.Year == 0 {
		params.Year = rt.service.Years().Default()
	}
	if params.Start.IsZero() {
		params.Start = dashboard.DefaultRangeStart
	}
	if params.End.IsZero() {
		params.End = dashboard.DefaultRangeEnd
	}

	snapshot := commands.NewSnapshotCommand(rt.service, logging.NewTelemetry(rt.logger))
	if err := snapshot.Execute(ctx, commands.SnapshotInput{OutDir: cmd.Out, Params: params}); err != nil {
		return err
	}
	rt.logger.WithField("out", cmd.Out).Info("snapshot written")
	return nil
}

func (cmd *chartCmd) Run(ctx context.Context, g *Globals) error {
	rt, err := g.setup(ctx)
	if err != nil {
		return err
	}
	sel, err := dashboard.ParseSelection(cmd.Tab, cmd.Option, cmd.Year, cmd.Start, cmd.End)
	if err != nil {
		return err
	}
	result, err := queries.NewChartQuery(rt.service).Query(ctx, sel)
	if err != nil {
		return err
	}
	if result.Figure != nil && cmd.HTMLOut != "" {
		if err := os.WriteFile(cmd.HTMLOut, []byte(result.Figure.HTML), 0o644); err != nil {
			return fmt.Errorf("salesdash: write %s: %w", cmd.HTMLOut, err)
		}
		result.Figure.HTML = cmd.HTMLOut
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
